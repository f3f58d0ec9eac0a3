package subm

import (
	"fmt"
	"net/http"

	"github.com/arenaoj/backend/srvcerror"
)

const ErrCodeSubmNotFound = "submission_not_found"

func ErrSubmNotFound() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeSubmNotFound,
		"submission not found",
	).SetHttpStatusCode(http.StatusNotFound)
}

const ErrCodeNoTestCases = "no_test_cases"

func ErrNoTestCases() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeNoTestCases,
		"problem has no test cases",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeCodeTooLong = "code_too_long"

func ErrCodeTooLong(maxKB int) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeCodeTooLong,
		fmt.Sprintf("submitted code is too long, maximum length is %d KB", maxKB),
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeEmptyCode = "empty_code"

func ErrEmptyCode() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeEmptyCode,
		"submitted code is empty",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeInvalidLanguage = "invalid_language"

func ErrInvalidLanguage(langID string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInvalidLanguage,
		fmt.Sprintf("programming language %q is not supported", langID),
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeInvalidStatus = "invalid_status"

func ErrInvalidStatus(status string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInvalidStatus,
		fmt.Sprintf("unknown submission status %q", status),
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeStatusRegression = "status_regression"

func ErrStatusRegression(from, to Status) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeStatusRegression,
		fmt.Sprintf("submission status may not change from %q to %q", from, to),
	).SetHttpStatusCode(http.StatusConflict)
}

const ErrCodeInconsistentResult = "inconsistent_result"

func ErrInconsistentResult(msg string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInconsistentResult,
		msg,
	).SetHttpStatusCode(http.StatusInternalServerError)
}
