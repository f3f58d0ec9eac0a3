package grader

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// RawMsg is one undecoded queue message. Handle acknowledges it.
type RawMsg struct {
	Body   string
	Handle string
}

// Queue is the narrow slice of a message broker the grader adapter needs.
type Queue interface {
	Send(ctx context.Context, body string) error
	// Receive long-polls and returns zero or more messages.
	Receive(ctx context.Context) ([]RawMsg, error)
	Ack(ctx context.Context, handle string) error
}

// SqsQueue is the production Queue over one AWS SQS queue url.
type SqsQueue struct {
	client *sqs.Client
	url    string
}

func NewSqsQueue(client *sqs.Client, url string) *SqsQueue {
	return &SqsQueue{client: client, url: url}
}

func (q *SqsQueue) Send(ctx context.Context, body string) error {
	_, err := q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(q.url),
		MessageBody: aws.String(body),
	})
	if err != nil {
		return fmt.Errorf("failed to send message to queue: %w", err)
	}
	return nil
}

func (q *SqsQueue) Receive(ctx context.Context) ([]RawMsg, error) {
	out, err := q.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(q.url),
		MaxNumberOfMessages: 10,
		WaitTimeSeconds:     5,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to receive messages from queue: %w", err)
	}
	msgs := make([]RawMsg, 0, len(out.Messages))
	for _, m := range out.Messages {
		msgs = append(msgs, RawMsg{
			Body:   aws.ToString(m.Body),
			Handle: aws.ToString(m.ReceiptHandle),
		})
	}
	return msgs, nil
}

func (q *SqsQueue) Ack(ctx context.Context, handle string) error {
	_, err := q.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(q.url),
		ReceiptHandle: aws.String(handle),
	})
	if err != nil {
		return fmt.Errorf("failed to delete message from queue: %w", err)
	}
	return nil
}

// ChanQueue is an in-process Queue for tests and local runs without AWS.
type ChanQueue struct {
	msgs chan string
}

func NewChanQueue() *ChanQueue {
	return &ChanQueue{msgs: make(chan string, 1024)}
}

func (q *ChanQueue) Send(ctx context.Context, body string) error {
	select {
	case q.msgs <- body:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *ChanQueue) Receive(ctx context.Context) ([]RawMsg, error) {
	select {
	case body := <-q.msgs:
		return []RawMsg{{Body: body}}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *ChanQueue) Ack(ctx context.Context, handle string) error {
	return nil
}
