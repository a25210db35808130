package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"TripShopper/app/services/agent/internal/agent/thinking"

	"github.com/segmentio/kafka-go"
)

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// TracePublisher streams thinking trails to kafka, keyed by session so one
// session's trails stay ordered within a partition.
type TracePublisher struct {
	writer MessageWriter
	now    func() time.Time
}

func NewTraceWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		RequiredAcks:           kafka.RequireOne,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           5 * time.Millisecond,
		WriteTimeout:           2 * time.Second,
		MaxAttempts:            3,
	}
}

func NewTracePublisher(writer MessageWriter) *TracePublisher {
	return &TracePublisher{writer: writer, now: time.Now}
}

func (p *TracePublisher) Publish(ctx context.Context, sessionID string, steps []thinking.Step) error {
	if len(steps) == 0 {
		return nil
	}
	value, err := json.Marshal(TraceMessage{SessionID: sessionID, Steps: steps, PublishedAt: p.now()})
	if err != nil {
		return fmt.Errorf("encode trace: %w", err)
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(sessionID), Value: value}); err != nil {
		return fmt.Errorf("write trace: %w", err)
	}
	return nil
}
