package service

import (
	"context"
	"time"
)

// Pass names used in PassSummaryEvent.
const (
	PassIngest = "ingest"
	PassSend   = "send"
)

// PassSummaryEvent is published after every batch pass so downstream
// consumers (dashboards, alerting) can observe pipeline health without
// scraping logs.
type PassSummaryEvent struct {
	RequestID    string    `json:"request_id,omitempty"` // For distributed tracing
	Pass         string    `json:"pass"`                 // PassIngest or PassSend
	Inserted     int       `json:"inserted,omitempty"`
	Duplicates   int       `json:"duplicates,omitempty"`
	Sent         int       `json:"sent,omitempty"`
	SkippedEmpty int       `json:"skipped_empty,omitempty"`
	Failed       int       `json:"failed"`
	StartedAt    time.Time `json:"started_at"`
	Duration     string    `json:"duration"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishPassSummary publishes a pass summary event for async consumption
	PublishPassSummary(ctx context.Context, event *PassSummaryEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
