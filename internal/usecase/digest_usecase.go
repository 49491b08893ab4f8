package usecase

import (
	"context"
)

// SendSummary reports what one send pass did. SkippedEmpty counts
// recipients whose preferences matched nothing this week.
type SendSummary struct {
	Sent         int `json:"sent"`
	SkippedEmpty int `json:"skipped_empty"`
	Failed       int `json:"failed"`
}

// DigestUsecase defines the interface for the weekly digest send pass
type DigestUsecase interface {
	// RunSendPass takes one snapshot of active deals and walks every
	// recipient: filter by preference, assemble, render, deliver. Failures
	// for one recipient are counted and do not stop the pass; a snapshot
	// or recipient listing that cannot be read aborts with an error.
	RunSendPass(ctx context.Context) (*SendSummary, error)
}
