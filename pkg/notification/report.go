package notification

import (
	"sync"
	"time"
)

// Status is the lifecycle state of a notification as seen by status pollers.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusSent       Status = "sent"
	StatusFailed     Status = "failed"
)

// SuccessResult records one accepted delivery.
type SuccessResult struct {
	Endpoint  string `json:"endpoint"`
	MessageID string `json:"message_id"`
}

// FailureResult records one delivery that exhausted its retries.
type FailureResult struct {
	Endpoint string `json:"endpoint"`
	Error    string `json:"error"`
}

// Results groups per-subscription outcomes by bucket. Invalid subscriptions
// are recorded by endpoint only.
type Results struct {
	Success []SuccessResult `json:"success"`
	Failed  []FailureResult `json:"failed"`
	Invalid []string        `json:"invalid"`
}

// StatusRecord is the aggregate persisted under the notification id.
// It is overwritten wholesale on every status transition.
type StatusRecord struct {
	Status       Status    `json:"status"`
	UpdatedAt    time.Time `json:"updated_at"`
	SuccessCount int       `json:"success_count"`
	FailedCount  int       `json:"failed_count"`
	InvalidCount int       `json:"invalid_count"`
	Results      Results   `json:"results"`
}

// Processing builds the record written immediately on dequeue, before any
// delivery attempt completes.
func Processing(now time.Time) StatusRecord {
	return StatusRecord{Status: StatusProcessing, UpdatedAt: now}
}

// Report accumulates delivery outcomes for one message. It is safe for
// concurrent Add calls from fan-out workers; Record must only be called
// after all workers have resolved.
type Report struct {
	mu       sync.Mutex
	outcomes []Outcome
}

// Add appends one worker's outcome.
func (r *Report) Add(o Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
}

// Len returns the number of collected outcomes.
func (r *Report) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.outcomes)
}

// Record folds the collected outcomes into the final status record.
// The status is "sent" iff at least one delivery succeeded; a report with
// no outcomes at all yields "failed".
func (r *Report) Record(now time.Time) StatusRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := StatusRecord{
		UpdatedAt: now,
		Results: Results{
			Success: []SuccessResult{},
			Failed:  []FailureResult{},
			Invalid: []string{},
		},
	}

	for _, o := range r.outcomes {
		switch o.Kind {
		case OutcomeSuccess:
			rec.SuccessCount++
			rec.Results.Success = append(rec.Results.Success, SuccessResult{
				Endpoint:  o.Endpoint,
				MessageID: o.MessageID,
			})
		case OutcomeInvalid:
			rec.InvalidCount++
			rec.Results.Invalid = append(rec.Results.Invalid, o.Endpoint)
		default:
			rec.FailedCount++
			fr := FailureResult{Endpoint: o.Endpoint}
			if o.Err != nil {
				fr.Error = o.Err.Error()
			}
			rec.Results.Failed = append(rec.Results.Failed, fr)
		}
	}

	rec.Status = StatusFailed
	if rec.SuccessCount > 0 {
		rec.Status = StatusSent
	}

	return rec
}
