package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To

	// Purpose filters LLM events; Workflow filters workflow events.
	Purpose  string
	Workflow string
}

// LLMRequestEventData captures one generation call.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	RequestID    string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored generation call.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates calls under one key (purpose or model).
type LLMUsage struct {
	Purpose      string `db:"purpose"`
	Model        string `db:"model"`
	Calls        int    `db:"calls"`
	InputTokens  int    `db:"input_tokens"`
	OutputTokens int    `db:"output_tokens"`
	AvgLatencyMs int64  `db:"avg_latency_ms"`
}

// Workflow outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeDegraded = "degraded"
	OutcomeError    = "error"
)

// WorkflowEventData captures one orchestrated workflow run.
type WorkflowEventData struct {
	RequestID    string
	Workflow     string
	Outcome      string
	Emotion      string
	Intervention string
	// FallbackTier is the response tier used, or -1 when no response was
	// composed.
	FallbackTier int
	DurationMs   int64
	Steps        []string
	ErrorMessage string
}

// WorkflowEvent is a stored workflow run.
type WorkflowEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	WorkflowEventData
}

// EventRepo appends and queries audit events.
type EventRepo interface {
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	AppendWorkflow(ctx context.Context, data WorkflowEventData) error

	// QueryLLMEvents returns matching events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)
	// GetLLMEvent returns the event with id, or nil if none exists.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)

	// QueryWorkflowEvents returns matching events, newest first.
	QueryWorkflowEvents(ctx context.Context, opts QueryOpts) ([]WorkflowEvent, error)
	// FallbackTierCounts maps each fallback tier to how often it served.
	FallbackTierCounts(ctx context.Context) (map[int]int, error)
}

// NopEventRepo discards writes and answers every query with nothing.
type NopEventRepo struct{}

func (NopEventRepo) AppendLLMRequest(context.Context, LLMRequestEventData) error { return nil }
func (NopEventRepo) AppendWorkflow(context.Context, WorkflowEventData) error     { return nil }

func (NopEventRepo) QueryLLMEvents(context.Context, QueryOpts) ([]LLMRequestEvent, error) {
	return nil, nil
}

func (NopEventRepo) GetLLMEvent(context.Context, int) (*LLMRequestEvent, error) { return nil, nil }
func (NopEventRepo) LLMUsageByPurpose(context.Context) ([]LLMUsage, error)      { return nil, nil }
func (NopEventRepo) LLMUsageByModel(context.Context) ([]LLMUsage, error)        { return nil, nil }

func (NopEventRepo) QueryWorkflowEvents(context.Context, QueryOpts) ([]WorkflowEvent, error) {
	return nil, nil
}

func (NopEventRepo) FallbackTierCounts(context.Context) (map[int]int, error) {
	return map[int]int{}, nil
}
