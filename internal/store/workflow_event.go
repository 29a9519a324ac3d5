package store

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type workflowEventRow struct {
	ID           int    `db:"id"`
	Sequence     int64  `db:"sequence"`
	CreatedAt    int64  `db:"created_at"`
	RequestID    string `db:"request_id"`
	Workflow     string `db:"workflow"`
	Outcome      string `db:"outcome"`
	Emotion      string `db:"emotion"`
	Intervention string `db:"intervention"`
	FallbackTier int    `db:"fallback_tier"`
	DurationMs   int64  `db:"duration_ms"`
	Steps        string `db:"steps"`
	ErrorMessage string `db:"error_message"`
}

func (r workflowEventRow) event() WorkflowEvent {
	var steps []string
	if r.Steps != "" {
		steps = strings.Split(r.Steps, ",")
	}
	return WorkflowEvent{
		ID:        r.ID,
		Sequence:  r.Sequence,
		Timestamp: time.UnixMilli(r.CreatedAt).UTC(),
		WorkflowEventData: WorkflowEventData{
			RequestID:    r.RequestID,
			Workflow:     r.Workflow,
			Outcome:      r.Outcome,
			Emotion:      r.Emotion,
			Intervention: r.Intervention,
			FallbackTier: r.FallbackTier,
			DurationMs:   r.DurationMs,
			Steps:        steps,
			ErrorMessage: r.ErrorMessage,
		},
	}
}

func (r *eventRepo) AppendWorkflow(ctx context.Context, data WorkflowEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}

	row := workflowEventRow{
		Sequence:     seqNum,
		CreatedAt:    time.Now().UnixMilli(),
		RequestID:    data.RequestID,
		Workflow:     data.Workflow,
		Outcome:      data.Outcome,
		Emotion:      data.Emotion,
		Intervention: data.Intervention,
		FallbackTier: data.FallbackTier,
		DurationMs:   data.DurationMs,
		Steps:        strings.Join(data.Steps, ","),
		ErrorMessage: data.ErrorMessage,
	}
	_, err = r.db.NamedExecContext(ctx, `INSERT INTO workflow_events (
		sequence, created_at, request_id, workflow, outcome, emotion,
		intervention, fallback_tier, duration_ms, steps, error_message
	) VALUES (
		:sequence, :created_at, :request_id, :workflow, :outcome, :emotion,
		:intervention, :fallback_tier, :duration_ms, :steps, :error_message
	)`, row)
	if err != nil {
		return fmt.Errorf("save workflow event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryWorkflowEvents(ctx context.Context, opts QueryOpts) ([]WorkflowEvent, error) {
	where, args := whereClause(opts, "workflow", opts.Workflow)
	query := "SELECT * FROM workflow_events" + where + " ORDER BY sequence DESC" + limitClause(opts.Limit)

	var rows []workflowEventRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query workflow events: %w", err)
	}

	out := make([]WorkflowEvent, len(rows))
	for i, row := range rows {
		out[i] = row.event()
	}
	return out, nil
}

func (r *eventRepo) FallbackTierCounts(ctx context.Context) (map[int]int, error) {
	var rows []struct {
		Tier  int `db:"fallback_tier"`
		Count int `db:"n"`
	}
	err := r.db.SelectContext(ctx, &rows,
		`SELECT fallback_tier, COUNT(*) AS n FROM workflow_events
		WHERE fallback_tier >= 0 GROUP BY fallback_tier`)
	if err != nil {
		return nil, fmt.Errorf("count fallback tiers: %w", err)
	}

	out := make(map[int]int, len(rows))
	for _, r := range rows {
		out[r.Tier] = r.Count
	}
	return out, nil
}
