package freshness

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/tutorly/internal/llm"
)

// Config controls scan sizes and fan-out.
type Config struct {
	// TopicLimit caps the topics requested per domain.
	TopicLimit int

	// Concurrency bounds in-flight generation calls in ScanDomains and
	// DraftLessons.
	Concurrency int

	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		TopicLimit:  10,
		Concurrency: 4,
		MaxTokens:   1200,
		Temperature: 0.4,
	}
}

// Scanner issues the freshness generation calls.
type Scanner struct {
	provider llm.Provider
	cfg      Config
	log      *zap.Logger
}

// NewScanner creates a Scanner. A nil logger is replaced with a no-op one.
func NewScanner(provider llm.Provider, cfg Config, log *zap.Logger) *Scanner {
	if log == nil {
		log = zap.NewNop()
	}
	d := DefaultConfig()
	if cfg.TopicLimit <= 0 {
		cfg.TopicLimit = d.TopicLimit
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = d.Concurrency
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = d.MaxTokens
	}
	return &Scanner{provider: provider, cfg: cfg, log: log}
}

// ScanTrending returns the trending topics of domain, highest score first.
func (s *Scanner) ScanTrending(ctx context.Context, domain string) ([]Topic, error) {
	ctx = llm.WithPurpose(ctx, "trending-scan")
	raw, err := llm.GenerateText(ctx, s.provider, buildTrendingMessage(domain, s.cfg.TopicLimit), systemPrompt,
		llm.Options{MaxTokens: s.cfg.MaxTokens, Temperature: s.cfg.Temperature})
	if err != nil {
		return nil, err
	}

	var topics []Topic
	if err := decodeBatch(ctx, s.log, raw, topicItemSchema, &topics); err != nil {
		return nil, err
	}
	sort.SliceStable(topics, func(i, j int) bool { return topics[i].Score > topics[j].Score })
	if len(topics) > s.cfg.TopicLimit {
		topics = topics[:s.cfg.TopicLimit]
	}
	return topics, nil
}

// ScanDomains scans every domain concurrently. A failing domain is recorded
// in Failed and does not stop the others; only caller cancellation is
// returned as an error.
func (s *Scanner) ScanDomains(ctx context.Context, domains []string) (*DomainScan, error) {
	results := make([][]Topic, len(domains))
	errs := make([]error, len(domains))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for i, domain := range domains {
		g.Go(func() error {
			results[i], errs[i] = s.ScanTrending(gctx, domain)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scan := &DomainScan{Topics: make(map[string][]Topic, len(domains))}
	for i, domain := range domains {
		if errs[i] != nil {
			if scan.Failed == nil {
				scan.Failed = map[string]string{}
			}
			scan.Failed[domain] = errs[i].Error()
			s.log.Warn("domain scan failed", zap.String("domain", domain), zap.Error(errs[i]))
			continue
		}
		scan.Topics[domain] = results[i]
	}
	return scan, nil
}

// FindOutdated asks which of items are stale. Flags for unknown item IDs are
// dropped.
func (s *Scanner) FindOutdated(ctx context.Context, items []Item) ([]Flag, error) {
	if len(items) == 0 {
		return []Flag{}, nil
	}
	ctx = llm.WithPurpose(ctx, "outdated-scan")
	raw, err := llm.GenerateText(ctx, s.provider, buildOutdatedMessage(items), systemPrompt,
		llm.Options{MaxTokens: s.cfg.MaxTokens, Temperature: s.cfg.Temperature})
	if err != nil {
		return nil, err
	}

	var flags []Flag
	if err := decodeBatch(ctx, s.log, raw, flagItemSchema, &flags); err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(items))
	for _, it := range items {
		known[it.ID] = true
	}
	out := flags[:0]
	for _, f := range flags {
		if known[f.ItemID] {
			out = append(out, f)
		}
	}
	return out, nil
}

// DraftLessons drafts one outline per topic concurrently. Output follows
// input order; topics whose call fails are skipped.
func (s *Scanner) DraftLessons(ctx context.Context, topics []string, audience string) ([]Outline, error) {
	if audience == "" {
		audience = "beginners"
	}
	drafts := make([]*Outline, len(topics))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for i, topic := range topics {
		g.Go(func() error {
			o, err := s.draft(gctx, topic, audience)
			if err != nil {
				s.log.Warn("outline draft failed", zap.String("topic", topic), zap.Error(err))
				return nil
			}
			drafts[i] = o
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]Outline, 0, len(topics))
	for _, d := range drafts {
		if d != nil {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (s *Scanner) draft(ctx context.Context, topic, audience string) (*Outline, error) {
	var out struct {
		Title      string   `json:"title"`
		Objectives []string `json:"objectives"`
		Sections   []string `json:"sections"`
	}
	err := llm.GenerateJSON(llm.WithPurpose(ctx, "outline-draft"), s.provider, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildOutlineMessage(topic, audience)}},
		Schema:      OutlineSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &Outline{
		Topic:      topic,
		Title:      out.Title,
		Audience:   audience,
		Objectives: out.Objectives,
		Sections:   out.Sections,
	}, nil
}

// decodeBatch parses raw as a JSON array and decodes every element that
// passes schema into dst, a pointer to a slice. A response that is not a
// JSON array is an *llm.ErrParse.
func decodeBatch[T any](ctx context.Context, log *zap.Logger, raw string, schema *llm.Schema, dst *[]T) error {
	body := stripFences(raw)

	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(body), &elems); err != nil {
		return &llm.ErrParse{
			Purpose: llm.PurposeFrom(ctx),
			Content: json.RawMessage(body),
			Err:     fmt.Errorf("expected a JSON array: %w", err),
		}
	}

	out := make([]T, 0, len(elems))
	for i, el := range elems {
		if err := llm.ValidateJSON(schema, el); err != nil {
			log.Warn("skipping invalid batch item",
				zap.String("schema", schema.Name), zap.Int("index", i), zap.Error(err))
			continue
		}
		var v T
		if err := json.Unmarshal(el, &v); err != nil {
			log.Warn("skipping undecodable batch item",
				zap.String("schema", schema.Name), zap.Int("index", i), zap.Error(err))
			continue
		}
		out = append(out, v)
	}
	*dst = out
	return nil
}

// stripFences removes a surrounding markdown code fence.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
