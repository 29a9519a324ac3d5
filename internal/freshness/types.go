// Package freshness keeps the lesson catalog current: it asks the
// generation capability for trending topics, flags stale lesson content and
// drafts outlines for new lessons. It holds no learner state.
package freshness

// Priority ranks how urgently a topic or flag needs attention.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Topic is a trending subject within a domain.
type Topic struct {
	Name     string   `json:"name"`
	Summary  string   `json:"summary"`
	Priority Priority `json:"priority"`

	// Score in [0,1] orders topics within a scan.
	Score float64 `json:"score"`
}

// Item is an existing lesson to check for staleness.
type Item struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	LastUpdated string `json:"last_updated,omitempty"`
}

// Flag marks an item as outdated.
type Flag struct {
	ItemID     string   `json:"item_id"`
	Reason     string   `json:"reason"`
	Severity   Priority `json:"severity"`
	Suggestion string   `json:"suggestion"`
}

// Outline is a drafted lesson plan for a topic.
type Outline struct {
	Topic      string   `json:"topic"`
	Title      string   `json:"title"`
	Audience   string   `json:"audience"`
	Objectives []string `json:"objectives"`
	Sections   []string `json:"sections"`
}

// DomainScan is the outcome of scanning several domains. A domain either
// has topics or an entry in Failed.
type DomainScan struct {
	Topics map[string][]Topic `json:"topics"`
	Failed map[string]string  `json:"failed,omitempty"`
}
