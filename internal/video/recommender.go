package video

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/abhisek/tutorly/internal/learner"
)

// Query selects videos for a topic. Empty Difficulty and Language (or
// Language "any") disable those filters.
type Query struct {
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty,omitempty"`
	Language   string `json:"language,omitempty"`
}

// Ranked is a candidate that survived filtering, with its score.
type Ranked struct {
	Candidate
	Score int `json:"score"`
}

// Recommender ranks catalog videos. It holds no mutable state and is safe
// for concurrent use.
type Recommender struct {
	catalog *Catalog
	trusted map[string]bool
}

// NewRecommender builds a recommender over catalog. trusted overrides the
// catalog's own trusted-channel list when non-nil.
func NewRecommender(catalog *Catalog, trusted []string) *Recommender {
	if catalog == nil {
		catalog = &Catalog{}
	}
	if trusted == nil {
		trusted = catalog.TrustedChannels
	}
	set := make(map[string]bool, len(trusted))
	for _, ch := range trusted {
		set[strings.ToLower(ch)] = true
	}
	return &Recommender{catalog: catalog, trusted: set}
}

var nonWord = regexp.MustCompile(`[^a-z0-9_-]+`)

// NormalizeTopic lowercases, turns whitespace into hyphens and strips
// everything but word characters and hyphens.
func NormalizeTopic(topic string) string {
	t := strings.ToLower(strings.TrimSpace(topic))
	t = strings.Join(strings.Fields(t), "-")
	return nonWord.ReplaceAllString(t, "")
}

// FindBest returns the top-ranked video for q, or nil.
func (r *Recommender) FindBest(q Query) *Candidate {
	ranked := r.Rank(q)
	if len(ranked) == 0 {
		return nil
	}
	best := ranked[0].Candidate
	return &best
}

// Recommend returns up to count ranked videos for topic. A count of zero or
// less returns all of them.
func (r *Recommender) Recommend(topic string, count int, criteria *Query) []Candidate {
	q := Query{Topic: topic}
	if criteria != nil {
		q.Difficulty, q.Language = criteria.Difficulty, criteria.Language
	}
	ranked := r.Rank(q)
	if count > 0 && len(ranked) > count {
		ranked = ranked[:count]
	}
	out := make([]Candidate, len(ranked))
	for i, rk := range ranked {
		out[i] = rk.Candidate
	}
	return out
}

// Rank filters and scores the candidates for q, best first. Ties keep
// catalog order.
func (r *Recommender) Rank(q Query) []Ranked {
	topic := NormalizeTopic(q.Topic)
	if topic == "" {
		return []Ranked{}
	}

	titleNeedle := strings.ReplaceAll(topic, "-", " ")
	out := []Ranked{}
	for _, c := range r.candidates(topic) {
		if !passes(c, q) {
			continue
		}
		out = append(out, Ranked{Candidate: c, Score: r.score(c, q, titleNeedle)})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// candidates returns the exact bucket for topic, or the union of every
// bucket whose key contains topic or is contained in it.
func (r *Recommender) candidates(topic string) []Candidate {
	for _, b := range r.catalog.Buckets {
		if b.Topic == topic && len(b.Videos) > 0 {
			return b.Videos
		}
	}

	var out []Candidate
	seen := make(map[string]bool)
	for _, b := range r.catalog.Buckets {
		if !strings.Contains(b.Topic, topic) && !strings.Contains(topic, b.Topic) {
			continue
		}
		for _, v := range b.Videos {
			if seen[v.VideoID] {
				continue
			}
			seen[v.VideoID] = true
			out = append(out, v)
		}
	}
	return out
}

func passes(c Candidate, q Query) bool {
	if !c.embeddable() {
		return false
	}
	if want := learner.Level(q.Difficulty).Rank(); want > 0 {
		have := learner.Level(c.Difficulty).Rank()
		if have == 0 || abs(have-want) > 1 {
			return false
		}
	}
	if lang := strings.ToLower(q.Language); lang != "" && lang != "any" {
		if strings.ToLower(c.Language) != lang {
			return false
		}
	}
	return true
}

func (r *Recommender) score(c Candidate, q Query, titleNeedle string) int {
	s := 0
	switch strings.ToLower(c.EducationalValue) {
	case "high":
		s += 3
	case "medium":
		s += 2
	case "low":
		s++
	}
	if q.Difficulty != "" && strings.EqualFold(c.Difficulty, q.Difficulty) {
		s += 2
	}
	if c.Embeddable != nil && *c.Embeddable {
		s++
	}
	if r.trusted[strings.ToLower(c.Channel)] {
		s += 2
	}
	if strings.Contains(strings.ToLower(c.Title), titleNeedle) {
		s += 2
	}
	return s
}

// DetectTopic returns the first bucket key whose words all appear in text,
// or "".
func (r *Recommender) DetectTopic(text string) string {
	words := make(map[string]bool)
	for _, w := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		words[w] = true
		// Tolerate simple plurals ("embedding" vs "embeddings").
		words[strings.TrimSuffix(w, "s")] = true
	}
	for _, b := range r.catalog.Buckets {
		all := true
		for _, part := range strings.Split(b.Topic, "-") {
			if !words[part] && !words[strings.TrimSuffix(part, "s")] {
				all = false
				break
			}
		}
		if all {
			return b.Topic
		}
	}
	return ""
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
