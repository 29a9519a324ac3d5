// Package video ranks curated educational videos against a topic.
package video

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Candidate is one curated video.
type Candidate struct {
	VideoID          string `yaml:"video_id" json:"video_id"`
	Title            string `yaml:"title" json:"title"`
	Description      string `yaml:"description" json:"description"`
	Duration         string `yaml:"duration" json:"duration"`
	Channel          string `yaml:"channel" json:"channel"`
	EducationalValue string `yaml:"educational_value" json:"educational_value"`
	Difficulty       string `yaml:"difficulty" json:"difficulty"`
	// Embeddable is nil when the catalog does not say; only an explicit
	// false excludes the video.
	Embeddable *bool  `yaml:"embeddable,omitempty" json:"embeddable,omitempty"`
	Language   string `yaml:"language" json:"language"`
}

func (c Candidate) embeddable() bool {
	return c.Embeddable == nil || *c.Embeddable
}

// Bucket is the set of videos curated for one normalized topic key.
type Bucket struct {
	Topic  string      `yaml:"topic"`
	Videos []Candidate `yaml:"videos"`
}

// Catalog is the ordered, read-only video reference data.
type Catalog struct {
	TrustedChannels []string `yaml:"trusted_channels"`
	Buckets         []Bucket `yaml:"buckets"`
}

// LoadCatalog decodes a YAML catalog. Bucket keys are normalized.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode video catalog: %w", err)
	}
	for i := range c.Buckets {
		c.Buckets[i].Topic = NormalizeTopic(c.Buckets[i].Topic)
		if c.Buckets[i].Topic == "" {
			return nil, fmt.Errorf("video catalog: bucket %d has no topic", i)
		}
	}
	return &c, nil
}

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() *Catalog {
	c, err := LoadCatalog(bytes.NewReader(defaultCatalogYAML))
	if err != nil {
		panic(err)
	}
	return c
}

// Topics lists bucket keys in catalog order.
func (c *Catalog) Topics() []string {
	out := make([]string, len(c.Buckets))
	for i, b := range c.Buckets {
		out[i] = b.Topic
	}
	return out
}
