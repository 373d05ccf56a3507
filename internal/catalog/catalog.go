// Package catalog holds the fixed set of study topics exposed by the API.
// The built-in manifest can be overridden with a YAML file for deployments
// that curate their own corpus.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rightslab/edurag/internal/core/domain"
)

//go:embed topics.yaml
var builtinManifest []byte

type Entry struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Icon        string `yaml:"icon" json:"icon"`
}

type Catalog struct {
	entries []Entry
	byID    map[string]Entry
}

type manifest struct {
	Topics []Entry `yaml:"topics"`
}

// Builtin returns the catalog compiled into the binary.
func Builtin() *Catalog {
	c, err := parse(builtinManifest)
	if err != nil {
		panic(fmt.Sprintf("builtin topic manifest is invalid: %v", err))
	}
	return c
}

// LoadFile reads a catalog from a YAML manifest on disk.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read topic manifest: %w", err)
	}
	return parse(raw)
}

func parse(raw []byte) (*Catalog, error) {
	var m manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse topic manifest: %w", err)
	}
	if len(m.Topics) == 0 {
		return nil, fmt.Errorf("topic manifest has no topics")
	}

	byID := make(map[string]Entry, len(m.Topics))
	for _, entry := range m.Topics {
		if entry.ID == "" || entry.Name == "" {
			return nil, fmt.Errorf("topic manifest entry missing id or name: %+v", entry)
		}
		if _, dup := byID[entry.ID]; dup {
			return nil, fmt.Errorf("duplicate topic id %q in manifest", entry.ID)
		}
		byID[entry.ID] = entry
	}
	return &Catalog{entries: m.Topics, byID: byID}, nil
}

// Entries returns topics in manifest order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *Catalog) Contains(topic domain.Topic) bool {
	_, ok := c.byID[topic.String()]
	return ok
}

func (c *Catalog) Lookup(topic domain.Topic) (Entry, bool) {
	entry, ok := c.byID[topic.String()]
	return entry, ok
}

// Topics returns every topic id in manifest order.
func (c *Catalog) Topics() []domain.Topic {
	out := make([]domain.Topic, 0, len(c.entries))
	for _, entry := range c.entries {
		out = append(out, domain.Topic(entry.ID))
	}
	return out
}
