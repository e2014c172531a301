package core

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed topics.yml
var topicsYAML []byte

// Topic is one data-structure entry on the /dsa page. Example holds
// illustrative code that is only ever displayed.
type Topic struct {
	Title          string   `yaml:"title"`
	ShortTitle     string   `yaml:"short_title"`
	Why            string   `yaml:"why"`
	When           string   `yaml:"when"`
	Algorithms     []string `yaml:"algorithms"`
	Mistakes       []string `yaml:"mistakes"`
	Considerations string   `yaml:"considerations"`
	Example        string   `yaml:"example"`
	RealLife       string   `yaml:"real_life"`
}

// Catalog is the ordered, read-only list of topics. It is safe for
// concurrent use because nothing mutates it after LoadCatalog returns.
type Catalog struct {
	topics []Topic
}

func LoadCatalog(data []byte) (*Catalog, error) {
	var topics []Topic
	if err := yaml.Unmarshal(data, &topics); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	c := &Catalog{topics: topics}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog(topicsYAML)
}

func (c *Catalog) Validate() error {
	if len(c.topics) == 0 {
		return fmt.Errorf("%w: no topics", ErrInvalidCatalog)
	}

	seen := make(map[string]int, len(c.topics))
	for i, t := range c.topics {
		var missing []string
		for _, f := range []struct{ name, value string }{
			{"title", t.Title},
			{"short_title", t.ShortTitle},
			{"why", t.Why},
			{"when", t.When},
			{"example", t.Example},
		} {
			if strings.TrimSpace(f.value) == "" {
				missing = append(missing, f.name)
			}
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w: topic %d missing %s", ErrInvalidCatalog, i+1, strings.Join(missing, ", "))
		}

		if prev, ok := seen[t.ShortTitle]; ok {
			return fmt.Errorf("%w: topic %d reuses short_title %q from topic %d", ErrInvalidCatalog, i+1, t.ShortTitle, prev+1)
		}
		seen[t.ShortTitle] = i
	}

	return nil
}

// All returns the topics in display order. The slices are copied so
// callers cannot reach back into the catalog.
func (c *Catalog) All() []Topic {
	out := make([]Topic, len(c.topics))
	for i, t := range c.topics {
		t.Algorithms = append([]string(nil), t.Algorithms...)
		t.Mistakes = append([]string(nil), t.Mistakes...)
		out[i] = t
	}
	return out
}

func (c *Catalog) Len() int {
	return len(c.topics)
}
