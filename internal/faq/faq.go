package faq

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/sushihentaime/startuphub/internal/filter"
)

//go:embed faq.json
var faqJSON []byte

type Entry struct {
	ID       int    `json:"id"`
	Category string `json:"category"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Filter struct {
	Search   string
	Category string
}

type FAQ struct {
	entries []Entry
}

// Load parses the embedded FAQ.
func Load() (*FAQ, error) {
	return parse(faqJSON)
}

func parse(data []byte) (*FAQ, error) {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("could not parse faq: %w", err)
	}

	return &FAQ{entries: entries}, nil
}

func (f *FAQ) List(flt Filter) []Entry {
	return filter.Apply(f.entries, func(e Entry) bool {
		return filter.Selector(flt.Category, e.Category) && filter.ContainsFold(flt.Search, e.Question, e.Answer)
	})
}

// Categories returns the distinct categories in first-seen order.
func (f *FAQ) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range f.entries {
		if !seen[e.Category] {
			seen[e.Category] = true
			out = append(out, e.Category)
		}
	}

	return out
}
