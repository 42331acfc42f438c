package calendar

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrInvalidCategoryPolicy = errors.New("invalid category policy")

// DefaultExcludedCategories are routine entries that only matter for free
// time accounting and never reach an external calendar.
var DefaultExcludedCategories = []string{
	"tidur", "sleep",
	"makan", "meal",
	"rutinitas", "routine",
}

type categoryPolicyFile struct {
	Exclude []string `yaml:"exclude"`
	Include []string `yaml:"include"`
}

// CategoryPolicy decides which entry categories are materialized.
type CategoryPolicy struct {
	excluded map[string]struct{}
}

func DefaultCategoryPolicy() *CategoryPolicy {
	return NewCategoryPolicy(DefaultExcludedCategories, nil)
}

// NewCategoryPolicy excludes the given categories; include wins over
// exclude. Matching ignores case and surrounding spaces.
func NewCategoryPolicy(exclude, include []string) *CategoryPolicy {
	p := &CategoryPolicy{excluded: make(map[string]struct{}, len(exclude))}
	for _, c := range exclude {
		if c = normalizeCategory(c); c != "" {
			p.excluded[c] = struct{}{}
		}
	}
	for _, c := range include {
		delete(p.excluded, normalizeCategory(c))
	}
	return p
}

// LoadCategoryPolicy reads a YAML policy file. An empty path yields the
// default policy. Categories listed in the file are added to the defaults.
func LoadCategoryPolicy(path string) (*CategoryPolicy, error) {
	if path == "" {
		return DefaultCategoryPolicy(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read category policy %s: %w", path, err)
	}
	return ParseCategoryPolicy(data)
}

func ParseCategoryPolicy(data []byte) (*CategoryPolicy, error) {
	var file categoryPolicyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCategoryPolicy, err)
	}

	exclude := slices.Concat(DefaultExcludedCategories, file.Exclude)
	return NewCategoryPolicy(exclude, file.Include), nil
}

func (p *CategoryPolicy) Excludes(category string) bool {
	_, ok := p.excluded[normalizeCategory(category)]
	return ok
}

// Excluded lists the excluded categories in sorted order.
func (p *CategoryPolicy) Excluded() []string {
	out := make([]string, 0, len(p.excluded))
	for c := range p.excluded {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

func normalizeCategory(c string) string {
	return strings.ToLower(strings.TrimSpace(c))
}
