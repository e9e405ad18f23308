// Package labels loads the ordered category list the model was trained with.
//
// Index i of the model's output vector corresponds to Categories[i], so the
// file is versioned and checked against the model when it loads.
package labels

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultCategories is the training order of the garbage classifier.
var DefaultCategories = []string{
	"cardboard",
	"glass",
	"metal",
	"paper",
	"plastic",
	"trash",
}

const (
	GroupRecyclable    = "recyclable"
	GroupNonRecyclable = "non-recyclable"
)

// DefaultGroups maps each default category to its recycling group.
var DefaultGroups = map[string]string{
	"cardboard": GroupRecyclable,
	"glass":     GroupRecyclable,
	"metal":     GroupRecyclable,
	"paper":     GroupRecyclable,
	"plastic":   GroupRecyclable,
	"trash":     GroupNonRecyclable,
}

type Labels struct {
	Version    string            `yaml:"version"`
	Categories []string          `yaml:"categories"`
	Groups     map[string]string `yaml:"groups"`
}

// Default returns the built-in label set.
func Default() *Labels {
	groups := make(map[string]string, len(DefaultGroups))
	for k, v := range DefaultGroups {
		groups[k] = v
	}
	return &Labels{
		Version:    "builtin",
		Categories: append([]string(nil), DefaultCategories...),
		Groups:     groups,
	}
}

// Load reads a label file. A missing file yields the built-in defaults.
func Load(path string) (*Labels, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read labels: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Labels, error) {
	var l Labels
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("failed to parse labels: %w", err)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

func (l *Labels) Validate() error {
	if len(l.Categories) == 0 {
		return errors.New("labels: category list is empty")
	}
	seen := make(map[string]struct{}, len(l.Categories))
	for i, c := range l.Categories {
		if c == "" {
			return fmt.Errorf("labels: category %d is empty", i)
		}
		if _, ok := seen[c]; ok {
			return fmt.Errorf("labels: duplicate category %q", c)
		}
		seen[c] = struct{}{}
	}
	for c, g := range l.Groups {
		if _, ok := seen[c]; !ok {
			return fmt.Errorf("labels: group assigned to unknown category %q", c)
		}
		if g != GroupRecyclable && g != GroupNonRecyclable {
			return fmt.Errorf("labels: unknown group %q for category %q", g, c)
		}
	}
	return nil
}

// Group returns the recycling group of a category, or "" when none is known.
func (l *Labels) Group(category string) string {
	return l.Groups[category]
}
