package tips

import (
	"testing"

	"github.com/Brownie44l1/waste-classifier-api/internal/labels"
	"github.com/stretchr/testify/assert"
)

func TestResolver_TipFor(t *testing.T) {
	l := labels.Default()
	l.Categories = append(l.Categories, "battery", "styrofoam")
	l.Groups["styrofoam"] = labels.GroupNonRecyclable
	r := NewResolver(l)

	tests := []struct {
		name     string
		label    string
		expected string
	}{
		{"category tip", "glass", "Remove caps and rinse glass containers before recycling."},
		{"trash tip", "trash", "If unsure, check your municipality's waste guide to avoid contamination."},
		{"group tip", "styrofoam", "Consider reusing or disposing of non-recyclables responsibly."},
		{"no entry", "battery", Fallback},
		{"unknown label", "unknown_label", Fallback},
		{"empty label", "", Fallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, r.TipFor(tt.label))
		})
	}
}

func TestResolver_NilLabels(t *testing.T) {
	r := NewResolver(nil)
	assert.Equal(t, "Avoid recycling wet or heavily soiled paper.", r.TipFor("paper"))
	assert.Equal(t, Fallback, r.TipFor("unknown_label"))
}
