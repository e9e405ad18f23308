package tips

import "github.com/Brownie44l1/waste-classifier-api/internal/labels"

// Fallback is returned for labels with neither a category nor a group tip.
const Fallback = "Dispose according to local guidance."

var defaultTips = map[string]string{
	labels.GroupRecyclable:    "Rinse recyclables to remove food residue before placing them in the bin.",
	labels.GroupNonRecyclable: "Consider reusing or disposing of non-recyclables responsibly.",
	"cardboard":               "Flatten cardboard boxes to save space in the recycling bin.",
	"glass":                   "Remove caps and rinse glass containers before recycling.",
	"metal":                   "Clean metal cans and check local guidelines for aerosol cans.",
	"paper":                   "Avoid recycling wet or heavily soiled paper.",
	"plastic":                 "Check resin codes; not all plastics are accepted in every program.",
	"trash":                   "If unsure, check your municipality's waste guide to avoid contamination.",
}

// Resolver maps a category label to disposal guidance. It is read-only after
// construction and safe for concurrent use.
type Resolver struct {
	tips   map[string]string
	groups func(string) string
}

func NewResolver(l *labels.Labels) *Resolver {
	r := &Resolver{tips: defaultTips, groups: func(string) string { return "" }}
	if l != nil {
		r.groups = l.Group
	}
	return r
}

// TipFor looks up the label, then its recycling group, then Fallback.
func (r *Resolver) TipFor(label string) string {
	if tip, ok := r.tips[label]; ok {
		return tip
	}
	if tip, ok := r.tips[r.groups(label)]; ok {
		return tip
	}
	return Fallback
}
