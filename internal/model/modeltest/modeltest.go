// Package modeltest provides an in-memory model runner for tests that cannot
// load ONNX Runtime.
package modeltest

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Brownie44l1/waste-classifier-api/internal/model"
)

// Runner returns fixed probabilities, or Err, from every Run.
type Runner struct {
	Probabilities []float32
	Err           error
	Shape         []int64
	Width         int
	// PanicWith makes Run panic with the given value when non-nil.
	PanicWith any

	calls  atomic.Int64
	mu     sync.Mutex
	closed bool
}

func NewRunner(probabilities []float32) *Runner {
	return &Runner{
		Probabilities: probabilities,
		Shape:         []int64{1, 224, 224, 3},
		Width:         len(probabilities),
	}
}

func (r *Runner) Run(input []float32) ([]float32, error) {
	r.calls.Add(1)
	if r.PanicWith != nil {
		panic(r.PanicWith)
	}
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]float32, len(r.Probabilities))
	copy(out, r.Probabilities)
	return out, nil
}

func (r *Runner) InputShape() []int64 { return r.Shape }

func (r *Runner) OutputWidth() int { return r.Width }

func (r *Runner) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *Runner) Calls() int64 { return r.calls.Load() }

func (r *Runner) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Opener returns an Opener that always hands out r.
func (r *Runner) Opener() model.Opener {
	return func(model.Spec) (model.Runner, error) { return r, nil }
}

// ModelFile writes a placeholder model file so existence checks pass.
func ModelFile(t testing.TB) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.onnx")
	if err := os.WriteFile(path, []byte("onnx"), 0o644); err != nil {
		t.Fatalf("write model file: %v", err)
	}
	return path
}

// NewEngine builds an engine backed by r. It is loaded when load is true.
func NewEngine(t testing.TB, r *Runner, categories []string, load bool) *model.Engine {
	t.Helper()
	engine := model.NewEngine(model.Config{
		ModelPath:    ModelFile(t),
		MetadataPath: filepath.Join(t.TempDir(), "missing.json"),
	}, categories, r.Opener())
	if load {
		if err := engine.Load(); err != nil {
			t.Fatalf("load engine: %v", err)
		}
	}
	return engine
}
