package model

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Brownie44l1/waste-classifier-api/internal/preprocess"
	"github.com/Brownie44l1/waste-classifier-api/pkg/metric"
	"github.com/rs/zerolog/log"
)

// ErrModelUnavailable is returned by Infer until Load has succeeded.
var ErrModelUnavailable = errors.New("model not loaded")

type Config struct {
	ModelPath    string
	MetadataPath string
	LibPath      string
}

type loadedModel struct {
	runner   Runner
	metadata Metadata
}

// Engine owns the process-wide model handle. It starts unloaded; a successful
// Load publishes one immutable handle that is never replaced.
type Engine struct {
	config     Config
	categories []string
	open       Opener

	loadMu sync.Mutex
	model  atomic.Pointer[loadedModel]
}

func NewEngine(config Config, categories []string, open Opener) *Engine {
	if open == nil {
		open = OpenONNX
	}
	return &Engine{
		config:     config,
		categories: slices.Clone(categories),
		open:       open,
	}
}

// Load transitions the engine from unloaded to loaded. On failure the engine
// stays unloaded and the cause is logged and returned. Calling Load on a
// loaded engine is a no-op.
func (e *Engine) Load() error {
	e.loadMu.Lock()
	defer e.loadMu.Unlock()

	if e.model.Load() != nil {
		return nil
	}
	m, err := e.load()
	if err != nil {
		log.Error().Err(err).Str("modelPath", e.config.ModelPath).Msg("Model failed to load")
		metric.Gauge(metric.ModelLoaded, 0, nil)
		return err
	}
	e.model.Store(m)
	metric.Gauge(metric.ModelLoaded, 1, nil)
	log.Info().
		Str("modelPath", e.config.ModelPath).
		Ints64("inputShape", m.runner.InputShape()).
		Int("outputWidth", m.runner.OutputWidth()).
		Strs("categories", e.categories).
		Msg("Model loaded")
	return nil
}

func (e *Engine) load() (*loadedModel, error) {
	if !e.ModelExists() {
		return nil, fmt.Errorf("model file not found at %s", e.config.ModelPath)
	}
	metadata, err := LoadMetadata(e.config.MetadataPath, DefaultMetadata(preprocess.ImageSize, len(e.categories)))
	if err != nil {
		return nil, err
	}
	if metadata.ImageSize != 0 && metadata.ImageSize != preprocess.ImageSize {
		return nil, fmt.Errorf("metadata image size %d, expected %d", metadata.ImageSize, preprocess.ImageSize)
	}
	if len(metadata.Classes) > 0 && !slices.Equal(metadata.Classes, e.categories) {
		return nil, fmt.Errorf("metadata classes %v do not match categories %v", metadata.Classes, e.categories)
	}

	runner, err := e.open(Spec{ModelPath: e.config.ModelPath, LibPath: e.config.LibPath, Metadata: metadata})
	if err != nil {
		return nil, err
	}
	if err := e.checkRunner(runner); err != nil {
		runner.Close()
		return nil, err
	}
	return &loadedModel{runner: runner, metadata: metadata}, nil
}

// checkRunner verifies the model consumes (1, 224, 224, 3) and emits one
// score per category.
func (e *Engine) checkRunner(runner Runner) error {
	want := []int64{1, preprocess.ImageSize, preprocess.ImageSize, preprocess.Channels}
	if got := runner.InputShape(); !slices.Equal(got, want) {
		return fmt.Errorf("model input shape %v, expected %v", got, want)
	}
	if got := runner.OutputWidth(); got != len(e.categories) {
		return fmt.Errorf("model outputs %d scores but %d categories are configured", got, len(e.categories))
	}
	return nil
}

// Infer runs the model on t and returns its raw probability vector.
func (e *Engine) Infer(t *preprocess.Tensor) ([]float32, error) {
	m := e.model.Load()
	if m == nil {
		return nil, ErrModelUnavailable
	}
	if !slices.Equal(t.Shape, m.runner.InputShape()) {
		return nil, fmt.Errorf("tensor shape %v does not match model input %v", t.Shape, m.runner.InputShape())
	}

	start := time.Now()
	probabilities, err := m.runner.Run(t.Data)
	metric.Timing(metric.InferenceLatency, time.Since(start), nil)
	if err != nil {
		return nil, err
	}
	return probabilities, nil
}

func (e *Engine) Loaded() bool {
	return e.model.Load() != nil
}

func (e *Engine) ModelPath() string {
	return e.config.ModelPath
}

func (e *Engine) ModelExists() bool {
	info, err := os.Stat(e.config.ModelPath)
	return err == nil && !info.IsDir()
}

func (e *Engine) Categories() []string {
	return slices.Clone(e.categories)
}

// Close releases the runner at process exit. The engine must not be used
// afterwards.
func (e *Engine) Close() error {
	m := e.model.Load()
	if m == nil {
		return nil
	}
	return m.runner.Close()
}
