// Package classifier runs the preprocess, infer, rank and tip pipeline for a
// single image.
package classifier

import (
	"errors"
	"fmt"
	"time"

	"github.com/Brownie44l1/waste-classifier-api/internal/model"
	"github.com/Brownie44l1/waste-classifier-api/internal/preprocess"
	"github.com/Brownie44l1/waste-classifier-api/internal/ranking"
	"github.com/Brownie44l1/waste-classifier-api/pkg/metric"
	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidInput     = preprocess.ErrInvalidInput
	ErrModelUnavailable = model.ErrModelUnavailable
	ErrInternalFailure  = errors.New("classification failed")
)

type Preprocessor interface {
	Preprocess(encoded string) (*preprocess.Tensor, error)
}

type Engine interface {
	Loaded() bool
	Infer(t *preprocess.Tensor) ([]float32, error)
}

type TipResolver interface {
	TipFor(label string) string
}

type Result struct {
	Top    ranking.PredictionScore   `json:"top"`
	Scores []ranking.PredictionScore `json:"scores"`
	Tip    string                    `json:"tip"`
}

type Inspection struct {
	Shape []int64
	DType string
}

type Service struct {
	preprocessor Preprocessor
	engine       Engine
	tips         TipResolver
	categories   []string
}

func NewService(preprocessor Preprocessor, engine Engine, tips TipResolver, categories []string) *Service {
	return &Service{
		preprocessor: preprocessor,
		engine:       engine,
		tips:         tips,
		categories:   categories,
	}
}

// Classify returns a complete result or an error matching exactly one of
// ErrInvalidInput, ErrModelUnavailable or ErrInternalFailure. Model
// availability is checked first, so an unloaded model wins over a bad payload.
func (s *Service) Classify(encoded string) (result *Result, err error) {
	state := Received
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic while %s: %v", ErrInternalFailure, state, r)
			result = nil
			state = Failed
		}
		s.record(state, start, result, err)
	}()

	if !s.engine.Loaded() {
		state = Unavailable
		return nil, ErrModelUnavailable
	}

	state = Preprocessing
	tensor, err := s.preprocessor.Preprocess(encoded)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			state = Rejected
			return nil, err
		}
		state = Failed
		return nil, fmt.Errorf("%w: preprocessing: %w", ErrInternalFailure, err)
	}
	metric.Timing(metric.PreprocessLatency, time.Since(start), nil)

	state = Inferring
	probabilities, err := s.engine.Infer(tensor)
	if err != nil {
		if errors.Is(err, ErrModelUnavailable) {
			state = Unavailable
			return nil, err
		}
		state = Failed
		return nil, fmt.Errorf("%w: inference: %w", ErrInternalFailure, err)
	}

	state = Ranking
	scores := ranking.Rank(probabilities, s.categories)
	top, ok := ranking.Top(scores)
	if !ok {
		state = Failed
		return nil, fmt.Errorf("%w: no categories configured", ErrInternalFailure)
	}

	state = Completed
	return &Result{
		Top:    top,
		Scores: scores,
		Tip:    s.tips.TipFor(top.Label),
	}, nil
}

// Inspect runs only the preprocessor and reports the tensor it produced.
func (s *Service) Inspect(encoded string) (*Inspection, error) {
	tensor, err := s.preprocessor.Preprocess(encoded)
	if err != nil {
		return nil, err
	}
	return &Inspection{Shape: tensor.Shape, DType: tensor.DType()}, nil
}

func (s *Service) record(state State, start time.Time, result *Result, err error) {
	tags := metric.BuildTag(metric.NewTag(metric.TagOutcome, state.String()))
	if result != nil {
		tags = append(tags, metric.TagAsString(metric.TagLabel, result.Top.Label))
		metric.Gauge(metric.TopConfidence, result.Top.Confidence.Float64(), tags)
	}
	metric.Incr(metric.ClassificationCount, tags)

	event := log.Debug()
	if state == Failed {
		event = log.Error()
	}
	event.Err(err).Str("state", state.String()).Dur("elapsed", time.Since(start)).Msg("Classification finished")
}
