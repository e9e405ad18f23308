package model

// Runner executes one model. Implementations must be safe for concurrent Run
// calls, serializing internally if the runtime requires it.
type Runner interface {
	Run(input []float32) ([]float32, error)
	// InputShape is the concrete input shape, batch axis included.
	InputShape() []int64
	// OutputWidth is the number of class scores Run returns.
	OutputWidth() int
	Close() error
}

// Spec is everything an Opener needs to build a Runner.
type Spec struct {
	ModelPath string
	LibPath   string
	Metadata  Metadata
}

type Opener func(spec Spec) (Runner, error)
