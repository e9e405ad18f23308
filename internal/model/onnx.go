package model

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// onnxRunner wraps an AdvancedSession bound to preallocated tensors. The
// session reads and writes those shared buffers on every Run, so calls are
// serialized with mu.
type onnxRunner struct {
	mu           sync.Mutex
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
	inputShape   []int64
	outputWidth  int
}

// OpenONNX initializes the ONNX Runtime environment if needed and creates a
// session for spec.ModelPath. Shapes declared by the model file take
// precedence over the metadata, with dynamic axes resolved from it.
func OpenONNX(spec Spec) (Runner, error) {
	if !ort.IsInitialized() {
		if spec.LibPath != "" {
			ort.SetSharedLibraryPath(spec.LibPath)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("failed to initialize ONNX environment: %w", err)
		}
	}

	inputs, outputs, err := ort.GetInputOutputInfo(spec.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect ONNX model: %w", err)
	}
	in, err := pickInfo(inputs, spec.Metadata.InputName)
	if err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	out, err := pickInfo(outputs, spec.Metadata.OutputName)
	if err != nil {
		return nil, fmt.Errorf("output: %w", err)
	}
	if in.DataType != ort.TensorElementDataTypeFloat || out.DataType != ort.TensorElementDataTypeFloat {
		return nil, fmt.Errorf("model must use float32 tensors, got input %v output %v", in.DataType, out.DataType)
	}

	inputShape := resolveShape(in.Dimensions, spec.Metadata.InputShape)
	outputShape := resolveShape(out.Dimensions, spec.Metadata.OutputShape)

	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(inputShape...))
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(outputShape...))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(spec.ModelPath,
		[]string{in.Name}, []string{out.Name},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &onnxRunner{
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
		inputShape:   inputShape,
		outputWidth:  int(outputShape[len(outputShape)-1]),
	}, nil
}

func pickInfo(infos []ort.InputOutputInfo, name string) (ort.InputOutputInfo, error) {
	if len(infos) == 0 {
		return ort.InputOutputInfo{}, fmt.Errorf("model declares no tensors")
	}
	if name == "" {
		return infos[0], nil
	}
	for _, info := range infos {
		if info.Name == name {
			return info, nil
		}
	}
	return ort.InputOutputInfo{}, fmt.Errorf("model has no tensor named %q", name)
}

// resolveShape replaces dynamic (negative) axes with the metadata's value, or
// 1 when the metadata has none.
func resolveShape(declared ort.Shape, hint []int64) []int64 {
	shape := make([]int64, len(declared))
	for i, d := range declared {
		switch {
		case d > 0:
			shape[i] = d
		case i < len(hint) && hint[i] > 0:
			shape[i] = hint[i]
		default:
			shape[i] = 1
		}
	}
	return shape
}

func (r *onnxRunner) Run(input []float32) ([]float32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := r.inputTensor.GetData()
	if len(input) != len(data) {
		return nil, fmt.Errorf("expected %d input values, got %d", len(data), len(input))
	}
	copy(data, input)

	if err := r.session.Run(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	output := r.outputTensor.GetData()
	probabilities := make([]float32, len(output))
	copy(probabilities, output)
	return probabilities, nil
}

func (r *onnxRunner) InputShape() []int64 {
	return r.inputShape
}

func (r *onnxRunner) OutputWidth() int {
	return r.outputWidth
}

func (r *onnxRunner) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.inputTensor != nil {
		r.inputTensor.Destroy()
	}
	if r.outputTensor != nil {
		r.outputTensor.Destroy()
	}
	if r.session != nil {
		r.session.Destroy()
	}
	return ort.DestroyEnvironment()
}
