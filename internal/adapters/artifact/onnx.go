package artifact

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ortEnv is the process-wide ONNX Runtime environment.
var ortEnv struct {
	once sync.Once
	err  error
}

// initORT initializes ONNX Runtime once. An empty libPath keeps the
// library's default lookup.
func initORT(libPath string) error {
	ortEnv.once.Do(func() {
		if libPath != "" {
			ort.SetSharedLibraryPath(libPath)
		}
		ortEnv.err = ort.InitializeEnvironment()
	})
	return ortEnv.err
}

// onnxRegressor runs an exported regressor taking float32 [batch, width] and
// returning float32 [batch, 1]. Run is thread-safe; tensors are per call.
type onnxRegressor struct {
	session *ort.DynamicAdvancedSession
	input   string
	output  string
	width   int
}

func newONNXRegressor(model []byte, width int, o loadOptions) (*onnxRegressor, error) {
	if err := initORT(o.onnxLibrary); err != nil {
		return nil, fmt.Errorf("onnx: failed to initialize runtime: %w", err)
	}

	inputs, outputs, err := ort.GetInputOutputInfoWithONNXData(model)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to read model info: %w", err)
	}
	input, output, err := checkONNXSignature(inputs, outputs, width)
	if err != nil {
		return nil, err
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session options: %w", err)
	}
	defer opts.Destroy()
	if o.onnxThreads > 0 {
		if err := opts.SetIntraOpNumThreads(o.onnxThreads); err != nil {
			return nil, fmt.Errorf("onnx: failed to set intra-op threads: %w", err)
		}
	}

	session, err := ort.NewDynamicAdvancedSessionWithONNXData(model, []string{input}, []string{output}, opts)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session: %w", err)
	}
	return &onnxRegressor{session: session, input: input, output: output, width: width}, nil
}

// checkONNXSignature requires one float input of shape [batch, width] and
// takes the first output.
func checkONNXSignature(inputs, outputs []ort.InputOutputInfo, width int) (string, string, error) {
	if len(inputs) != 1 {
		return "", "", fmt.Errorf("onnx: expected 1 input, got %d", len(inputs))
	}
	in := inputs[0]
	if in.DataType != ort.TensorElementDataTypeFloat {
		return "", "", fmt.Errorf("onnx: input %q is %v, want float", in.Name, in.DataType)
	}
	if len(in.Dimensions) != 2 {
		return "", "", fmt.Errorf("onnx: input %q has shape %v, want [batch, %d]", in.Name, in.Dimensions, width)
	}
	if d := in.Dimensions[1]; d != -1 && d != int64(width) {
		return "", "", fmt.Errorf("onnx: input %q takes %d features, pipeline produces %d", in.Name, d, width)
	}
	if len(outputs) == 0 {
		return "", "", fmt.Errorf("onnx: model has no outputs")
	}
	return in.Name, outputs[0].Name, nil
}

func (r *onnxRegressor) Predict(x []float64) (float64, error) {
	if len(x) != r.width {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrWidth, len(x), r.width)
	}
	data := make([]float32, len(x))
	for i, v := range x {
		data[i] = float32(v)
	}

	in, err := ort.NewTensor(ort.NewShape(1, int64(r.width)), data)
	if err != nil {
		return 0, fmt.Errorf("onnx: failed to create input tensor: %w", err)
	}
	defer in.Destroy()

	out, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 1))
	if err != nil {
		return 0, fmt.Errorf("onnx: failed to create output tensor: %w", err)
	}
	defer out.Destroy()

	if err := r.session.Run([]ort.Value{in}, []ort.Value{out}); err != nil {
		return 0, fmt.Errorf("onnx: inference failed: %w", err)
	}
	return float64(out.GetData()[0]), nil
}

func (r *onnxRegressor) Close() error {
	return r.session.Destroy()
}
