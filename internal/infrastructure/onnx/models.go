// Package onnx runs scikit-learn models exported to ONNX through
// onnxruntime. Exports are expected with zipmap disabled.
package onnx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/Isaksend/credit-score/internal/infrastructure/artifact"
)

// Model file names inside the models directory.
const (
	LinearModelFile   = "linear_regression.onnx"
	LogisticModelFile = "logistic_model.onnx"
)

// Options names the graph inputs and outputs.
type Options struct {
	LibraryPath       string
	InputName         string
	ScoreOutput       string
	LabelOutput       string
	ProbabilityOutput string
}

func (o Options) withDefaults() Options {
	if o.InputName == "" {
		o.InputName = "float_input"
	}
	if o.ScoreOutput == "" {
		o.ScoreOutput = "variable"
	}
	if o.LabelOutput == "" {
		o.LabelOutput = "output_label"
	}
	if o.ProbabilityOutput == "" {
		o.ProbabilityOutput = "output_probability"
	}
	return o
}

var initMu sync.Mutex

// initRuntime loads the shared library once per process.
func initRuntime(libPath string) error {
	initMu.Lock()
	defer initMu.Unlock()

	if ort.IsInitialized() {
		return nil
	}
	if libPath == "" {
		return errors.New("onnxruntime shared library path is empty")
	}
	ort.SetSharedLibraryPath(libPath)
	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("initialize onnxruntime: %w", err)
	}
	return nil
}

// ScoreModel is an ONNX linear regressor. Its tensors are reused between
// calls, so evaluation is serialised.
type ScoreModel struct {
	features []string
	session  *ort.AdvancedSession
	input    *ort.Tensor[float32]
	output   *ort.Tensor[float32]

	mu sync.Mutex
}

// RiskModel is an ONNX binary classifier.
type RiskModel struct {
	features    []string
	session     *ort.AdvancedSession
	input       *ort.Tensor[float32]
	label       *ort.Tensor[int64]
	probability *ort.Tensor[float32]

	mu sync.Mutex
}

// LoadModels opens both ONNX models in dir. features is the training order,
// which ONNX exports do not carry.
func LoadModels(dir string, features []string, opts Options) (*ScoreModel, *RiskModel, error) {
	opts = opts.withDefaults()
	scorePath := filepath.Join(dir, LinearModelFile)
	riskPath := filepath.Join(dir, LogisticModelFile)

	if _, err := os.Stat(scorePath); err != nil {
		return nil, nil, &artifact.ModelArtifactLoadError{Artifact: "credit score model", Path: scorePath, Err: err}
	}
	if _, err := os.Stat(riskPath); err != nil {
		return nil, nil, &artifact.ModelArtifactLoadError{Artifact: "default risk model", Path: riskPath, Err: err}
	}
	if len(features) == 0 {
		return nil, nil, fmt.Errorf("onnx models require a feature list")
	}

	if err := initRuntime(opts.LibraryPath); err != nil {
		return nil, nil, err
	}

	score, err := newScoreModel(scorePath, features, opts)
	if err != nil {
		return nil, nil, &artifact.ModelArtifactLoadError{Artifact: "credit score model", Path: scorePath, Err: err}
	}
	risk, err := newRiskModel(riskPath, features, opts)
	if err != nil {
		_ = score.Close()
		return nil, nil, &artifact.ModelArtifactLoadError{Artifact: "default risk model", Path: riskPath, Err: err}
	}
	return score, risk, nil
}

func newScoreModel(path string, features []string, opts Options) (*ScoreModel, error) {
	input, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(len(features))))
	if err != nil {
		return nil, fmt.Errorf("allocate input tensor: %w", err)
	}
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 1))
	if err != nil {
		_ = input.Destroy()
		return nil, fmt.Errorf("allocate output tensor: %w", err)
	}
	session, err := ort.NewAdvancedSession(path,
		[]string{opts.InputName},
		[]string{opts.ScoreOutput},
		[]ort.Value{input},
		[]ort.Value{output},
		nil,
	)
	if err != nil {
		_ = input.Destroy()
		_ = output.Destroy()
		return nil, fmt.Errorf("create onnx session: %w", err)
	}
	return &ScoreModel{
		features: append([]string(nil), features...),
		session:  session,
		input:    input,
		output:   output,
	}, nil
}

func newRiskModel(path string, features []string, opts Options) (*RiskModel, error) {
	input, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(len(features))))
	if err != nil {
		return nil, fmt.Errorf("allocate input tensor: %w", err)
	}
	label, err := ort.NewEmptyTensor[int64](ort.NewShape(1))
	if err != nil {
		_ = input.Destroy()
		return nil, fmt.Errorf("allocate label tensor: %w", err)
	}
	probability, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 2))
	if err != nil {
		_ = input.Destroy()
		_ = label.Destroy()
		return nil, fmt.Errorf("allocate probability tensor: %w", err)
	}
	session, err := ort.NewAdvancedSession(path,
		[]string{opts.InputName},
		[]string{opts.LabelOutput, opts.ProbabilityOutput},
		[]ort.Value{input},
		[]ort.Value{label, probability},
		nil,
	)
	if err != nil {
		_ = input.Destroy()
		_ = label.Destroy()
		_ = probability.Destroy()
		return nil, fmt.Errorf("create onnx session: %w", err)
	}
	return &RiskModel{
		features:    append([]string(nil), features...),
		session:     session,
		input:       input,
		label:       label,
		probability: probability,
	}, nil
}

func fill(dst []float32, x []float64) error {
	if len(x) != len(dst) {
		return fmt.Errorf("expected %d features, got %d", len(dst), len(x))
	}
	for i, v := range x {
		dst[i] = float32(v)
	}
	return nil
}

func (m *ScoreModel) Features() []string { return append([]string(nil), m.features...) }

// PredictScore runs the regressor on one scaled vector.
func (m *ScoreModel) PredictScore(ctx context.Context, scaled []float64) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := fill(m.input.GetData(), scaled); err != nil {
		return 0, err
	}
	if err := m.session.Run(); err != nil {
		return 0, fmt.Errorf("onnx run: %w", err)
	}
	return float64(m.output.GetData()[0]), nil
}

// Close releases the session and tensors.
func (m *ScoreModel) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return errors.Join(m.session.Destroy(), m.input.Destroy(), m.output.Destroy())
}

func (m *RiskModel) Features() []string { return append([]string(nil), m.features...) }

// PredictRisk runs the classifier on one scaled vector and returns the
// predicted label and the positive-class probability.
func (m *RiskModel) PredictRisk(ctx context.Context, scaled []float64) (int, float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := fill(m.input.GetData(), scaled); err != nil {
		return 0, 0, err
	}
	if err := m.session.Run(); err != nil {
		return 0, 0, fmt.Errorf("onnx run: %w", err)
	}
	return int(m.label.GetData()[0]), float64(m.probability.GetData()[1]), nil
}

// Close releases the session and tensors.
func (m *RiskModel) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return errors.Join(m.session.Destroy(), m.input.Destroy(), m.label.Destroy(), m.probability.Destroy())
}
