package onnx

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Isaksend/credit-score/internal/infrastructure/artifact"
)

func TestLoadModelsMissingFiles(t *testing.T) {
	dir := t.TempDir()

	_, _, err := LoadModels(dir, []string{"INCOME"}, Options{LibraryPath: "/nonexistent/libonnxruntime.so"})

	var loadErr *artifact.ModelArtifactLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{}.withDefaults()
	assert.Equal(t, "float_input", o.InputName)
	assert.Equal(t, "variable", o.ScoreOutput)
	assert.Equal(t, "output_label", o.LabelOutput)
	assert.Equal(t, "output_probability", o.ProbabilityOutput)

	o = Options{InputName: "x"}.withDefaults()
	assert.Equal(t, "x", o.InputName)
}

func TestFill(t *testing.T) {
	dst := make([]float32, 2)
	require.NoError(t, fill(dst, []float64{1.5, -2}))
	assert.Equal(t, []float32{1.5, -2}, dst)
	assert.Error(t, fill(dst, []float64{1}))
}
