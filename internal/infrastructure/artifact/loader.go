package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/Isaksend/credit-score/internal/domain/model"
	"github.com/Isaksend/credit-score/internal/domain/service"
)

// Artifact file names inside the models directory.
const (
	FeatureMeansFile  = "feature_means.json"
	ScalerFile        = "scaler.json"
	LabelEncoderFile  = "label_encoder.json"
	MetadataFile      = "model_metadata.json"
	LinearModelFile   = "linear_regression.json"
	LogisticModelFile = "logistic_model.json"
)

// Bundle holds the model-independent artifacts loaded at startup.
type Bundle struct {
	Dir          string
	Catalog      *model.FeatureCatalog
	Scaler       *service.Scaler
	Encoder      *service.LabelEncoder
	Metadata     map[string]any
	SlimFeatures []string
}

type scalerFile struct {
	Features []string  `json:"features"`
	Mean     []float64 `json:"mean"`
	Scale    []float64 `json:"scale"`
}

type labelEncoderFile struct {
	SourceFeature string   `json:"source_feature"`
	TargetFeature string   `json:"target_feature"`
	Classes       []string `json:"classes"`
}

// Load reads feature means, scaler, label encoder and metadata from dir.
// The label encoder is optional; everything else must be present.
func Load(dir string) (*Bundle, error) {
	b := &Bundle{Dir: dir}

	catalog, err := LoadCatalog(dir)
	if err != nil {
		return nil, err
	}
	b.Catalog = catalog

	var sf scalerFile
	if err := readJSON(dir, ScalerFile, "scaler", &sf); err != nil {
		return nil, err
	}
	scaler, err := service.NewScaler(sf.Features, sf.Mean, sf.Scale)
	if err != nil {
		return nil, loadErr("scaler", dir, ScalerFile, err)
	}
	b.Scaler = scaler

	var ef labelEncoderFile
	switch err := readJSON(dir, LabelEncoderFile, "label encoder", &ef); {
	case err == nil:
		enc, encErr := service.NewLabelEncoder(ef.SourceFeature, ef.TargetFeature, ef.Classes)
		if encErr != nil {
			return nil, loadErr("label encoder", dir, LabelEncoderFile, encErr)
		}
		b.Encoder = enc
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	if err := readJSON(dir, MetadataFile, "model metadata", &b.Metadata); err != nil {
		return nil, err
	}
	if b.Metadata == nil {
		return nil, loadErr("model metadata", dir, MetadataFile, fmt.Errorf("expected a JSON object"))
	}
	slim, err := stringList(b.Metadata["slim_features"])
	if err != nil {
		return nil, loadErr("model metadata", dir, MetadataFile, fmt.Errorf("slim_features: %w", err))
	}
	b.SlimFeatures = slim

	return b, nil
}

// TrainingFeatures returns the feature order declared in model metadata, or
// the scaler's fitted order when metadata does not declare one.
func (b *Bundle) TrainingFeatures() []string {
	if names, err := stringList(b.Metadata["features"]); err == nil && len(names) > 0 {
		return names
	}
	return b.Scaler.Features()
}

// LoadCatalog reads the feature order and population means from dir.
func LoadCatalog(dir string) (*model.FeatureCatalog, error) {
	var raw map[string]json.RawMessage
	if err := readJSON(dir, FeatureMeansFile, "feature means", &raw); err != nil {
		return nil, err
	}

	var names []string
	if err := json.Unmarshal(raw["features"], &names); err != nil || len(names) == 0 {
		return nil, loadErr("feature means", dir, FeatureMeansFile, fmt.Errorf("missing \"features\" list"))
	}

	means := make(map[string]float64, len(raw))
	for k, v := range raw {
		if k == "features" {
			continue
		}
		var f float64
		if err := json.Unmarshal(v, &f); err != nil {
			return nil, loadErr("feature means", dir, FeatureMeansFile, fmt.Errorf("mean for %s: %w", k, err))
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, loadErr("feature means", dir, FeatureMeansFile, fmt.Errorf("mean for %s is not finite", k))
		}
		means[k] = f
	}

	catalog, err := model.NewFeatureCatalog(names, means)
	if err != nil {
		return nil, loadErr("feature means", dir, FeatureMeansFile, err)
	}
	return catalog, nil
}

func readJSON(dir, file, artifact string, target any) error {
	path := filepath.Join(dir, file)
	data, err := os.ReadFile(path)
	if err != nil {
		return &ModelArtifactLoadError{Artifact: artifact, Path: path, Err: err}
	}
	if err := json.Unmarshal(data, target); err != nil {
		return &ModelArtifactLoadError{Artifact: artifact, Path: path, Err: fmt.Errorf("malformed JSON: %w", err)}
	}
	return nil
}

func loadErr(artifact, dir, file string, err error) error {
	return &ModelArtifactLoadError{Artifact: artifact, Path: filepath.Join(dir, file), Err: err}
}

func stringList(v any) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a list of strings")
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		s, ok := it.(string)
		if !ok {
			return nil, fmt.Errorf("expected a list of strings")
		}
		out = append(out, s)
	}
	return out, nil
}
