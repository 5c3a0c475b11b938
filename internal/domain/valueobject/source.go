package valueobject

import "fmt"

// Source identifies the entry point that produced a prediction.
type Source struct {
	value string
}

var (
	SourcePredict     = Source{value: "predict"}
	SourcePredictSlim = Source{value: "predict_slim"}
	SourceBatch       = Source{value: "batch"}
	SourceGRPC        = Source{value: "grpc"}
)

// SourceFromString reconstructs a Source from its string representation.
func SourceFromString(s string) (Source, error) {
	switch s {
	case "predict":
		return SourcePredict, nil
	case "predict_slim":
		return SourcePredictSlim, nil
	case "batch":
		return SourceBatch, nil
	case "grpc":
		return SourceGRPC, nil
	default:
		return Source{}, fmt.Errorf("invalid prediction source: %q", s)
	}
}

func (s Source) String() string { return s.value }
func (s Source) IsZero() bool   { return s.value == "" }
