package service

import (
	"github.com/Isaksend/credit-score/internal/domain/model"
)

// VectorAssembler builds dense, catalog-ordered feature vectors.
type VectorAssembler struct {
	catalog *model.FeatureCatalog
}

// NewVectorAssembler creates a VectorAssembler over catalog.
func NewVectorAssembler(catalog *model.FeatureCatalog) *VectorAssembler {
	return &VectorAssembler{catalog: catalog}
}

// Assemble returns a vector of catalog length where position i holds the
// supplied value for catalog feature i, or its default.
func (a *VectorAssembler) Assemble(in model.ClientInput) []float64 {
	x := make([]float64, a.catalog.Len())
	for i := range x {
		if v, ok := in.Value(a.catalog.NameAt(i)); ok {
			x[i] = v
		} else {
			x[i] = a.catalog.DefaultAt(i)
		}
	}
	return x
}
