package valueobject

import (
	"fmt"
	"math"
)

// ScoreRange is the closed interval credit scores are reported in.
type ScoreRange struct {
	min float64
	max float64
}

// DefaultScoreRange is the documented 300-800 credit score range.
var DefaultScoreRange = ScoreRange{min: 300, max: 800}

// NewScoreRange validates and creates a ScoreRange.
func NewScoreRange(min, max float64) (ScoreRange, error) {
	if math.IsNaN(min) || math.IsNaN(max) || min >= max {
		return ScoreRange{}, fmt.Errorf("invalid score range [%v, %v]", min, max)
	}
	return ScoreRange{min: min, max: max}, nil
}

func (r ScoreRange) Min() float64 { return r.min }
func (r ScoreRange) Max() float64 { return r.max }

// Clamp limits score to the range.
func (r ScoreRange) Clamp(score float64) float64 {
	return math.Max(r.min, math.Min(r.max, score))
}

// String renders the range as "300-800".
func (r ScoreRange) String() string {
	return fmt.Sprintf("%g-%g", r.min, r.max)
}
