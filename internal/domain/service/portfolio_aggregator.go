package service

import (
	"math"

	"github.com/Isaksend/credit-score/internal/domain/model"
	"github.com/Isaksend/credit-score/internal/domain/valueobject"
)

var (
	// ScoreBins label credit score buckets of width 100 starting at 300.
	ScoreBins = []string{"300-400", "400-500", "500-600", "600-700", "700-800", "800+"}
	// ProbabilityBins label default probability buckets of width 20 percent.
	ProbabilityBins = []string{"0-20", "20-40", "40-60", "60-80", "80-100"}
)

// AggregatePortfolio summarises entries. Averages are taken over entries that
// carry the value and are nil when none do. Distributions are percentages of
// entries with a recognised category.
func AggregatePortfolio(entries []model.PortfolioEntry) model.PortfolioStatistics {
	stats := model.PortfolioStatistics{
		Count:                len(entries),
		RiskDistribution:     make(map[string]float64, 3),
		DecisionDistribution: make(map[string]float64, 3),
		ScoreHistogram:       newHistogram(ScoreBins),
		ProbabilityHistogram: newHistogram(ProbabilityBins),
	}

	riskCounts := make(map[string]int, 3)
	decisionCounts := make(map[string]int, 3)
	var riskKnown, decisionKnown int
	var scoreSum, probSum float64
	var scoreN, probN int

	for _, e := range entries {
		if e.CreditScore != nil && isFinite(*e.CreditScore) {
			scoreSum += *e.CreditScore
			scoreN++
			stats.ScoreHistogram[binIndex(*e.CreditScore-300, 100, len(ScoreBins))].Count++
		}
		if e.DefaultProbability != nil && isFinite(*e.DefaultProbability) {
			probSum += *e.DefaultProbability
			probN++
			stats.ProbabilityHistogram[binIndex(*e.DefaultProbability, 20, len(ProbabilityBins))].Count++
		}
		if level, err := valueobject.RiskLevelFromString(e.RiskLevel); err == nil {
			riskCounts[level.String()]++
			riskKnown++
		}
		if decision, err := valueobject.DecisionFromString(e.Decision); err == nil {
			decisionCounts[decision.String()]++
			decisionKnown++
		}
	}

	if scoreN > 0 {
		avg := Round2(scoreSum / float64(scoreN))
		stats.AvgScore = &avg
	}
	if probN > 0 {
		avg := Round2(probSum / float64(probN))
		stats.AvgDefaultProbability = &avg
	}

	for _, level := range valueobject.RiskLevels() {
		stats.RiskDistribution[level.String()] = percentage(riskCounts[level.String()], riskKnown)
	}
	for _, decision := range valueobject.Decisions() {
		stats.DecisionDistribution[decision.String()] = percentage(decisionCounts[decision.String()], decisionKnown)
	}

	return stats
}

func newHistogram(labels []string) []model.HistogramBin {
	bins := make([]model.HistogramBin, len(labels))
	for i, l := range labels {
		bins[i] = model.HistogramBin{Label: l}
	}
	return bins
}

// binIndex returns floor(offset/width) clamped to [0, n-1].
func binIndex(offset, width float64, n int) int {
	i := int(math.Floor(offset / width))
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return Round2(float64(count) * 100 / float64(total))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
