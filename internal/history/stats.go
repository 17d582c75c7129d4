package history

import (
	"github.com/existflow/qazzerep/internal/model"
	"github.com/montanaflynn/stats"
)

// Summary aggregates originality over a set of comparisons
type Summary struct {
	Sessions  int
	Pairs     int
	HighRisk  int
	Mean      float64
	Median    float64
	Min       float64
	Max       float64
	AIFlagged int
}

// Summarize computes the summary for sessions. Empty input yields zeros.
func Summarize(sessions []model.HistorySession) Summary {
	comps := Comparisons(sessions)
	s := Summary{Sessions: len(sessions), Pairs: len(comps)}
	if len(comps) == 0 {
		return s
	}

	data := make(stats.Float64Data, 0, len(comps))
	for _, c := range comps {
		data = append(data, c.Originality)
		if c.HighRisk() {
			s.HighRisk++
		}
		if c.DocA.AIHighRisk() || c.DocB.AIHighRisk() {
			s.AIFlagged++
		}
	}

	s.Mean, _ = stats.Round(mustFloat(data.Mean()), 2)
	s.Median, _ = stats.Round(mustFloat(data.Median()), 2)
	s.Min = mustFloat(data.Min())
	s.Max = mustFloat(data.Max())
	return s
}

func mustFloat(v float64, err error) float64 {
	if err != nil {
		return 0
	}
	return v
}
