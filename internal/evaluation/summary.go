package evaluation

import (
	"fmt"
	"io"
	"time"

	"github.com/pugmark/footprint/internal/footprint"
)

// LabelMetrics holds per-label precision and recall.
type LabelMetrics struct {
	Precision float64 `json:"precision" yaml:"precision"`
	Recall    float64 `json:"recall" yaml:"recall"`
	Support   int     `json:"support" yaml:"support"`
	Predicted int     `json:"predicted" yaml:"predicted"`
}

// Summary contains aggregate metrics over a run
type Summary struct {
	Total           int                                         `json:"total" yaml:"total"`
	Successful      int                                         `json:"successful" yaml:"successful"`
	Failed          int                                         `json:"failed" yaml:"failed"`
	Correct         int                                         `json:"correct" yaml:"correct"`
	Accuracy        float64                                     `json:"accuracy" yaml:"accuracy"`
	MeanScore       float64                                     `json:"mean_score" yaml:"mean_score"`
	AverageDuration time.Duration                               `json:"average_duration" yaml:"average_duration"`
	Labels          map[footprint.Label]LabelMetrics            `json:"labels" yaml:"labels"`
	Confusion       map[footprint.Label]map[footprint.Label]int `json:"confusion" yaml:"confusion"` // expected -> predicted -> count
}

// Summarize aggregates results. Failed samples count toward Total and Failed
// only.
func Summarize(results []SampleResult) *Summary {
	summary := &Summary{
		Total:     len(results),
		Labels:    make(map[footprint.Label]LabelMetrics),
		Confusion: make(map[footprint.Label]map[footprint.Label]int),
	}
	for _, l := range footprint.Labels() {
		summary.Confusion[l] = make(map[footprint.Label]int)
	}

	var (
		scoreTotal    float64
		durationTotal time.Duration
	)
	support := make(map[footprint.Label]int)
	predicted := make(map[footprint.Label]int)
	truePositive := make(map[footprint.Label]int)

	for _, r := range results {
		if r.Error != "" {
			summary.Failed++
			continue
		}

		summary.Successful++
		scoreTotal += r.Score
		durationTotal += r.Duration
		support[r.Expected]++
		predicted[r.Predicted]++
		if summary.Confusion[r.Expected] == nil {
			summary.Confusion[r.Expected] = make(map[footprint.Label]int)
		}
		summary.Confusion[r.Expected][r.Predicted]++
		if r.Correct {
			summary.Correct++
			truePositive[r.Expected]++
		}
	}

	if summary.Successful > 0 {
		n := float64(summary.Successful)
		summary.Accuracy = float64(summary.Correct) / n
		summary.MeanScore = scoreTotal / n
		summary.AverageDuration = durationTotal / time.Duration(summary.Successful)
	}

	for _, l := range footprint.Labels() {
		m := LabelMetrics{Support: support[l], Predicted: predicted[l]}
		if m.Predicted > 0 {
			m.Precision = float64(truePositive[l]) / float64(m.Predicted)
		}
		if m.Support > 0 {
			m.Recall = float64(truePositive[l]) / float64(m.Support)
		}
		summary.Labels[l] = m
	}

	return summary
}

// Print writes a human readable summary.
func (s *Summary) Print(w io.Writer) {
	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, "Evaluation Summary")
	fmt.Fprintln(w, "========================================")
	fmt.Fprintf(w, "Total Samples:      %d\n", s.Total)
	fmt.Fprintf(w, "Successful:         %d\n", s.Successful)
	fmt.Fprintf(w, "Failed:             %d\n", s.Failed)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Accuracy:           %.2f%%\n", s.Accuracy*100)
	fmt.Fprintf(w, "Mean Score:         %.4f\n", s.MeanScore)
	fmt.Fprintf(w, "Average Duration:   %s\n", s.AverageDuration)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Per Label:")
	for _, l := range footprint.Labels() {
		m := s.Labels[l]
		fmt.Fprintf(w, "  %-6s precision %.2f%%  recall %.2f%%  support %d\n", l, m.Precision*100, m.Recall*100, m.Support)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Confusion (rows expected, columns predicted):")
	fmt.Fprintf(w, "  %-6s", "")
	for _, p := range footprint.Labels() {
		fmt.Fprintf(w, " %6s", p)
	}
	fmt.Fprintln(w)
	for _, e := range footprint.Labels() {
		fmt.Fprintf(w, "  %-6s", e)
		for _, p := range footprint.Labels() {
			fmt.Fprintf(w, " %6d", s.Confusion[e][p])
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, "========================================")
}
