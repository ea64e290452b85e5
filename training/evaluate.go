package training

import (
	"fmt"
	"io"
	"sort"

	"github.com/olekukonko/tablewriter"

	"udara-lab/errors"
)

// ClassMetrics is the per-label slice of a classification report.
type ClassMetrics struct {
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Evaluation is the held-out report of one training run. It is informational
// only: a poor model is reported, not rejected.
type Evaluation struct {
	Accuracy  float64
	Labels    []string
	PerClass  map[string]ClassMetrics
	Confusion [][]int // rows: true label, cols: predicted, aligned with Labels
	HeldOut   int
}

// Evaluate compares predictions against the held-out truth. Labels absent
// from the held-out partition appear with zero support and zeroed metrics; a
// truth or predicted label outside labels fails with ErrUnknownLabel.
func Evaluate(truth, predicted, labels []string) (Evaluation, error) {
	sorted := make([]string, len(labels))
	copy(sorted, labels)
	sort.Strings(sorted)

	index := make(map[string]int, len(sorted))
	for i, label := range sorted {
		index[label] = i
	}

	confusion := make([][]int, len(sorted))
	for i := range confusion {
		confusion[i] = make([]int, len(sorted))
	}

	correct := 0
	for i, want := range truth {
		got := predicted[i]
		wantIdx, found := index[want]
		if !found {
			return Evaluation{}, fmt.Errorf("%w: %q", errors.ErrUnknownLabel, want)
		}
		gotIdx, found := index[got]
		if !found {
			return Evaluation{}, fmt.Errorf("%w: %q", errors.ErrUnknownLabel, got)
		}
		if got == want {
			correct++
		}
		confusion[wantIdx][gotIdx]++
	}

	perClass := make(map[string]ClassMetrics, len(sorted))
	for i, label := range sorted {
		var truePos, predCount, support int
		for j := range sorted {
			predCount += confusion[j][i]
			support += confusion[i][j]
		}
		truePos = confusion[i][i]

		var m ClassMetrics
		m.Support = support
		if predCount > 0 {
			m.Precision = float64(truePos) / float64(predCount)
		}
		if support > 0 {
			m.Recall = float64(truePos) / float64(support)
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		perClass[label] = m
	}

	eval := Evaluation{
		Labels:    sorted,
		PerClass:  perClass,
		Confusion: confusion,
		HeldOut:   len(truth),
	}
	if len(truth) > 0 {
		eval.Accuracy = float64(correct) / float64(len(truth))
	}
	return eval, nil
}

// Render writes the classification report and confusion matrix as plain
// tables.
func (e Evaluation) Render(w io.Writer) {
	fmt.Fprintf(w, "Held-out samples: %d\n", e.HeldOut)
	fmt.Fprintf(w, "Accuracy: %.2f%%\n\n", e.Accuracy*100)

	report := tablewriter.NewWriter(w)
	report.SetHeader([]string{"Label", "Precision", "Recall", "F1", "Support"})
	report.SetAutoWrapText(false)
	report.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	report.SetAlignment(tablewriter.ALIGN_LEFT)
	report.SetBorder(false)
	for _, label := range e.Labels {
		m := e.PerClass[label]
		report.Append([]string{
			label,
			fmt.Sprintf("%.3f", m.Precision),
			fmt.Sprintf("%.3f", m.Recall),
			fmt.Sprintf("%.3f", m.F1),
			fmt.Sprintf("%d", m.Support),
		})
	}
	report.Render()

	fmt.Fprintf(w, "\nConfusion matrix (rows: truth, cols: predicted)\n")
	matrix := tablewriter.NewWriter(w)
	matrix.SetHeader(append([]string{""}, e.Labels...))
	matrix.SetAutoWrapText(false)
	matrix.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	matrix.SetAlignment(tablewriter.ALIGN_LEFT)
	matrix.SetBorder(false)
	for i, label := range e.Labels {
		row := []string{label}
		for _, count := range e.Confusion[i] {
			row = append(row, fmt.Sprintf("%d", count))
		}
		matrix.Append(row)
	}
	matrix.Render()
}
