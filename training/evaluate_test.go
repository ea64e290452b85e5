package training

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"udara-lab/errors"
)

func TestEvaluate_PerfectPredictions(t *testing.T) {
	req := require.New(t)

	truth := []string{"Baik", "Sedang", "Baik", "Tidak Sehat"}
	eval, err := Evaluate(truth, truth, []string{"Baik", "Sedang", "Tidak Sehat"})
	req.NoError(err)

	req.Equal(1.0, eval.Accuracy)
	req.Equal(4, eval.HeldOut)
	for _, label := range eval.Labels {
		m := eval.PerClass[label]
		req.Equal(1.0, m.Precision, label)
		req.Equal(1.0, m.Recall, label)
		req.Equal(1.0, m.F1, label)
	}
	req.Equal(2, eval.PerClass["Baik"].Support)
}

func TestEvaluate_ConfusionMatrix(t *testing.T) {
	req := require.New(t)

	truth := []string{"Baik", "Baik", "Sedang", "Sedang"}
	predicted := []string{"Baik", "Sedang", "Sedang", "Sedang"}
	eval, err := Evaluate(truth, predicted, []string{"Baik", "Sedang"})
	req.NoError(err)

	req.Equal([]string{"Baik", "Sedang"}, eval.Labels)
	req.Equal(0.75, eval.Accuracy)
	// Row: truth, column: predicted.
	req.Equal([][]int{{1, 1}, {0, 2}}, eval.Confusion)

	baik := eval.PerClass["Baik"]
	req.Equal(1.0, baik.Precision)
	req.Equal(0.5, baik.Recall)
	req.InDelta(2.0/3.0, baik.F1, 1e-9)
}

func TestEvaluate_EmptyHeldOut(t *testing.T) {
	req := require.New(t)

	eval, err := Evaluate(nil, nil, []string{"Baik", "Sedang"})
	req.NoError(err)
	req.Zero(eval.Accuracy)
	req.Zero(eval.HeldOut)
	req.Zero(eval.PerClass["Baik"].Support)
}

func TestEvaluate_UnknownLabel(t *testing.T) {
	req := require.New(t)

	_, err := Evaluate([]string{"Buruk"}, []string{"Baik"}, []string{"Baik", "Sedang"})
	req.ErrorIs(err, errors.ErrUnknownLabel)

	_, err = Evaluate([]string{"Baik"}, []string{"Buruk"}, []string{"Baik", "Sedang"})
	req.ErrorIs(err, errors.ErrUnknownLabel)
}

func TestEvaluation_Render(t *testing.T) {
	req := require.New(t)

	truth := []string{"Baik", "Sedang"}
	eval, err := Evaluate(truth, truth, []string{"Baik", "Sedang"})
	req.NoError(err)

	var buf bytes.Buffer
	eval.Render(&buf)
	out := buf.String()
	req.Contains(out, "Accuracy: 100.00%")
	req.Contains(out, "Baik")
	req.Contains(out, "Confusion matrix")
}
