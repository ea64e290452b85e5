package domain

// Prediction is the outcome of classifying one normalized report.
// Probabilities covers exactly the labels seen at training time and sums to 1.
type Prediction struct {
	Label         string
	Normalized    string
	Probabilities map[string]float64
}

// Advisory is the label-specific guidance attached to a prediction.
// Selection is a presentation concern, not part of the classifier core.
type Advisory struct {
	Color       string   `json:"warna"`
	Icon        string   `json:"icon"`
	Description string   `json:"deskripsi"`
	Suggestions []string `json:"saran"`
}
