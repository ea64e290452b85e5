package domain

// Quality is an air quality label. The closed label set served by the
// classifier is whatever the training dataset contained; these constants
// name the levels the advisory pools are keyed by.
type Quality string

const (
	QualityBaik       Quality = "Baik"
	QualitySedang     Quality = "Sedang"
	QualityTidakSehat Quality = "Tidak Sehat"
)

func (q Quality) String() string {
	return string(q)
}
