package training

import (
	"math/rand"
	"sort"
)

// StratifiedSplit partitions samples into training and held-out sets,
// preserving each label's proportion in both. The same seed always produces
// the same partition: label groups are visited in sorted order and shuffled
// by a single seeded source.
//
// Labels too small for the fraction to round to one document keep everything
// in training; the held-out side simply has no rows for them.
func StratifiedSplit(samples []Sample, testFraction float64, seed int64) (train, test []Sample) {
	if testFraction <= 0 || testFraction >= 1 {
		testFraction = 0.2
	}

	byLabel := make(map[string][]int)
	for i, s := range samples {
		byLabel[s.Label] = append(byLabel[s.Label], i)
	}
	labels := make([]string, 0, len(byLabel))
	for label := range byLabel {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	rng := rand.New(rand.NewSource(seed))
	train = make([]Sample, 0, len(samples))
	test = make([]Sample, 0, len(samples))
	for _, label := range labels {
		group := byLabel[label]
		rng.Shuffle(len(group), func(i, j int) {
			group[i], group[j] = group[j], group[i]
		})

		nTest := int(float64(len(group)) * testFraction)
		for i, idx := range group {
			if i < nTest {
				test = append(test, samples[idx])
			} else {
				train = append(train, samples[idx])
			}
		}
	}
	return train, test
}
