// Package services assembles predictions for the web layer: advisory
// selection, language detection and response shaping around the classifier
// core.
package services

import (
	_ "embed"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"udara-lab/domain"
)

//go:embed advisories.yaml
var defaultAdvisories []byte

// advisoryPool is one label's entry in the YAML file.
type advisoryPool struct {
	Color       string   `yaml:"warna"`
	Icon        string   `yaml:"icon"`
	Description string   `yaml:"deskripsi"`
	Suggestions []string `yaml:"saran"`
}

// AdvisoryService picks 4-5 advisory strings for a predicted label, sampled
// without replacement from a fixed label-specific pool. Randomness is
// injected so tests can pin the seed.
type AdvisoryService struct {
	log      *slog.Logger
	pools    map[string]advisoryPool
	fallback string

	mu  sync.Mutex // rand.Rand is not safe for concurrent use
	rng *rand.Rand
}

// NewAdvisoryService loads pools from path, or from the embedded defaults
// when path is empty.
func NewAdvisoryService(log *slog.Logger, rng *rand.Rand, path string) (*AdvisoryService, error) {
	raw := defaultAdvisories
	if path != "" {
		var err error
		if raw, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("advisory file: %w", err)
		}
	}

	pools := make(map[string]advisoryPool)
	if err := yaml.Unmarshal(raw, &pools); err != nil {
		return nil, fmt.Errorf("advisory yaml: %w", err)
	}

	fallback := domain.QualitySedang.String()
	if _, found := pools[fallback]; !found {
		return nil, fmt.Errorf("advisory pools must contain the fallback label %q", fallback)
	}
	for label, pool := range pools {
		if len(pool.Suggestions) == 0 {
			return nil, fmt.Errorf("advisory pool %q has no suggestions", label)
		}
	}

	return &AdvisoryService{log: log, pools: pools, fallback: fallback, rng: rng}, nil
}

// Advise samples the advisory block for a label. Labels without a pool fall
// back to the middle category.
func (s *AdvisoryService) Advise(label string) domain.Advisory {
	pool, found := s.pools[label]
	if !found {
		s.log.Warn("No advisory pool for label, using fallback", "label", label)
		pool = s.pools[s.fallback]
	}

	s.mu.Lock()
	count := 4 + s.rng.Intn(2)
	order := s.rng.Perm(len(pool.Suggestions))
	s.mu.Unlock()

	if count > len(pool.Suggestions) {
		count = len(pool.Suggestions)
	}
	picked := make([]string, count)
	for i := 0; i < count; i++ {
		picked[i] = pool.Suggestions[order[i]]
	}

	return domain.Advisory{
		Color:       pool.Color,
		Icon:        pool.Icon,
		Description: pool.Description,
		Suggestions: picked,
	}
}
