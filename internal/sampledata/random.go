package sampledata

import (
	"math/rand"
	"sort"

	"github.com/seehuhn/mt19937"
)

// source wraps a Mersenne Twister seeded for a single generation run. Every
// generator call owns its own source so concurrent runs never share state.
type source struct {
	r *rand.Rand
}

func newSource(seed int64) *source {
	mt := mt19937.New()
	mt.Seed(seed)
	return &source{r: rand.New(mt)}
}

// normal draws from N(mean, std).
func (s *source) normal(mean, std float64) float64 {
	return mean + std*s.r.NormFloat64()
}

// uniform draws from [lo, hi).
func (s *source) uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*s.r.Float64()
}

// intn draws an integer from [0, n).
func (s *source) intn(n int) int {
	return s.r.Intn(n)
}

func (s *source) choice(items []string) string {
	return items[s.intn(len(items))]
}

// weightedChoice picks items[i] with probability p[i]. p must sum to 1.
func (s *source) weightedChoice(items []string, p []float64) string {
	cdf := make([]float64, len(p))
	acc := 0.0
	for i, w := range p {
		acc += w
		cdf[i] = acc
	}
	u := s.r.Float64() * acc
	i := sort.Search(len(cdf), func(i int) bool { return cdf[i] > u })
	if i >= len(items) {
		i = len(items) - 1
	}
	return items[i]
}
