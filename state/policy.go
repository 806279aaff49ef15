package state

import (
	"math/rand"

	"github.com/pkg/errors"
)

// AlwaysSucceed grants every attempt.
type AlwaysSucceed struct{}

func (AlwaysSucceed) AttemptOn() bool    { return true }
func (AlwaysSucceed) PolicyName() string { return "always" }

// NeverSucceed denies every attempt.
type NeverSucceed struct{}

func (NeverSucceed) AttemptOn() bool    { return false }
func (NeverSucceed) PolicyName() string { return "never" }

// RandomFailing fails each attempt with a fixed probability. Once an attempt
// failed, all further attempts fail until Reset.
type RandomFailing struct {
	rnd         *rand.Rand
	probability float64
	failed      bool
}

func NewRandomFailing(seed int64, probability float64) (*RandomFailing, error) {
	if probability < 0 || probability > 1 {
		return nil, errors.Errorf("failure probability %v out of range [0,1]", probability)
	}
	return &RandomFailing{
		rnd:         rand.New(rand.NewSource(seed)),
		probability: probability,
	}, nil
}

func (p *RandomFailing) AttemptOn() bool {
	p.failed = p.failed || p.rnd.Float64() < p.probability
	return !p.failed
}

func (p *RandomFailing) Reset() {
	p.failed = false
}

func (p *RandomFailing) PolicyName() string { return "random" }

// Sequence replays scripted results. The last result repeats once the script
// is exhausted; an empty script denies.
type Sequence struct {
	results []bool
	next    int
}

func NewSequence(results ...bool) *Sequence {
	return &Sequence{results: append([]bool(nil), results...)}
}

func (s *Sequence) AttemptOn() bool {
	if len(s.results) == 0 {
		return false
	}
	r := s.results[s.next]
	if s.next < len(s.results)-1 {
		s.next++
	}
	return r
}

func (s *Sequence) PolicyName() string { return "sequence" }
