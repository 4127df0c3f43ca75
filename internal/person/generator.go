package person

import (
	"math/rand/v2"
	"sync"
)

// Generator picks random name/age pairs.
type Generator interface {
	Next() Person
}

// RandomGenerator draws a name uniformly from Names and an age uniformly from
// [MinAge, MaxAge]. It is safe for concurrent use.
type RandomGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomGenerator returns a generator seeded from the runtime's entropy.
func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{
		rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// NewSeededGenerator returns a deterministic generator, for tests.
func NewSeededGenerator(seed1, seed2 uint64) *RandomGenerator {
	return &RandomGenerator{
		rng: rand.New(rand.NewPCG(seed1, seed2)),
	}
}

// Next returns a new random Person.
func (g *RandomGenerator) Next() Person {
	g.mu.Lock()
	defer g.mu.Unlock()

	return Person{
		Name: Names[g.rng.IntN(len(Names))],
		Age:  MinAge + g.rng.IntN(MaxAge-MinAge+1),
	}
}
