package multipart

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

const (
	boundaryPrefix    = "---------------------------"
	boundaryRandChars = 15
)

// BoundaryGenerator produces boundary strings: 27 dashes followed by 15
// letters, each drawn with equal chance from 'A'-'Y' or 'b'-'z'.
// It is safe for concurrent use.
type BoundaryGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewBoundaryGenerator creates a generator over src. A nil src seeds from
// the current time.
func NewBoundaryGenerator(src rand.Source) *BoundaryGenerator {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &BoundaryGenerator{rng: rand.New(src)}
}

// NewSeededBoundaryGenerator creates a deterministic generator.
func NewSeededBoundaryGenerator(seed int64) *BoundaryGenerator {
	return NewBoundaryGenerator(rand.NewSource(seed))
}

// Next returns a new boundary.
func (g *BoundaryGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	var sb strings.Builder
	sb.Grow(len(boundaryPrefix) + boundaryRandChars)
	sb.WriteString(boundaryPrefix)
	for i := 0; i < boundaryRandChars; i++ {
		if g.rng.Intn(2) == 0 {
			sb.WriteByte(byte('A' + g.rng.Intn(25)))
		} else {
			sb.WriteByte(byte('b' + g.rng.Intn(25)))
		}
	}
	return sb.String()
}
