package game

import (
	"math"
	"math/rand"
	"sync"
)

// HistoryLimit is how many recent pairs the sampler remembers to
// reduce immediate repeats. Soft constraint: when every candidate is
// excluded the sampler falls back to the full pool.
const HistoryLimit = 8

// maxAnchorAttempts bounds the search for a constraint-satisfying
// pair before falling back to an unconstrained pick.
const maxAnchorAttempts = 12

const distinctRetries = 10

type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

type Pair struct {
	Left  Entity `json:"left"`
	Right Entity `json:"right"`
}

// Higher is the side holding the objectively larger value. Ties favor
// left.
func (p Pair) Higher() Side {
	if p.Left.Value >= p.Right.Value {
		return SideLeft
	}
	return SideRight
}

func (p Pair) Get(s Side) Entity {
	if s == SideLeft {
		return p.Left
	}
	return p.Right
}

// PlaceholderPair is returned when the pool cannot produce two
// distinct entities. Callers must treat it as "cannot start".
func PlaceholderPair() Pair {
	na := Entity{Name: "N/A"}
	return Pair{Left: na, Right: na}
}

// Constraint narrows challenger selection relative to the anchor.
// Zero value means unconstrained. MinRatio takes precedence.
type Constraint struct {
	// MinRatio requires challenger.Value <= anchor/ratio or
	// >= anchor*ratio, so the matchup is not a coin flip.
	MinRatio float64
	// PercentWindow requires challenger within ±P of anchor
	// (0.2 = ±20%), so the matchup is deliberately close.
	PercentWindow float64
}

func (c Constraint) active() bool {
	return c.MinRatio > 1 || c.PercentWindow > 0
}

func (c Constraint) admits(anchor, candidate int64) bool {
	a := float64(anchor)
	if a < 1 {
		a = 1
	}
	v := float64(candidate)
	if c.MinRatio > 1 {
		lo := math.Floor(a / c.MinRatio)
		hi := math.Ceil(a * c.MinRatio)
		return v <= lo || v >= hi
	}
	if c.PercentWindow > 0 {
		lo := math.Floor(a * (1 - c.PercentWindow))
		hi := math.Ceil(a * (1 + c.PercentWindow))
		return v >= lo && v <= hi
	}
	return true
}

// Sampler draws pairs from a fixed pool of usable entities. Not
// safe for concurrent use on its own; Session serializes access.
type Sampler struct {
	mu     sync.Mutex
	pool   []Entity
	rng    *rand.Rand
	recent []string
}

// NewSampler filters out unusable entries once for the session.
func NewSampler(entities []Entity, seed int64) *Sampler {
	pool := make([]Entity, 0, len(entities))
	for _, e := range entities {
		if e.Usable() {
			pool = append(pool, e)
		}
	}
	return &Sampler{
		pool: pool,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Ready reports whether the pool can produce a real pair.
func (s *Sampler) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pool) >= 2
}

func (s *Sampler) PoolSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pool)
}

// ResetHistory clears the recent-pair memory, e.g. on session reset.
func (s *Sampler) ResetHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recent = s.recent[:0]
}

// Sample produces the next pair. A non-nil carry keeps the previous
// winner as anchor and places the challenger on a random side;
// otherwise both entities are drawn fresh. The constraint is applied
// with bounded retries over alternate anchors, then waived.
func (s *Sampler) Sample(carry *Entity, c Constraint) Pair {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pool) < 2 {
		return PlaceholderPair()
	}

	anchor := Entity{}
	if carry != nil {
		anchor = *carry
	} else {
		anchor = s.pickExcluding(s.excludeSet(""))
	}

	challenger, found := s.findChallenger(anchor, c)
	if !found && carry == nil && c.active() {
		// Retry with alternate anchors before waiving the constraint.
		for attempt := 0; attempt < maxAnchorAttempts; attempt++ {
			alt := s.pickExcluding(s.excludeSet(""))
			if ch, ok := s.findChallenger(alt, c); ok {
				anchor, challenger, found = alt, ch, true
				break
			}
		}
	}
	if !found {
		challenger = s.pickExcluding(s.excludeSet(anchor.ID))
		if challenger.ID == anchor.ID {
			challenger = s.pickDistinct(anchor)
		}
	}

	pair := s.place(anchor, challenger)
	s.remember(pair)
	return pair
}

// findChallenger looks for a constraint-satisfying candidate distinct
// from the anchor, preferring ones outside the recent history.
func (s *Sampler) findChallenger(anchor Entity, c Constraint) (Entity, bool) {
	if !c.active() {
		return Entity{}, false
	}
	exclude := s.excludeSet(anchor.ID)
	candidates := make([]Entity, 0, len(s.pool))
	relaxed := make([]Entity, 0, len(s.pool))
	for _, e := range s.pool {
		if e.ID == anchor.ID || !c.admits(anchor.Value, e.Value) {
			continue
		}
		relaxed = append(relaxed, e)
		if !exclude[e.ID] {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) > 0 {
		return candidates[s.rng.Intn(len(candidates))], true
	}
	if len(relaxed) > 0 {
		return relaxed[s.rng.Intn(len(relaxed))], true
	}
	return Entity{}, false
}

// pickDistinct resamples up to a bounded retry count, then filters
// outright so termination never depends on luck.
func (s *Sampler) pickDistinct(anchor Entity) Entity {
	for i := 0; i < distinctRetries; i++ {
		e := s.pool[s.rng.Intn(len(s.pool))]
		if e.ID != anchor.ID {
			return e
		}
	}
	others := make([]Entity, 0, len(s.pool))
	for _, e := range s.pool {
		if e.ID != anchor.ID {
			others = append(others, e)
		}
	}
	if len(others) == 0 {
		return anchor
	}
	return others[s.rng.Intn(len(others))]
}

func (s *Sampler) pickExcluding(exclude map[string]bool) Entity {
	candidates := make([]Entity, 0, len(s.pool))
	for _, e := range s.pool {
		if !exclude[e.ID] {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) == 0 {
		candidates = s.pool
	}
	return candidates[s.rng.Intn(len(candidates))]
}

func (s *Sampler) excludeSet(extra string) map[string]bool {
	out := make(map[string]bool, len(s.recent)+1)
	for _, id := range s.recent {
		out[id] = true
	}
	if extra != "" {
		out[extra] = true
	}
	return out
}

// place randomizes which side the anchor lands on to avoid player
// bias toward a fixed slot.
func (s *Sampler) place(anchor, challenger Entity) Pair {
	if s.rng.Intn(2) == 0 {
		return Pair{Left: anchor, Right: challenger}
	}
	return Pair{Left: challenger, Right: anchor}
}

func (s *Sampler) remember(p Pair) {
	s.recent = append(s.recent, p.Left.ID, p.Right.ID)
	max := HistoryLimit * 2
	if len(s.recent) > max {
		s.recent = s.recent[len(s.recent)-max:]
	}
}
