package game

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func entityPool(n int) []Entity {
	out := make([]Entity, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Entity{
			ID:    fmt.Sprintf("e%d", i),
			Name:  fmt.Sprintf("sub%d", i),
			Value: int64(100 + i*10),
		})
	}
	return out
}

func TestSampler_FiltersUnusableEntries(t *testing.T) {
	pool := []Entity{
		{ID: "a", Name: "a", Value: 100},
		{ID: "b", Name: "b", Value: 0},
		{ID: "c", Name: "c", Value: -5},
		{ID: "d", Name: "d", Value: 50},
	}
	s := NewSampler(pool, 1)
	require.Equal(t, 2, s.PoolSize())
	require.True(t, s.Ready())
}

func TestSampler_PairIsAlwaysDistinct(t *testing.T) {
	s := NewSampler(entityPool(5), 42)
	for i := 0; i < 200; i++ {
		p := s.Sample(nil, Constraint{})
		require.NotEqual(t, p.Left.ID, p.Right.ID, "round %d", i)
	}
}

func TestSampler_HigherFavorsLeftOnTie(t *testing.T) {
	p := Pair{
		Left:  Entity{ID: "a", Value: 100},
		Right: Entity{ID: "b", Value: 100},
	}
	require.Equal(t, SideLeft, p.Higher())

	p.Right.Value = 101
	require.Equal(t, SideRight, p.Higher())
}

func TestSampler_TwoEntityPool(t *testing.T) {
	a := Entity{ID: "a", Name: "A", Value: 100}
	b := Entity{ID: "b", Name: "B", Value: 50}
	s := NewSampler([]Entity{a, b}, 7)

	for i := 0; i < 50; i++ {
		p := s.Sample(nil, Constraint{})
		ids := []string{p.Left.ID, p.Right.ID}
		require.ElementsMatch(t, []string{"a", "b"}, ids)

		higher := p.Get(p.Higher())
		require.Equal(t, "a", higher.ID)
	}
}

func TestSampler_PoolTooSmall_ReturnsPlaceholder(t *testing.T) {
	s := NewSampler([]Entity{{ID: "a", Value: 10}}, 1)
	require.False(t, s.Ready())

	p := s.Sample(nil, Constraint{})
	require.Equal(t, "N/A", p.Left.Name)
	require.Equal(t, "N/A", p.Right.Name)
	require.Zero(t, p.Left.Value)
}

func TestSampler_CarryOverKeepsAnchor(t *testing.T) {
	s := NewSampler(entityPool(6), 3)
	carry := Entity{ID: "e2", Name: "sub2", Value: 120}

	for i := 0; i < 40; i++ {
		p := s.Sample(&carry, Constraint{})
		require.True(t, p.Left.ID == carry.ID || p.Right.ID == carry.ID)
		require.NotEqual(t, p.Left.ID, p.Right.ID)
	}
}

func TestSampler_MinRatioConstraint(t *testing.T) {
	pool := []Entity{
		{ID: "a", Value: 100},
		{ID: "b", Value: 40},  // <= 100/2
		{ID: "c", Value: 250}, // >= 100*2
		{ID: "d", Value: 90},  // inside the window, never admitted
	}
	s := NewSampler(pool, 11)
	anchor := pool[0]
	c := Constraint{MinRatio: 2}

	for i := 0; i < 60; i++ {
		p := s.Sample(&anchor, c)
		challenger := p.Right
		if p.Right.ID == anchor.ID {
			challenger = p.Left
		}
		require.Contains(t, []string{"b", "c"}, challenger.ID)
	}
}

func TestSampler_ConstraintFallsBackWhenUnsatisfiable(t *testing.T) {
	// Every candidate sits inside the excluded middle band, so the
	// constraint can never be satisfied; the sampler must still
	// terminate with a distinct pair.
	pool := []Entity{
		{ID: "a", Value: 100},
		{ID: "b", Value: 110},
		{ID: "c", Value: 120},
	}
	s := NewSampler(pool, 13)
	anchor := pool[0]

	p := s.Sample(&anchor, Constraint{MinRatio: 2})
	require.NotEqual(t, p.Left.ID, p.Right.ID)
}

func TestSampler_PercentWindowConstraint(t *testing.T) {
	pool := []Entity{
		{ID: "a", Value: 100},
		{ID: "b", Value: 110}, // within ±20%
		{ID: "c", Value: 500}, // far outside
	}
	s := NewSampler(pool, 17)
	anchor := pool[0]

	for i := 0; i < 40; i++ {
		p := s.Sample(&anchor, Constraint{PercentWindow: 0.2})
		challenger := p.Right
		if p.Right.ID == anchor.ID {
			challenger = p.Left
		}
		require.Equal(t, "b", challenger.ID)
	}
}

func TestSampler_HistoryReducesRepeats(t *testing.T) {
	s := NewSampler(entityPool(20), 19)

	first := s.Sample(nil, Constraint{})
	second := s.Sample(nil, Constraint{})

	require.NotContains(t, []string{second.Left.ID, second.Right.ID}, first.Left.ID)
	require.NotContains(t, []string{second.Left.ID, second.Right.ID}, first.Right.ID)
}
