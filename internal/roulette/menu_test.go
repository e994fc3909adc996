package roulette_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/dinnerroulette/internal/random"
	"github.com/cory-johannsen/dinnerroulette/internal/roulette"
)

func TestMenu_FixedFiveOptions(t *testing.T) {
	m := roulette.Menu()
	assert.Equal(t, []string{
		"Dragon City",
		"McDonalds",
		"Hot Dogs / Fish Sticks",
		"Rice and Sea Weed",
		"Spaghetti and Meatballs",
	}, m)
}

func TestMenu_ReturnsCopy(t *testing.T) {
	m := roulette.Menu()
	m[0] = "Tacos"
	assert.Equal(t, "Dragon City", roulette.Menu()[0])
}

func TestAvailable_ExcludesLast(t *testing.T) {
	pool, excluded := roulette.Available([]string{"A", "B", "C", "D", "E"}, "B")
	assert.True(t, excluded)
	assert.Equal(t, []string{"A", "C", "D", "E"}, pool)
}

func TestAvailable_NoPriorValue(t *testing.T) {
	pool, excluded := roulette.Available([]string{"A", "B"}, "")
	assert.False(t, excluded)
	assert.Equal(t, []string{"A", "B"}, pool)
}

func TestAvailable_SkipsExclusionThatWouldEmptyPool(t *testing.T) {
	pool, excluded := roulette.Available([]string{"A"}, "A")
	assert.False(t, excluded)
	assert.Equal(t, []string{"A"}, pool)
}

func TestPick_EmptyPool(t *testing.T) {
	_, err := roulette.Pick(nil, random.NewCryptoSource())
	assert.ErrorIs(t, err, roulette.ErrEmptyPool)
}

func TestPick_FloorMapping(t *testing.T) {
	pool := []string{"A", "C", "D", "E"}
	src := &random.Fixed{Values: []float64{0.0, 0.26, 0.5, 0.99}}
	for _, want := range []string{"A", "C", "D", "E"} {
		got, err := roulette.Pick(pool, src)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

// Property: a pick after exclusion is on the menu and never the excluded value.
func TestPropertyPickNeverRepeatsLast(t *testing.T) {
	set := roulette.Menu()
	rapid.Check(t, func(rt *rapid.T) {
		last := rapid.SampledFrom(append(set, "")).Draw(rt, "last")
		v := rapid.Float64Range(0, 0.9999999).Draw(rt, "draw")

		pool, _ := roulette.Available(set, last)
		got, err := roulette.Pick(pool, &random.Fixed{Values: []float64{v}})
		if err != nil {
			rt.Fatalf("Pick: %v", err)
		}
		if !roulette.OnMenu(set, got) {
			rt.Fatalf("picked %q, not on the menu", got)
		}
		if got == last {
			rt.Fatalf("picked %q, same as the previous choice", got)
		}
	})
}

// Property: Available always yields at least one option for a non-empty set.
func TestPropertyAvailableNeverEmpty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		set := rapid.SliceOfNDistinct(rapid.StringMatching(`[a-z]{1,6}`), 1, 8, rapid.ID[string]).Draw(rt, "set")
		last := rapid.StringMatching(`[a-z]{0,6}`).Draw(rt, "last")
		pool, excluded := roulette.Available(set, last)
		if len(pool) == 0 {
			rt.Fatalf("empty pool for set=%v last=%q", set, last)
		}
		if excluded && roulette.OnMenu(pool, last) {
			rt.Fatalf("pool %v still contains excluded %q", pool, last)
		}
	})
}
