// Package roulette implements the dinner picker: the fixed menu, the
// exclusion and sampling rules, and the Idle/Rolling state machine that
// animates a roll and remembers its result.
package roulette

import (
	"errors"
	"slices"

	"github.com/cory-johannsen/dinnerroulette/internal/random"
)

// ErrEmptyPool is returned by Pick when there is nothing to choose from.
var ErrEmptyPool = errors.New("roulette: empty pool")

// menu is the fixed option set. It is never mutated.
var menu = []string{
	"Dragon City",
	"McDonalds",
	"Hot Dogs / Fish Sticks",
	"Rice and Sea Weed",
	"Spaghetti and Meatballs",
}

// Menu returns a copy of the fixed option set, in display order.
func Menu() []string {
	return slices.Clone(menu)
}

// OnMenu reports whether name is one of the options in set.
func OnMenu(set []string, name string) bool {
	return slices.Contains(set, name)
}

// Available returns set without last. If removing last would leave nothing,
// the full set is returned and excluded is false.
//
// Postcondition: len(pool) >= 1 whenever len(set) >= 1; set is not modified.
func Available(set []string, last string) (pool []string, excluded bool) {
	pool = make([]string, 0, len(set))
	for _, opt := range set {
		if opt != last {
			pool = append(pool, opt)
		}
	}
	if len(pool) == 0 {
		return slices.Clone(set), false
	}
	return pool, len(pool) < len(set)
}

// Pick draws one option uniformly from pool as pool[floor(Float64()*len(pool))].
//
// Postcondition: the result is an element of pool, or ErrEmptyPool.
func Pick(pool []string, src random.Source) (string, error) {
	if len(pool) == 0 {
		return "", ErrEmptyPool
	}
	return pool[random.Index(src, len(pool))], nil
}
