package backdrop_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/dinnerroulette/internal/backdrop"
	"github.com/cory-johannsen/dinnerroulette/internal/random"
	"github.com/cory-johannsen/dinnerroulette/internal/roulette"
)

func assertInBounds(t require.TestingT, positions []backdrop.Position) {
	for _, p := range positions {
		require.GreaterOrEqual(t, p.X, 0.0)
		require.Less(t, p.X, 100.0)
		require.GreaterOrEqual(t, p.Y, 0.0)
		require.Less(t, p.Y, 100.0)
		require.GreaterOrEqual(t, p.Rotation, 0.0)
		require.Less(t, p.Rotation, 360.0)
	}
}

func TestGenerate_OnePositionPerLabel(t *testing.T) {
	positions := backdrop.Generate(roulette.Menu(), random.NewCryptoSource())
	assert.Len(t, positions, len(roulette.Menu()))
	assertInBounds(t, positions)
}

func TestGenerate_ScalesEachAxis(t *testing.T) {
	src := &random.Fixed{Values: []float64{0.5, 0.25, 0.75}}
	positions := backdrop.Generate([]string{"x"}, src)
	assert.Equal(t, []backdrop.Position{{X: 50, Y: 25, Rotation: 270}}, positions)
}

// Property: every generated coordinate stays inside its declared bound.
func TestPropertyGenerateWithinBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 12).Draw(rt, "labels")
		values := rapid.SliceOfN(rapid.Float64Range(0, 0.9999999), 1, 16).Draw(rt, "draws")
		positions := backdrop.Generate(make([]string, n), &random.Fixed{Values: values})
		if len(positions) != n {
			rt.Fatalf("got %d positions, want %d", len(positions), n)
		}
		assertInBounds(rt, positions)
	})
}

func TestDecoration_InitialLayoutAtMount(t *testing.T) {
	d := backdrop.NewDecoration(roulette.Menu(), random.NewCryptoSource(), time.Hour)
	assert.Len(t, d.Current(), 5)
	assert.Equal(t, 0, d.Generation())
	assert.Equal(t, roulette.Menu(), d.Labels())
}

func TestDecoration_RegeneratesEveryInterval(t *testing.T) {
	d := backdrop.NewDecoration(roulette.Menu(), random.NewSeededSource(1), 20*time.Millisecond)
	ch := make(chan []backdrop.Position, 4)
	d.Subscribe(ch)
	stop := d.Start()
	defer stop()
	defer d.Unsubscribe(ch)

	first := d.Current()
	for i := 0; i < 2; i++ {
		select {
		case positions := <-ch:
			assert.Len(t, positions, 5)
			assertInBounds(t, positions)
		case <-time.After(500 * time.Millisecond):
			t.Fatalf("timed out waiting for regeneration %d", i+1)
		}
	}
	assert.GreaterOrEqual(t, d.Generation(), 2)
	assert.NotEqual(t, first, d.Current())
}

func TestDecoration_StopHaltsRegeneration(t *testing.T) {
	d := backdrop.NewDecoration(roulette.Menu(), random.NewCryptoSource(), 10*time.Millisecond)
	stop := d.Start()
	time.Sleep(35 * time.Millisecond)
	stop()
	stop()

	gen := d.Generation()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, gen, d.Generation(), "no regeneration after stop")
}
