package ecs

import "math"

// Config holds process-wide defaults used when constructing new worlds and
// component columns. Per-world behavior should prefer constructor options
// over mutating this directly; it exists mainly so a host application can
// set sane defaults once at startup.
var Config = config{
	initialCapacity: 4,
	growthFactor:    1.5,
	sentinel:        math.NaN(),
}

type config struct {
	initialCapacity int
	growthFactor    float64
	sentinel        float64
}

// SetInitialCapacity sets the number of rows a new NumericColumn allocates
// before its first growth.
func (c *config) SetInitialCapacity(n int) {
	if n < 1 {
		n = 1
	}
	c.initialCapacity = n
}

// SetGrowthFactor sets the amortized growth multiplier applied by
// EnsureCapacity. Values at or below 1.0 are ignored, leaving the current
// factor in place, since they would not amortize reallocation.
func (c *config) SetGrowthFactor(f float64) {
	if f <= 1.0 {
		return
	}
	c.growthFactor = f
}

// SetSentinel sets the fill value written into rows that hold no data.
// Defaults to NaN, matching the "absence is NaN" invariant described for
// the component columns.
func (c *config) SetSentinel(v float64) {
	c.sentinel = v
}

// columnConfig is a World-scoped snapshot of the column tunables, taken
// from the package-level Config at World construction time and then
// frozen: a World's columns always build from this snapshot rather than
// re-reading Config, so mutating Config later never reaches back into an
// already-constructed World, and two Worlds built with different
// WithInitialCapacity/WithGrowthFactor/WithSentinel options can be tuned
// independently of one another.
type columnConfig struct {
	initialCapacity int
	growthFactor    float64
	sentinel        float64
}

func defaultColumnConfig() columnConfig {
	return columnConfig{
		initialCapacity: Config.initialCapacity,
		growthFactor:    Config.growthFactor,
		sentinel:        Config.sentinel,
	}
}
