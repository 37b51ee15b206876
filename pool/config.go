package pool

import (
	"fmt"

	"github.com/ChnjFan/mempool/internal/format"
)

// Config defines the arena geometry of a Manager: three tier sizes and the
// number of arenas built per tier. Different geometries trade reserved
// footprint against headroom before exhaustion.
type Config struct {
	// SmallArenaSize is the region size of every small-tier arena.
	SmallArenaSize int

	// MediumArenaSize is the region size of every medium-tier arena.
	// Must be larger than SmallArenaSize.
	MediumArenaSize int

	// LargeArenaSize is the region size of every large-tier arena.
	// Must be larger than MediumArenaSize. Its usable capacity is the
	// hard ceiling on a single allocation.
	LargeArenaSize int

	// ArenasPerTier is how many arenas each tier gets at construction.
	ArenasPerTier int
}

// Predefined configurations.
var (
	// ConfigStandard: the stock 256 KiB / 1 MiB / 4 MiB geometry with ten
	// arenas per tier, about 52 MiB reserved up front.
	ConfigStandard = Config{
		SmallArenaSize:  256 << 10,
		MediumArenaSize: 1 << 20,
		LargeArenaSize:  4 << 20,
		ArenasPerTier:   10,
	}

	// ConfigCompact: a fraction of the standard footprint, suited to tests
	// and short-lived tools.
	ConfigCompact = Config{
		SmallArenaSize:  64 << 10,
		MediumArenaSize: 256 << 10,
		LargeArenaSize:  1 << 20,
		ArenasPerTier:   2,
	}

	// ConfigWide: double-size tiers with fewer arenas each, for workloads
	// dominated by large buffers.
	ConfigWide = Config{
		SmallArenaSize:  512 << 10,
		MediumArenaSize: 2 << 20,
		LargeArenaSize:  8 << 20,
		ArenasPerTier:   5,
	}

	// DefaultConfig is used when callers have no particular geometry needs.
	DefaultConfig = ConfigStandard
)

// Validate checks the geometry: at least one arena per tier, every tier at
// least big enough to format, and strictly ascending tier sizes so routing
// by size is meaningful.
func (c Config) Validate() error {
	if c.ArenasPerTier < 1 {
		return fmt.Errorf("%w: arenas per tier %d, need at least 1", ErrConfig, c.ArenasPerTier)
	}
	if c.SmallArenaSize < format.MinRegionSize {
		return fmt.Errorf("%w: small arena size %d below minimum region size %d",
			ErrConfig, c.SmallArenaSize, format.MinRegionSize)
	}
	if c.SmallArenaSize >= c.MediumArenaSize || c.MediumArenaSize >= c.LargeArenaSize {
		return fmt.Errorf("%w: tier sizes must be strictly ascending, got %d / %d / %d",
			ErrConfig, c.SmallArenaSize, c.MediumArenaSize, c.LargeArenaSize)
	}
	return nil
}
