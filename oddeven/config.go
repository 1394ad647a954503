package oddeven

import (
	"fmt"
	"math"
)

type Config struct {
	// Length of the global sequence.
	Length int `toml:"length"`
	// Participants is the number of ranks.
	Participants int `toml:"participants"`
	// ChunkFraction is the share of a partition exchanged with a neighbour, in (0, 1].
	ChunkFraction float64 `toml:"chunk_fraction"`
}

func (c Config) PartitionSize() int {
	if c.Participants <= 0 {
		return 0
	}
	return c.Length / c.Participants
}

// ChunkSize is floor(PartitionSize * ChunkFraction).
func (c Config) ChunkSize() int {
	return int(math.Floor(float64(c.PartitionSize()) * c.ChunkFraction))
}

func (c Config) Validate() error {
	if c.Participants < 1 {
		return fmt.Errorf("%w: need at least one participant, got %d", ErrConfiguration, c.Participants)
	}
	if c.Length < 1 {
		return fmt.Errorf("%w: sequence length must be positive, got %d", ErrConfiguration, c.Length)
	}
	if c.Length%c.Participants != 0 {
		return fmt.Errorf("%w: length %d is not divisible by %d participants", ErrConfiguration, c.Length, c.Participants)
	}
	if !(c.ChunkFraction > 0 && c.ChunkFraction <= 1) {
		return fmt.Errorf("%w: chunk fraction %v is outside (0, 1]", ErrConfiguration, c.ChunkFraction)
	}
	s, chunk := c.PartitionSize(), c.ChunkSize()
	if chunk < 1 || chunk > s {
		return fmt.Errorf("%w: chunk size %d derived from partition size %d and fraction %v must be in [1, %d]",
			ErrConfiguration, chunk, s, c.ChunkFraction, s)
	}
	return nil
}
