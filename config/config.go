// Package config holds the launch configuration of a sort run.
package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/edmelnikov/Distributed-Computing-course/oddeven"
)

type Config struct {
	Sort    oddeven.Config `toml:"sort"`
	Network Network        `toml:"network"`
	Input   Input          `toml:"input"`
	Trace   Trace          `toml:"trace"`
}

type Network struct {
	// Local runs every participant as a goroutine of one process.
	Local bool `toml:"local"`
	// Manager makes this process rank 0, listening on Port.
	Manager bool `toml:"manager"`
	Port    int  `toml:"port"`
	// Address of the manager, used by hosts.
	Address string `toml:"address"`
	// JoinTimeout bounds how long a host keeps dialing the manager.
	JoinTimeout Duration `toml:"join_timeout"`
}

type Input struct {
	// Kind is "descending", "ascending" or "random".
	Kind string `toml:"kind"`
	Seed int64  `toml:"seed"`
}

type Trace struct {
	// Rounds is a CSV file receiving one line per round, written by rank 0.
	Rounds string `toml:"rounds"`
	// Messages is a CSV file receiving one line per message sent by this process.
	Messages string `toml:"messages"`
}

// Duration reads "1m30s" style strings from TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default is the lab setup: 100000 values in descending order, a quarter of
// every partition kept local.
func Default() Config {
	return Config{
		Sort: oddeven.Config{
			Length:        100000,
			Participants:  4,
			ChunkFraction: 0.75,
		},
		Network: Network{
			Local:       true,
			Manager:     true,
			Port:        2000,
			Address:     "localhost:2000",
			JoinTimeout: Duration{30 * time.Second},
		},
		Input: Input{Kind: "descending", Seed: 314159265},
	}
}

// Load reads path on top of Default. Keys missing from the file keep their default.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := Decode(b, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads TOML into cfg. Unknown keys are an error.
func Decode(b []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	return dec.Decode(cfg)
}

func (c Config) Validate() error {
	if err := c.Sort.Validate(); err != nil {
		return err
	}
	if c.Network.Local && !c.Network.Manager {
		return fmt.Errorf("%w: a local run holds every rank, it cannot run as a host", oddeven.ErrConfiguration)
	}
	switch c.Input.Kind {
	case "descending", "ascending", "sorted", "random":
	default:
		return fmt.Errorf("%w: unknown input kind %q", oddeven.ErrConfiguration, c.Input.Kind)
	}
	return nil
}
