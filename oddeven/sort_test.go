package oddeven

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edmelnikov/Distributed-Computing-course/mpi"
	"github.com/edmelnikov/Distributed-Computing-course/trace"
	"github.com/edmelnikov/Distributed-Computing-course/utils"
)

func TestRunReversedEight(t *testing.T) {
	cfg := Config{Length: 8, Participants: 4, ChunkFraction: 0.5}
	res, err := RunLocal(cfg, []int32{8, 7, 6, 5, 4, 3, 2, 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2, 3, 4, 5, 6, 7, 8}, res.Sorted)
	assert.Equal(t, []int{6, 4, 5, 4, 4, 3, 1, 1, 0}, res.Totals)
	assert.Equal(t, 9, res.Rounds)
	assert.Equal(t, []int32{1, 2}, res.Partition)
}

func TestRunAlreadySorted(t *testing.T) {
	for _, cfg := range []Config{
		{Length: 8, Participants: 4, ChunkFraction: 0.5},
		{Length: 30, Participants: 5, ChunkFraction: 0.4},
		{Length: 7, Participants: 1, ChunkFraction: 0.3},
	} {
		global := utils.Ascending(cfg.Length)
		res, err := RunLocal(cfg, global, nil)
		require.NoError(t, err)
		assert.Equal(t, global, res.Sorted)
		assert.Equal(t, []int{0, 0, 0}, res.Totals, "%+v", cfg)
		assert.Equal(t, 3, res.Rounds)
	}
}

func TestRunSortsRandomInputs(t *testing.T) {
	configs := []Config{
		{Length: 8, Participants: 4, ChunkFraction: 0.5},
		{Length: 12, Participants: 1, ChunkFraction: 0.5},
		{Length: 12, Participants: 2, ChunkFraction: 0.25},
		{Length: 12, Participants: 3, ChunkFraction: 0.5},
		{Length: 12, Participants: 12, ChunkFraction: 1},
		{Length: 60, Participants: 5, ChunkFraction: 0.75},
		{Length: 64, Participants: 8, ChunkFraction: 0.125},
		{Length: 64, Participants: 8, ChunkFraction: 1},
		{Length: 99, Participants: 9, ChunkFraction: 0.5},
		{Length: 200, Participants: 4, ChunkFraction: 0.75},
	}
	for i, cfg := range configs {
		for seed := int64(0); seed < 3; seed++ {
			t.Run(fmt.Sprintf("%d/%d/%v/seed%d", cfg.Length, cfg.Participants, cfg.ChunkFraction, seed), func(t *testing.T) {
				global := utils.Random(cfg.Length, 50, seed*100+int64(i))
				input := slices.Clone(global)
				res, err := RunLocal(cfg, global, nil)
				require.NoError(t, err)
				assert.Equal(t, input, global, "input must not be modified")
				assert.True(t, slices.IsSorted(res.Sorted))
				assert.True(t, utils.IsPermutation(input, res.Sorted))

				// Totals add up to the inversions of the input, and the last
				// round is the first zero even round after round 0.
				sum := 0
				for _, n := range res.Totals {
					sum += n
				}
				assert.Equal(t, inversions(input), sum)
				assert.Len(t, res.Totals, res.Rounds)
				last := res.Rounds - 1
				assert.True(t, Converged(last, res.Totals[last]))
				for round := 0; round < last; round++ {
					assert.False(t, Converged(round, res.Totals[round]))
				}
			})
		}
	}
}

func TestRunDescendingTerminatesInLinearRounds(t *testing.T) {
	for _, p := range []int{1, 2, 3, 4, 5, 8} {
		cfg := Config{Length: 10 * p, Participants: p, ChunkFraction: 0.5}
		res, err := RunLocal(cfg, utils.Descending(cfg.Length), nil)
		require.NoError(t, err)
		assert.Equal(t, utils.Ascending(cfg.Length), res.Sorted)
		assert.LessOrEqual(t, res.Rounds, 4*p+4, "p = %d", p)
	}
}

func TestRunConfigurationError(t *testing.T) {
	_, err := RunLocal(Config{Length: 4, Participants: 4, ChunkFraction: 0.5}, utils.Descending(4), nil)
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = RunLocal(Config{Length: 10, Participants: 4, ChunkFraction: 0.5}, utils.Descending(10), nil)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestRunGlobalLengthMismatch(t *testing.T) {
	_, err := RunLocal(Config{Length: 8, Participants: 4, ChunkFraction: 0.5}, utils.Descending(12), nil)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestRunWorldSizeMismatch(t *testing.T) {
	world := mpi.NewLocalWorld(2)
	_, err := NewSorter(world[0], Config{Length: 8, Participants: 4, ChunkFraction: 0.5}).Run(utils.Descending(8))
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestRunOnEveryRank(t *testing.T) {
	cfg := Config{Length: 20, Participants: 5, ChunkFraction: 0.6}
	results := make([]Result, cfg.Participants)
	err := onEveryRank(cfg.Participants, func(ep *mpi.Endpoint) error {
		var global []int32
		if ep.Rank() == mpi.Root {
			global = utils.Descending(cfg.Length)
		}
		res, err := NewSorter(ep, cfg).Run(global)
		results[ep.Rank()] = res
		return err
	})
	require.NoError(t, err)
	for rank, res := range results {
		assert.Equal(t, results[0].Rounds, res.Rounds, "every rank stops on the same round")
		assert.Equal(t, utils.Ascending(cfg.Length)[rank*4:(rank+1)*4], res.Partition)
		if rank != mpi.Root {
			assert.Nil(t, res.Sorted)
			assert.Nil(t, res.Totals)
		}
	}
}

func TestRunWritesRoundTrace(t *testing.T) {
	var buf bytes.Buffer
	tr := trace.NewCSVStructLogger(&buf)
	cfg := Config{Length: 8, Participants: 4, ChunkFraction: 0.5}
	res, err := RunLocal(cfg, utils.Descending(8), tr)
	require.NoError(t, err)
	require.NoError(t, tr.Close())

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, res.Rounds+1)
	assert.Equal(t, []string{"Round", "Total", "Elapsed", "Time"}, records[0])
	for round, total := range res.Totals {
		assert.Equal(t, fmt.Sprint(round), records[round+1][0])
		assert.Equal(t, fmt.Sprint(total), records[round+1][1])
	}
}

func BenchmarkRunLocal(b *testing.B) {
	for _, p := range []int{1, 2, 4, 8} {
		cfg := Config{Length: 4096, Participants: p, ChunkFraction: 0.75}
		global := utils.Random(cfg.Length, 1<<20, 1)
		b.Run(fmt.Sprint("p", p), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := RunLocal(cfg, global, nil); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
