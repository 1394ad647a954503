package oddeven

import (
	"fmt"

	"github.com/edmelnikov/Distributed-Computing-course/mpi"
)

// Partitions move before round 0 and after the terminal round.
const setupRound = 0

// Scatter splits global into p contiguous partitions of equal length. Every
// partition is a copy, so the ranks never share storage with global.
func Scatter(global []int32, p int) ([][]int32, error) {
	if p < 1 {
		return nil, fmt.Errorf("%w: cannot scatter over %d participants", ErrConfiguration, p)
	}
	if len(global)%p != 0 {
		return nil, fmt.Errorf("%w: length %d is not divisible by %d participants", ErrConfiguration, len(global), p)
	}
	s := len(global) / p
	parts := make([][]int32, p)
	for i := range parts {
		parts[i] = make([]int32, s)
		copy(parts[i], global[i*s:(i+1)*s])
	}
	return parts, nil
}

// Gather concatenates parts in rank order. It is the inverse of Scatter.
func Gather(parts [][]int32) []int32 {
	n := 0
	for _, part := range parts {
		n += len(part)
	}
	global := make([]int32, 0, n)
	for _, part := range parts {
		global = append(global, part...)
	}
	return global
}

// Distribute hands every rank its partition. Only the root reads global.
func Distribute(comm mpi.Comm, cfg Config, global []int32) ([]int32, error) {
	if comm.Rank() != mpi.Root {
		part, err := comm.Receive(mpi.Root, mpi.TagScatter, setupRound)
		if err != nil {
			return nil, err
		}
		if len(part) != cfg.PartitionSize() {
			return nil, fmt.Errorf("%w: rank %d got a partition of %d values, expected %d",
				ErrInvariantViolation, comm.Rank(), len(part), cfg.PartitionSize())
		}
		return part, nil
	}
	if len(global) != cfg.Length {
		return nil, fmt.Errorf("%w: global sequence has %d values, configured length is %d", ErrConfiguration, len(global), cfg.Length)
	}
	parts, err := Scatter(global, comm.Size())
	if err != nil {
		return nil, err
	}
	for rank := 1; rank < comm.Size(); rank++ {
		if err := comm.Send(rank, mpi.TagScatter, setupRound, parts[rank]); err != nil {
			return nil, err
		}
	}
	return parts[mpi.Root], nil
}

// Collect gathers every partition on the root, which gets the global sequence.
// Other ranks get nil.
func Collect(comm mpi.Comm, part []int32) ([]int32, error) {
	if comm.Rank() != mpi.Root {
		return nil, comm.Send(mpi.Root, mpi.TagGather, setupRound, part)
	}
	parts := make([][]int32, comm.Size())
	parts[mpi.Root] = part
	for rank := 1; rank < comm.Size(); rank++ {
		p, err := comm.Receive(rank, mpi.TagGather, setupRound)
		if err != nil {
			return nil, err
		}
		if len(p) != len(part) {
			return nil, fmt.Errorf("%w: rank %d returned %d values, expected %d", ErrInvariantViolation, rank, len(p), len(part))
		}
		parts[rank] = p
	}
	return Gather(parts), nil
}
