package mpi

import (
	"fmt"

	"github.com/Workiva/go-datastructures/bitarray"
)

// ReduceSum sends value to Root. Root collects one contribution from every
// other rank, in whatever order they arrive, and returns the sum. Other ranks
// get 0 back.
func (e *Endpoint) ReduceSum(round int, value int) (int, error) {
	if e.rank != Root {
		return 0, e.Send(Root, TagReduce, round, encodeInt(value))
	}
	contributed := bitarray.NewBitArray(uint64(e.size))
	if err := contributed.SetBit(Root); err != nil {
		return 0, err
	}
	total := value
	for n := 1; n < e.size; n++ {
		env, err := e.receive(AnySource, TagReduce, round)
		if err != nil {
			return 0, err
		}
		seen, err := contributed.GetBit(uint64(env.from))
		if err != nil {
			return 0, err
		}
		if seen {
			return 0, fmt.Errorf("%w: rank %d contributed twice to the reduction of round %d", ErrInvariantViolation, env.from, round)
		}
		if err := contributed.SetBit(uint64(env.from)); err != nil {
			return 0, err
		}
		v, err := decodeInt(env.msg.Data)
		if err != nil {
			return 0, err
		}
		total += v
	}
	return total, nil
}

// Broadcast sends flag from Root to every other rank. Non-root callers pass
// any value and get Root's back.
func (e *Endpoint) Broadcast(round int, flag bool) (bool, error) {
	if e.rank == Root {
		data := []int32{0}
		if flag {
			data[0] = 1
		}
		for to := 0; to < e.size; to++ {
			if to == Root {
				continue
			}
			if err := e.Send(to, TagBroadcast, round, data); err != nil {
				return false, err
			}
		}
		return flag, nil
	}
	data, err := e.Receive(Root, TagBroadcast, round)
	if err != nil {
		return false, err
	}
	if len(data) != 1 {
		return false, fmt.Errorf("%w: broadcast of round %d carried %d values", ErrInvariantViolation, round, len(data))
	}
	return data[0] != 0, nil
}

// Counts can exceed int32, so they travel as two words.
func encodeInt(v int) []int32 {
	u := uint64(int64(v))
	return []int32{int32(uint32(u >> 32)), int32(uint32(u))}
}

func decodeInt(data []int32) (int, error) {
	if len(data) != 2 {
		return 0, fmt.Errorf("%w: reduce contribution carried %d words", ErrInvariantViolation, len(data))
	}
	u := uint64(uint32(data[0]))<<32 | uint64(uint32(data[1]))
	return int(int64(u)), nil
}
