package oddeven

import (
	"fmt"

	"github.com/edmelnikov/Distributed-Computing-course/mpi"
)

// Participant is one rank's state across rounds: its partition and the
// coupled buffer it sorts when it is a receiver.
type Participant struct {
	comm    mpi.Comm
	part    []int32
	coupled []int32
	chunk   int
}

func NewParticipant(comm mpi.Comm, part []int32, chunk int) (*Participant, error) {
	if chunk < 1 || chunk > len(part) {
		return nil, fmt.Errorf("%w: chunk size %d for a partition of %d values", ErrConfiguration, chunk, len(part))
	}
	return &Participant{
		comm:    comm,
		part:    part,
		coupled: make([]int32, len(part)+chunk),
		chunk:   chunk,
	}, nil
}

func (pt *Participant) Partition() []int32 {
	return pt.part
}

// Exchange plays one round and returns the number of swaps this rank made.
func (pt *Participant) Exchange(round int) (int, error) {
	a := Assign(round, pt.comm.Rank(), pt.comm.Size())
	switch a.Role {
	case Receiver:
		return pt.receive(round, a.Partner)
	case Sender:
		return 0, pt.send(round, a.Partner)
	case TailSorter:
		return SortInPlace(pt.part), nil
	}
	return 0, nil
}

/*
	receive appends the partner's chunk to a copy of the partition, sorts the
	whole coupled buffer, keeps the lower part and returns the upper part.
*/
func (pt *Participant) receive(round, partner int) (int, error) {
	s := len(pt.part)
	if len(pt.coupled) != s+pt.chunk {
		return 0, fmt.Errorf("%w: coupled buffer holds %d values, expected %d", ErrInvariantViolation, len(pt.coupled), s+pt.chunk)
	}
	chunk, err := pt.comm.Receive(partner, mpi.TagChunk, round)
	if err != nil {
		return 0, err
	}
	if len(chunk) != pt.chunk {
		return 0, fmt.Errorf("%w: rank %d sent a chunk of %d values in round %d, expected %d",
			ErrInvariantViolation, partner, len(chunk), round, pt.chunk)
	}
	copy(pt.coupled[:s], pt.part)
	copy(pt.coupled[s:], chunk)
	swaps := SortInPlace(pt.coupled)
	copy(pt.part, pt.coupled[:s])
	if err := pt.comm.Send(partner, mpi.TagCorrected, round, pt.coupled[s:]); err != nil {
		return 0, err
	}
	return swaps, nil
}

// send ships the first chunk of the partition to the left partner and takes
// back whatever it returns.
func (pt *Participant) send(round, partner int) error {
	if err := pt.comm.Send(partner, mpi.TagChunk, round, pt.part[:pt.chunk]); err != nil {
		return err
	}
	corrected, err := pt.comm.Receive(partner, mpi.TagCorrected, round)
	if err != nil {
		return err
	}
	if len(corrected) != pt.chunk {
		return fmt.Errorf("%w: rank %d returned %d values in round %d, expected %d",
			ErrInvariantViolation, partner, len(corrected), round, pt.chunk)
	}
	copy(pt.part[:pt.chunk], corrected)
	return nil
}
