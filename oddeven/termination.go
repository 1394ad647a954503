package oddeven

import "github.com/edmelnikov/Distributed-Computing-course/mpi"

// Decision is the outcome of one round. Total is the summed swap count and is
// only known on the root; Stop is the same on every rank.
type Decision struct {
	Total int
	Stop  bool
}

type Detector struct {
	comm mpi.Comm
}

func NewDetector(comm mpi.Comm) *Detector {
	return &Detector{comm}
}

/*
	Converged is the root's rule: stop on an even round after round 0 whose
	total is zero. Odd rounds are never checked, even when their total is zero.
*/
func Converged(round, total int) bool {
	return round%2 == 0 && round > 0 && total == 0
}

// Check sums local over all ranks on the root, lets the root decide, and
// broadcasts the decision. Every rank must call it once per round.
func (d *Detector) Check(round, local int) (Decision, error) {
	total, err := d.comm.ReduceSum(round, local)
	if err != nil {
		return Decision{}, err
	}
	stop := d.comm.Rank() == mpi.Root && Converged(round, total)
	stop, err = d.comm.Broadcast(round, stop)
	if err != nil {
		return Decision{}, err
	}
	return Decision{Total: total, Stop: stop}, nil
}
