package oddeven

import (
	"fmt"
	"log"
	"time"

	"github.com/edmelnikov/Distributed-Computing-course/mpi"
	"github.com/edmelnikov/Distributed-Computing-course/trace"
)

type phase int

const (
	running phase = iota
	terminal
)

// RoundState is the only state shared by all ranks. It changes in lockstep
// because Stop is only ever set from the broadcast.
type RoundState struct {
	Round int
	Stop  bool
}

func (rs RoundState) phase() phase {
	if rs.Stop {
		return terminal
	}
	return running
}

func (rs RoundState) next(d Decision) RoundState {
	if d.Stop {
		return RoundState{Round: rs.Round, Stop: true}
	}
	return RoundState{Round: rs.Round + 1}
}

// Result of a run. Sorted and Totals are only set on the root.
type Result struct {
	Sorted    []int32
	Partition []int32
	// Rounds is the number of rounds played, the terminal one included.
	Rounds int
	// Elapsed spans round 0 up to the terminal broadcast.
	Elapsed time.Duration
	// Totals holds the summed swap count of every round.
	Totals []int
}

type Sorter struct {
	comm mpi.Comm
	cfg  Config
	// Trace, if set, receives one RoundStat per round on the root.
	Trace *trace.CSVStructLogger
}

func NewSorter(comm mpi.Comm, cfg Config) *Sorter {
	return &Sorter{comm: comm, cfg: cfg}
}

/*
	Run sorts the sequence held by the root. global is ignored on other ranks.
	Every check that can fail without talking to other ranks runs before the
	first message is sent.
*/
func (s *Sorter) Run(global []int32) (Result, error) {
	if err := s.cfg.Validate(); err != nil {
		return Result{}, err
	}
	if s.cfg.Participants != s.comm.Size() {
		return Result{}, fmt.Errorf("%w: configured for %d participants, world has %d",
			ErrConfiguration, s.cfg.Participants, s.comm.Size())
	}
	if err := ValidatePairing(s.comm.Size()); err != nil {
		return Result{}, err
	}
	part, err := Distribute(s.comm, s.cfg, global)
	if err != nil {
		return Result{}, err
	}
	pt, err := NewParticipant(s.comm, part, s.cfg.ChunkSize())
	if err != nil {
		return Result{}, err
	}
	det := NewDetector(s.comm)
	root := s.comm.Rank() == mpi.Root

	var res Result
	rs := RoundState{}
	start := time.Now()
	for rs.phase() == running {
		local, err := pt.Exchange(rs.Round)
		if err != nil {
			return Result{}, fmt.Errorf("round %d: %w", rs.Round, err)
		}
		d, err := det.Check(rs.Round, local)
		if err != nil {
			return Result{}, fmt.Errorf("round %d: %w", rs.Round, err)
		}
		if root {
			res.Totals = append(res.Totals, d.Total)
			if s.Trace != nil {
				s.Trace.Log(RoundStat{Round: rs.Round, Total: d.Total, Elapsed: time.Since(start)}, RoundEncoder{})
			}
		}
		rs = rs.next(d)
	}
	res.Elapsed = time.Since(start)
	res.Rounds = rs.Round + 1
	res.Partition = pt.Partition()

	sorted, err := Collect(s.comm, pt.Partition())
	if err != nil {
		return Result{}, err
	}
	res.Sorted = sorted
	if root {
		log.Printf("sorted %d values on %d participants in %d rounds (%v)", s.cfg.Length, s.comm.Size(), res.Rounds, res.Elapsed)
	}
	return res, nil
}

// RoundStat is one line of the round trace.
type RoundStat struct {
	Round   int
	Total   int
	Elapsed time.Duration
}

type RoundEncoder struct{}

func (RoundEncoder) GetHeaders(s interface{}) []string {
	return []string{"Round", "Total", "Elapsed"}
}

func (RoundEncoder) GetValues(s interface{}) []string {
	r := s.(RoundStat)
	return []string{fmt.Sprint(r.Round), fmt.Sprint(r.Total), fmt.Sprintf("%.6f", r.Elapsed.Seconds())}
}
