package oddeven

import "fmt"

type Role int

const (
	Idle Role = iota
	Receiver
	Sender
	TailSorter
)

func (r Role) String() string {
	switch r {
	case Idle:
		return "idle"
	case Receiver:
		return "receiver"
	case Sender:
		return "sender"
	case TailSorter:
		return "tail-sorter"
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// Assignment is what a rank does in one round. Partner is -1 unless the role
// is Receiver or Sender.
type Assignment struct {
	Role    Role
	Partner int
}

func (a Assignment) String() string {
	if a.Partner < 0 {
		return a.Role.String()
	}
	return fmt.Sprintf("%s(%d)", a.Role, a.Partner)
}

var none = Assignment{Idle, -1}

/*
	Assign returns the role of rank in round for a world of p ranks.

	Even rounds pair (0,1), (2,3), ...; odd rounds pair (1,2), (3,4), ... and in
	each pair the left rank receives. The last rank is never a receiver, so it
	sorts its own partition in the round parity where it has no partner: odd
	rounds when p is even or 1, even rounds when p is odd.
*/
func Assign(round, rank, p int) Assignment {
	if rank < 0 || rank >= p {
		return none
	}
	last := rank == p-1
	if round%2 == 0 {
		switch {
		case rank%2 == 0 && rank+1 < p:
			return Assignment{Receiver, rank + 1}
		case rank%2 != 0:
			return Assignment{Sender, rank - 1}
		case last && p > 1:
			return Assignment{TailSorter, -1}
		}
		return none
	}
	switch {
	case rank%2 != 0 && rank+1 < p:
		return Assignment{Receiver, rank + 1}
	case last && (p%2 == 0 || p == 1):
		return Assignment{TailSorter, -1}
	case rank%2 == 0 && rank-1 > 0:
		return Assignment{Sender, rank - 1}
	}
	return none
}

/*
	ValidatePairing checks, for both round parities, that every receiver's
	partner derives the matching sender role and the other way round. A rank
	waiting on a partner that does not answer blocks the whole world forever,
	so this runs once before round 0.
*/
func ValidatePairing(p int) error {
	if p < 1 {
		return fmt.Errorf("%w: need at least one participant, got %d", ErrConfiguration, p)
	}
	for parity := 0; parity < 2; parity++ {
		for rank := 0; rank < p; rank++ {
			a := Assign(parity, rank, p)
			var want Role
			switch a.Role {
			case Receiver:
				want = Sender
			case Sender:
				want = Receiver
			default:
				if a.Partner != -1 {
					return fmt.Errorf("%w: rank %d is %s with partner %d", ErrProtocolMismatch, rank, a.Role, a.Partner)
				}
				continue
			}
			if a.Partner < 0 || a.Partner >= p || a.Partner == rank {
				return fmt.Errorf("%w: rank %d is %s with partner %d in a world of %d", ErrProtocolMismatch, rank, a, a.Partner, p)
			}
			b := Assign(parity, a.Partner, p)
			if b.Role != want || b.Partner != rank {
				return fmt.Errorf("%w: in %s rounds rank %d is %s but rank %d is %s",
					ErrProtocolMismatch, parityName(parity), rank, a, a.Partner, b)
			}
		}
	}
	return nil
}

func parityName(round int) string {
	if round%2 == 0 {
		return "even"
	}
	return "odd"
}
