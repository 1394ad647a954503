package oddeven

import (
	"errors"

	"github.com/edmelnikov/Distributed-Computing-course/mpi"
)

var (
	// ErrConfiguration is returned before round 0 for a configuration no run can use.
	ErrConfiguration = errors.New("configuration error")
	// ErrProtocolMismatch means two ranks disagree about who talks to whom.
	ErrProtocolMismatch = mpi.ErrProtocolMismatch
	// ErrInvariantViolation means a buffer or message had the wrong shape.
	ErrInvariantViolation = mpi.ErrInvariantViolation
)
