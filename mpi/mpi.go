/*
	Package mpi is a small message-passing layer in the spirit of MPI. A Comm is
	the explicit context of one participant: its rank, the size of the world,
	blocking point-to-point send and receive, and the two collectives the sort
	needs (a sum reduction to the root and a broadcast from the root).

	Two worlds are provided. NewLocalWorld connects ranks running as goroutines
	in one process. Listen and Join connect ranks running as separate processes
	over TCP, with rank 0 acting as manager and relay.
*/
package mpi

import (
	"errors"
	"fmt"
)

// Root is the coordinator rank.
const Root = 0

// AnySource matches a message from any rank in Receive.
const AnySource = -1

type Tag uint8

const (
	TagScatter Tag = iota
	TagGather
	TagChunk
	TagCorrected
	TagReduce
	TagBroadcast
)

func (t Tag) String() string {
	switch t {
	case TagScatter:
		return "scatter"
	case TagGather:
		return "gather"
	case TagChunk:
		return "chunk"
	case TagCorrected:
		return "corrected"
	case TagReduce:
		return "reduce"
	case TagBroadcast:
		return "broadcast"
	}
	return fmt.Sprintf("tag(%d)", uint8(t))
}

var (
	ErrClosed             = errors.New("communicator closed")
	ErrPeerLost           = errors.New("lost connection to a peer")
	ErrProtocolMismatch   = errors.New("protocol mismatch")
	ErrInvariantViolation = errors.New("invariant violation")
)

// Message is the only payload that travels between ranks. Round stamps the
// message with the sender's round so a receiver can detect crossed pairings.
type Message struct {
	Tag   uint8
	Round int32
	Data  []int32
}

type Comm interface {
	Rank() int
	Size() int
	// Send ships a copy of data to rank to. It does not wait for a matching receive.
	Send(to int, tag Tag, round int, data []int32) error
	// Receive blocks until a message with the given tag arrives from rank from.
	Receive(from int, tag Tag, round int) ([]int32, error)
	// ReduceSum adds value over all ranks. The total is only meaningful on Root.
	ReduceSum(round int, value int) (int, error)
	// Broadcast returns the flag passed by Root on every rank.
	Broadcast(round int, flag bool) (bool, error)
	Close() error
}

var _ Comm = new(Endpoint)
