package mpi

import (
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/edmelnikov/Distributed-Computing-course/trace"
)

// link carries messages from one endpoint to the mailbox of another rank.
type link interface {
	deliver(to int, msg Message) error
	close() error
}

// Endpoint is one rank's view of a world. It is used by a single goroutine.
type Endpoint struct {
	rank, size int
	box        *mailbox
	link       link
	logger     *trace.CSVStructLogger
	closed     atomic.Bool
}

func newEndpoint(rank, size int, box *mailbox, l link) *Endpoint {
	return &Endpoint{rank: rank, size: size, box: box, link: l}
}

func (e *Endpoint) Rank() int { return e.rank }

func (e *Endpoint) Size() int { return e.size }

// SetLogger makes the endpoint log every message it sends.
func (e *Endpoint) SetLogger(l *trace.CSVStructLogger) {
	e.logger = l
}

func (e *Endpoint) Send(to int, tag Tag, round int, data []int32) error {
	if to < 0 || to >= e.size {
		return fmt.Errorf("%w: rank %d sending %s to rank %d outside world of %d", ErrProtocolMismatch, e.rank, tag, to, e.size)
	}
	if e.closed.Load() {
		return ErrClosed
	}
	msg := Message{Tag: uint8(tag), Round: int32(round), Data: slices.Clone(data)}
	if e.logger != nil {
		e.logger.Log(Traffic{From: e.rank, To: to, Tag: tag, Round: round, Len: len(data)}, TrafficEncoder{})
	}
	return e.link.deliver(to, msg)
}

func (e *Endpoint) Receive(from int, tag Tag, round int) ([]int32, error) {
	env, err := e.receive(from, tag, round)
	if err != nil {
		return nil, err
	}
	return env.msg.Data, nil
}

func (e *Endpoint) receive(from int, tag Tag, round int) (envelope, error) {
	if from != AnySource && (from < 0 || from >= e.size) {
		return envelope{}, fmt.Errorf("%w: rank %d receiving %s from rank %d outside world of %d", ErrProtocolMismatch, e.rank, tag, from, e.size)
	}
	env, err := e.box.take(from, tag)
	if err != nil {
		return envelope{}, err
	}
	if int(env.msg.Round) != round {
		return envelope{}, fmt.Errorf("%w: rank %d expected %s of round %d from rank %d, got round %d",
			ErrProtocolMismatch, e.rank, tag, round, env.from, env.msg.Round)
	}
	return env, nil
}

func (e *Endpoint) Close() error {
	if e.closed.Swap(true) {
		return nil
	}
	e.box.close(ErrClosed)
	return e.link.close()
}

// Traffic is one logged message.
type Traffic struct {
	From, To int
	Tag      Tag
	Round    int
	Len      int
}

type TrafficEncoder struct{}

func (TrafficEncoder) GetHeaders(s interface{}) []string {
	return []string{"From", "To", "Tag", "Round", "Len"}
}

func (TrafficEncoder) GetValues(s interface{}) []string {
	t := s.(Traffic)
	return []string{fmt.Sprint(t.From), fmt.Sprint(t.To), t.Tag.String(), fmt.Sprint(t.Round), fmt.Sprint(t.Len)}
}
