package mpi

import (
	"log"
	"time"

	"github.com/edmelnikov/Distributed-Computing-course/network"
)

type netLink struct {
	conn *network.Connection
}

func (l *netLink) deliver(to int, msg Message) error {
	data, err := encodeMessage(msg)
	if err != nil {
		return err
	}
	l.conn.Out() <- append([]byte{byte(to)}, data...)
	return nil
}

func (l *netLink) close() error {
	l.conn.Close()
	return nil
}

/*
	Serve turns an established connection into an endpoint. Incoming frames are
	decoded and queued until a Receive asks for them.
*/
func Serve(conn *network.Connection) *Endpoint {
	box := newMailbox()
	go func() {
		in, lost := conn.In(), conn.Lost()
		for {
			select {
			case frame, ok := <-in:
				if !ok {
					box.close(ErrClosed)
					return
				}
				// In is drained until it closes, or the connection could not shut down.
				msg, err := decodeMessage(frame[1:])
				if err != nil {
					log.Println("process", conn.ID(), "could not decode message from", frame[0], ":", err)
					box.close(err)
					continue
				}
				if err := box.put(envelope{from: int(frame[0]), msg: msg}); err != nil {
					log.Println("process", conn.ID(), "dropped", Tag(msg.Tag), "of round", msg.Round, "from", frame[0], ":", err)
				}
			case <-lost:
				box.close(ErrPeerLost)
				lost = nil
			}
		}
	}()
	return newEndpoint(conn.ID(), conn.Size(), box, &netLink{conn})
}

// Listen starts rank 0 of a TCP world and returns when all size ranks have joined.
func Listen(addr string, size int) (*Endpoint, error) {
	conn, err := network.Listen(addr, size)
	if err != nil {
		return nil, err
	}
	if err := conn.Accept(); err != nil {
		return nil, err
	}
	return Serve(conn), nil
}

// Join connects to the rank 0 listening at addr and returns when the world is complete.
func Join(addr string, timeout time.Duration) (*Endpoint, error) {
	conn, err := network.Dial(addr, timeout)
	if err != nil {
		return nil, err
	}
	return Serve(conn), nil
}
