package network

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

// MaxProcs is the largest world a Connection can serve; ids travel as one byte.
const MaxProcs = 255

// maxFrame bounds the length a frame header may announce.
const maxFrame = 1 << 28

const (
	joinRequest byte = 0xff
	leaveNotice byte = 0xfe
)

var ErrWorldSize = fmt.Errorf("a world holds between 1 and %d processes", MaxProcs)

/*
	A Connection links one process to the others of a world.

	The manager (id 0) listens and accepts the hosts. Every host holds a single
	TCP connection to the manager, and the manager relays frames between hosts.
	Messages are exchanged through two channels. A message written to Out starts
	with the destination id followed by the payload. A message read from In
	starts with the source id followed by the payload.
*/
type Connection struct {
	myId, nrProcs int
	listener      net.Listener
	peers         []*peer
	in, out       chan []byte
	group         sync.WaitGroup
	closing       atomic.Bool
	closeOnce     sync.Once
	done          chan struct{}
	lost          chan struct{}
	lostOnce      sync.Once
}

type peer struct {
	id   int
	conn net.Conn
	mu   sync.Mutex
	left bool
}

func (p *peer) send(frame []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return write(p.conn, frame)
}

func newConnection(id, nrProcs int) *Connection {
	c := new(Connection)
	c.myId, c.nrProcs = id, nrProcs
	c.in, c.out = make(chan []byte, 1000), make(chan []byte, 1000)
	c.done = make(chan struct{})
	c.lost = make(chan struct{})
	return c
}

/*
	Listen creates the manager of a world of nrProcs processes, listening on addr.
	The world is not usable until Accept returns.
*/
func Listen(addr string, nrProcs int) (*Connection, error) {
	if nrProcs < 1 || nrProcs > MaxProcs {
		return nil, ErrWorldSize
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	c := newConnection(0, nrProcs)
	c.listener = listener
	c.peers = make([]*peer, nrProcs)
	return c, nil
}

func (c *Connection) Addr() net.Addr {
	return c.listener.Addr()
}

/*
	Accept blocks until all nrProcs-1 hosts have joined. Hosts get their ids in
	the order they connect, and nobody is told its id before everybody has
	joined, so no frame is ever relayed to a host the manager does not know yet.
*/
func (c *Connection) Accept() error {
	defer c.listener.Close()
	for id := 1; id < c.nrProcs; {
		conn, err := c.listener.Accept()
		if err != nil {
			c.closePeers()
			return err
		}
		hello, err := read(conn)
		if err != nil || len(hello) != 1 || hello[0] != joinRequest {
			conn.Close()
			log.Println("manager dropped a connection that did not ask to join:", err)
			continue
		}
		c.peers[id] = &peer{id: id, conn: conn}
		log.Println("manager accepted host", id, "from", conn.RemoteAddr())
		id++
	}
	for id := 1; id < c.nrProcs; id++ {
		if err := c.peers[id].send([]byte{byte(id), byte(c.nrProcs)}); err != nil {
			c.closePeers()
			return err
		}
	}
	for id := 1; id < c.nrProcs; id++ {
		c.group.Add(1)
		go c.receive(c.peers[id])
	}
	c.start()
	return nil
}

/*
	Dial joins the world managed at addr. The manager may not be up yet, so the
	dial is retried until timeout has passed. Dial returns once the manager has
	assigned an id, which happens when the whole world has joined.
*/
func Dial(addr string, timeout time.Duration) (*Connection, error) {
	deadline := time.Now().Add(timeout)
	var conn net.Conn
	var err error
	for {
		conn, err = net.DialTimeout("tcp", addr, time.Second)
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("could not reach manager at %s: %w", addr, err)
		}
		time.Sleep(100 * time.Millisecond)
	}
	if err := write(conn, []byte{joinRequest}); err != nil {
		conn.Close()
		return nil, err
	}
	welcome, err := read(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if len(welcome) != 2 {
		conn.Close()
		return nil, fmt.Errorf("malformed welcome from manager: % x", welcome)
	}
	c := newConnection(int(welcome[0]), int(welcome[1]))
	c.peers = []*peer{{id: 0, conn: conn}}
	c.group.Add(1)
	go c.receive(c.peers[0])
	c.start()
	return c, nil
}

func (c *Connection) start() {
	c.group.Add(1)
	go c.sendLoop()
	go func() {
		c.group.Wait()
		close(c.in)
		close(c.done)
	}()
}

func (c *Connection) ID() int { return c.myId }

func (c *Connection) Size() int { return c.nrProcs }

func (c *Connection) In() <-chan []byte { return c.in }

func (c *Connection) Out() chan<- []byte { return c.out }

/*
	Lost is closed when the world breaks down before this process closes: for
	the manager, a host dropped its connection without leaving; for a host, the
	manager went away, since nothing can reach a host without it.
*/
func (c *Connection) Lost() <-chan struct{} { return c.lost }

func (c *Connection) markLost() {
	c.lostOnce.Do(func() { close(c.lost) })
}

/*
	Close stops sending, closes the sockets and waits until In is closed.
	Frames already written to Out are flushed first.
*/
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.out)
	})
	<-c.done
}

/*
	sendLoop turns messages from Out into frames [dest, src, payload...].
*/
func (c *Connection) sendLoop() {
	defer c.group.Done()
	for msg := range c.out {
		if len(msg) == 0 {
			continue
		}
		frame := make([]byte, len(msg)+1)
		frame[0] = msg[0]
		frame[1] = byte(c.myId)
		copy(frame[2:], msg[1:])
		c.route(frame)
	}
	c.closing.Store(true)
	for _, p := range c.peers {
		if p != nil {
			p.send([]byte{leaveNotice})
		}
	}
	c.closePeers()
}

/*
	receive reads frames from one peer. Frames for this process go to In, the
	manager relays the rest.
*/
func (c *Connection) receive(p *peer) {
	defer c.group.Done()
	for {
		frame, err := read(p.conn)
		if err != nil {
			if !c.closing.Load() && !p.left {
				if !errors.Is(err, io.EOF) {
					log.Println("process", c.myId, "lost peer", p.id, ":", err)
				}
				c.markLost()
			}
			return
		}
		if len(frame) == 1 && frame[0] == leaveNotice {
			p.left = true
			if c.myId != 0 && !c.closing.Load() {
				c.markLost()
			}
			continue
		}
		if len(frame) < 2 {
			continue
		}
		c.route(frame)
	}
}

func (c *Connection) route(frame []byte) {
	dest := int(frame[0])
	switch {
	case dest == c.myId:
		c.in <- frame[1:]
	case dest >= c.nrProcs:
		log.Println("process", c.myId, "dropped frame for unknown process", dest)
	case c.myId == 0:
		if err := c.peers[dest].send(frame); err != nil && !c.closing.Load() {
			log.Println("manager could not relay to host", dest, ":", err)
		}
	default:
		if err := c.peers[0].send(frame); err != nil && !c.closing.Load() {
			log.Println("host", c.myId, "could not reach manager:", err)
		}
	}
}

func (c *Connection) closePeers() {
	for _, p := range c.peers {
		if p != nil {
			p.conn.Close()
		}
	}
}

func write(conn net.Conn, data []byte) error {
	if len(data) > maxFrame {
		return fmt.Errorf("frame of %d bytes exceeds limit of %d", len(data), maxFrame)
	}
	l := make([]byte, 8, 8+len(data))
	binary.PutVarint(l, int64(len(data)))
	_, err := conn.Write(append(l, data...))
	return err
}

func read(conn net.Conn) ([]byte, error) {
	length := make([]byte, 8)
	if _, err := io.ReadFull(conn, length); err != nil {
		return nil, err
	}
	l, n := binary.Varint(length)
	if n <= 0 || l < 0 {
		return nil, fmt.Errorf("malformed frame length % x", length)
	}
	if l > maxFrame {
		return nil, fmt.Errorf("frame of %d bytes exceeds limit of %d", l, maxFrame)
	}
	msg := make([]byte, l)
	if _, err := io.ReadFull(conn, msg); err != nil {
		return nil, err
	}
	return msg, nil
}
