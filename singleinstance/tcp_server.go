package singleinstance

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"sync"
	"time"
)

const (
	residentHost = "127.0.0.1"
	pingRequest  = "PING\n"
	pongResponse = "PONG\n"

	captureRequest = "CAPTURE\n"
	rectRequest    = "RECT\n"
	resultStatus   = "RESULT\n"
	errorStatus    = "ERROR\n"
)

// tcpServer implements Server over TCP loopback.
type tcpServer struct {
	lis      net.Listener
	incoming chan *tcpConn
	closed   chan struct{}
	closeOne sync.Once
	port     int
}

func newTCPServer() Server {
	return &tcpServer{
		incoming: make(chan *tcpConn, 8),
		closed:   make(chan struct{}),
	}
}

// Start binds only the start port of the configured range. If it is
// occupied another instance is resident, and the bind fails.
func (s *tcpServer) Start(ctx context.Context) error {
	if s.lis != nil {
		return nil
	}
	start, _ := getPortRange()
	addr := fmt.Sprintf("%s:%d", residentHost, start)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		log.Printf("singleinstance: failed to bind %s: %v", addr, err)
		return err
	}
	s.lis = lis
	s.port = start
	log.Printf("singleinstance: listening on %s", addr)
	go s.acceptLoop(ctx, lis)
	return nil
}

// Port returns the bound port (0 if not started).
func (s *tcpServer) Port() int { return s.port }

func (s *tcpServer) acceptLoop(ctx context.Context, lis net.Listener) {
	for {
		c, err := lis.Accept()
		if err != nil {
			return
		}
		remote := c.RemoteAddr().String()
		_ = c.SetDeadline(time.Now().Add(3 * time.Second))
		br := bufio.NewReader(c)
		line, _ := br.ReadString('\n')
		bw := bufio.NewWriter(c)
		if line == pingRequest {
			_, _ = bw.WriteString(pongResponse)
			_ = bw.Flush()
			_ = c.Close()
			continue
		}
		if line != captureRequest && line != rectRequest {
			log.Printf("singleinstance: unknown request %q from %s", line, remote)
			_ = c.Close()
			continue
		}
		// Capture requests block until the user finishes selecting, so
		// drop the read deadline.
		_ = c.SetDeadline(time.Time{})
		req := Request{WantImage: line == captureRequest}
		log.Printf("singleinstance: capture request from %s wantImage=%v", remote, req.WantImage)
		// The incoming channel is never closed; Close signals shutdown via
		// the closed channel so a blocked send here cannot panic.
		select {
		case s.incoming <- &tcpConn{c: c, req: req, w: bw}:
		case <-s.closed:
			_ = c.Close()
			return
		case <-ctx.Done():
			_ = c.Close()
			return
		}
	}
}

func (s *tcpServer) Next(ctx context.Context) (Conn, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.closed:
		return nil, net.ErrClosed
	case tc := <-s.incoming:
		return tc, nil
	}
}

func (s *tcpServer) Close() error {
	s.closeOne.Do(func() {
		close(s.closed)
		if s.lis != nil {
			_ = s.lis.Close()
			s.lis = nil
		}
		// Drain requests that were queued but never picked up.
		for {
			select {
			case tc := <-s.incoming:
				_ = tc.Close()
			default:
				return
			}
		}
	})
	return nil
}

type tcpConn struct {
	c   net.Conn
	req Request
	w   *bufio.Writer
}

func (tc *tcpConn) Request() Request { return tc.req }

// RespondResult writes RESULT, a JSON line describing the region, then
// the raw PNG bytes (if requested) followed by EOF.
func (tc *tcpConn) RespondResult(res Result) error {
	header, err := json.Marshal(res)
	if err != nil {
		return err
	}
	if _, err := tc.w.WriteString(resultStatus); err != nil {
		return err
	}
	if _, err := tc.w.Write(append(header, '\n')); err != nil {
		return err
	}
	if tc.req.WantImage && len(res.PNG) > 0 {
		if _, err := tc.w.Write(res.PNG); err != nil {
			return err
		}
	}
	return tc.w.Flush()
}

func (tc *tcpConn) RespondError(msg string) error {
	if _, err := tc.w.WriteString(errorStatus + msg); err != nil {
		return err
	}
	return tc.w.Flush()
}

func (tc *tcpConn) Close() error { return tc.c.Close() }
