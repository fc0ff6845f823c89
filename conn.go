package qz

import (
	"context"
	"io"
	"net"
	"time"

	"github.com/cockroachdb/errors"
)

// errDisconnected marks a peer that went away before sending a complete request.
var errDisconnected = errors.New("peer disconnected before request was complete")

func (s *Server) serveConn(conn net.Conn) {
	defer func() {
		if v := recover(); v != nil {
			s.logs.LogUnhandledServeError(errors.Newf("panic while serving connection from %s: %v", conn.RemoteAddr(), v))
		}
		s.untrackConn(conn)
		conn.Close()
	}()

	ctx, cancel := context.WithCancel(s.baseCtx)
	defer cancel()

	req, err := s.readRequest(conn)
	switch {
	case errors.Is(err, errDisconnected):
		return
	case CodeOf(err) != CodeUnknown:
		s.logs.LogParseError(err)
		s.writeResponse(conn, ErrorResponse(err))
		return
	case err != nil:
		s.logs.LogTransportError(err)
		return
	}

	s.writeResponse(conn, s.Respond(ctx, req))
}

// readRequest feeds everything read from conn to a fresh assembler until the request is complete.
func (s *Server) readRequest(conn net.Conn) (*Request, error) {
	if s.cfg.ReadTimeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout)); err != nil {
			return nil, errors.Wrap(err, "set read deadline")
		}
	}

	asm := NewAssembler(WithMaxHeaderBytes(s.cfg.MaxHeaderBytes), WithMaxBodyBytes(s.cfg.MaxBodyBytes))
	buf := make([]byte, s.cfg.ReadBufferSize)

	for {
		n, err := conn.Read(buf)
		if n > 0 {
			state, ferr := asm.Feed(buf[:n])
			if ferr != nil {
				return nil, ferr
			}
			if state == StateCompleted {
				return asm.Request(), nil
			}
		}

		switch {
		case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed), err == nil && n == 0:
			return nil, errDisconnected
		case err != nil:
			return nil, errors.Wrapf(err, "read request (%s)", asm.State())
		}
	}
}

func (s *Server) writeResponse(conn net.Conn, resp *Response) {
	resp.SetHeader(HeaderConnection, "close")

	if s.cfg.WriteTimeout > 0 {
		if err := conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout)); err != nil {
			s.logs.LogTransportError(errors.Wrap(err, "set write deadline"))
			return
		}
	}

	if _, err := resp.WriteTo(conn); err != nil {
		s.logs.LogTransportError(errors.Wrap(err, "write response"))
	}
}
