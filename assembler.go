package qz

import (
	"bytes"

	"github.com/cockroachdb/errors"
)

// ParseState is the progress of a [RequestAssembler].
type ParseState int

const (
	StateAwaitingRequestLine ParseState = iota
	StateAwaitingHeaders
	StateAwaitingBody
	StateCompleted
)

func (s ParseState) String() string {
	switch s {
	case StateAwaitingRequestLine:
		return "awaiting request line"
	case StateAwaitingHeaders:
		return "awaiting headers"
	case StateAwaitingBody:
		return "awaiting body"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

const (
	DefaultMaxHeaderBytes = 64 << 10
	DefaultMaxBodyBytes   = 2 << 20

	// maxBodyPrealloc caps the buffer reserved up front, the declared length is not trusted.
	maxBodyPrealloc = 64 << 10
)

// RequestAssembler turns a stream of arbitrarily split chunks into a single [Request]. Feed it every chunk
// read from the connection until it reports [StateCompleted] or an error.
type RequestAssembler struct {
	state     ParseState
	pending   []byte
	header    int
	remaining int
	req       *Request
	err       error

	maxHeaderBytes int
	maxBodyBytes   int
}

// AssemblerOption configures the assembler.
type AssemblerOption func(*RequestAssembler)

// WithMaxHeaderBytes limits the request line plus header section. Zero or less disables the limit.
func WithMaxHeaderBytes(n int) AssemblerOption {
	return func(a *RequestAssembler) { a.maxHeaderBytes = n }
}

// WithMaxBodyBytes limits the declared Content-Length. Zero or less disables the limit.
func WithMaxBodyBytes(n int) AssemblerOption {
	return func(a *RequestAssembler) { a.maxBodyBytes = n }
}

// NewAssembler inits an assembler in [StateAwaitingRequestLine].
func NewAssembler(opts ...AssemblerOption) *RequestAssembler {
	a := &RequestAssembler{
		req:            &Request{header: Header{}},
		maxHeaderBytes: DefaultMaxHeaderBytes,
		maxBodyBytes:   DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// State returns the current state.
func (a *RequestAssembler) State() ParseState { return a.state }

// Request returns the assembled request. It is nil until the state is [StateCompleted].
func (a *RequestAssembler) Request() *Request {
	if a.state != StateCompleted || a.err != nil {
		return nil
	}
	return a.req
}

// Feed appends a chunk and advances as far as the buffered bytes allow. Errors are terminal and carry the
// status code to answer with: every later call returns the same error. Once completed, further chunks are
// ignored.
func (a *RequestAssembler) Feed(chunk []byte) (ParseState, error) {
	if a.err != nil {
		return a.state, a.err
	}
	if a.state == StateCompleted {
		return a.state, nil
	}

	a.pending = append(a.pending, chunk...)

	consumed, err := a.advance()
	a.pending = a.pending[:copy(a.pending, a.pending[consumed:])]
	if err != nil {
		return a.fail(err)
	}

	if a.state != StateCompleted && a.state != StateAwaitingBody &&
		a.maxHeaderBytes > 0 && a.header+len(a.pending) > a.maxHeaderBytes {
		return a.fail(NewError(CodeRequestHeaderFieldsTooLarge, errors.Newf(
			"header section exceeds %d bytes", a.maxHeaderBytes)))
	}

	return a.state, nil
}

func (a *RequestAssembler) fail(err error) (ParseState, error) {
	a.err = err
	a.pending = nil
	return a.state, err
}

// advance consumes as many complete units from the pending bytes as possible and returns how many bytes
// were consumed.
func (a *RequestAssembler) advance() (int, error) {
	off := 0
	for {
		switch a.state {
		case StateAwaitingRequestLine, StateAwaitingHeaders:
			i := bytes.Index(a.pending[off:], crlf)
			if i < 0 {
				return off, nil
			}

			line := a.pending[off : off+i]
			off += i + len(crlf)
			a.header += i + len(crlf)

			if err := a.line(line); err != nil {
				return off, err
			}

		case StateAwaitingBody:
			n := min(a.remaining, len(a.pending)-off)
			a.req.body.data = append(a.req.body.data, a.pending[off:off+n]...)
			a.remaining -= n
			off += n

			if a.remaining > 0 {
				return off, nil
			}
			a.state = StateCompleted

		default:
			return off, nil
		}
	}
}

func (a *RequestAssembler) line(line []byte) error {
	if a.state == StateAwaitingRequestLine {
		method, uri, version, err := ParseRequestLine(line)
		if err != nil {
			return err
		}

		a.req.method, a.req.uri, a.req.version = method, bytes.Clone(uri), version
		a.state = StateAwaitingHeaders
		return nil
	}

	if len(line) == 0 {
		return a.endOfHeaders()
	}

	name, value, err := ParseHeaderLine(line)
	if err != nil {
		return err
	}

	a.req.header.Set(name, bytes.Clone(value))
	return nil
}

func (a *RequestAssembler) endOfHeaders() error {
	if _, ok := a.req.header.Get(HeaderTransferEncoding); ok {
		return NewError(CodeLengthRequired, errors.New("transfer-encoding is not supported, send a content-length"))
	}

	cl, ok := a.req.header.Get(HeaderContentLength)
	if !ok {
		a.state = StateCompleted
		return nil
	}

	n, err := parseContentLength(cl)
	if err != nil {
		return err
	}

	if a.maxBodyBytes > 0 && n > a.maxBodyBytes {
		return NewError(CodeRequestEntityTooLarge, errors.Newf("content length %d exceeds %d bytes", n, a.maxBodyBytes))
	}

	a.req.body = Body{data: make([]byte, 0, min(n, maxBodyPrealloc)), present: true}
	a.remaining = n
	a.state = StateAwaitingBody
	if n == 0 {
		a.state = StateCompleted
	}
	return nil
}
