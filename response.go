package qz

import (
	"bytes"
	"io"
	"strconv"
)

// Response is what a handler produces. It is serialized onto the connection by [Response.WriteTo].
type Response struct {
	code    Code
	version Version
	header  Header
	body    Body
}

// NewResponse creates a response with only a status line.
func NewResponse(c Code) *Response {
	return &Response{code: c, version: Version11, header: Header{}}
}

// Text creates a response with a text/plain body.
func Text(c Code, s string) *Response {
	resp := NewResponse(c)
	resp.SetHeader(HeaderContentType, "text/plain; charset=utf-8")
	resp.SetBody(BodyOf([]byte(s)))
	return resp
}

// Bytes creates a response with a body of the given content type.
func Bytes(c Code, contentType string, b []byte) *Response {
	resp := NewResponse(c)
	resp.SetHeader(HeaderContentType, contentType)
	resp.SetBody(BodyOf(b))
	return resp
}

func (r *Response) Code() Code           { return r.code }
func (r *Response) Version() Version     { return r.version }
func (r *Response) Header() Header       { return r.header }
func (r *Response) Body() Body           { return r.body }
func (r *Response) SetCode(c Code)       { r.code = c }
func (r *Response) SetVersion(v Version) { r.version = v }

// SetHeader sets a header value, replacing any previous value.
func (r *Response) SetHeader(name HeaderName, value string) { r.header.Set(name, []byte(value)) }

// DelHeader removes a header. Content-Length cannot be removed while a body is present.
func (r *Response) DelHeader(name HeaderName) {
	if name == HeaderContentLength && r.body.Present() {
		return
	}
	r.header.Del(name)
}

// HeaderValue returns the header value as a string and whether it was present.
func (r *Response) HeaderValue(name HeaderName) (string, bool) {
	v, ok := r.header.Get(name)
	return string(v), ok
}

// SetBody replaces the body and keeps Content-Length in sync with it.
func (r *Response) SetBody(b Body) {
	r.body = b
	if b.Present() {
		r.SetHeader(HeaderContentLength, strconv.Itoa(b.Len()))
	} else {
		r.header.Del(HeaderContentLength)
	}
}

// WriteTo serializes the response: status line, headers in catalog order, a blank line and the raw body.
// Content-Length is always derived from the body. The response is written with a single call to w.
func (r *Response) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.Grow(128 + r.body.Len())

	code := r.code
	if !code.Valid() {
		code = CodeInternalServerError
	}

	version := r.version
	if !version.Valid() {
		version = Version11
	}

	buf.WriteString(version.String())
	buf.WriteByte(' ')
	buf.WriteString(strconv.Itoa(int(code)))
	buf.WriteByte(' ')
	buf.WriteString(code.Reason())
	buf.WriteString("\r\n")

	for _, name := range r.header.Names() {
		if name == HeaderUnknown || name == HeaderContentLength {
			continue
		}
		writeHeaderLine(&buf, name, r.header[name])
	}

	writeHeaderLine(&buf, HeaderContentLength, strconv.AppendInt(nil, int64(r.body.Len()), 10))
	buf.WriteString("\r\n")
	buf.Write(r.body.Bytes())

	return buf.WriteTo(w)
}

func writeHeaderLine(buf *bytes.Buffer, name HeaderName, value []byte) {
	buf.WriteString(name.String())
	buf.WriteString(": ")
	for _, c := range value {
		if c == '\r' || c == '\n' {
			c = ' '
		}
		buf.WriteByte(c)
	}
	buf.WriteString("\r\n")
}
