package qz

import (
	"bytes"
	"encoding/json"
	"mime"
	"net/url"

	"github.com/cockroachdb/errors"
	"github.com/tidwall/gjson"
)

// Body is the payload of a message. A body is either absent, or present with zero or more bytes.
type Body struct {
	data    []byte
	present bool
}

// NoBody returns an absent body.
func NoBody() Body { return Body{} }

// BodyOf returns a present body holding b.
func BodyOf(b []byte) Body {
	if b == nil {
		b = []byte{}
	}
	return Body{data: b, present: true}
}

func (b Body) Present() bool { return b.present }
func (b Body) Bytes() []byte { return b.data }
func (b Body) Len() int      { return len(b.data) }

// Request is a fully assembled request. It is produced by the assembler and then owned by whichever
// middleware or handler currently processes it.
type Request struct {
	method  Method
	uri     []byte
	version Version
	header  Header
	body    Body
}

// NewRequest creates a request with the given method and uri, mostly useful for tests.
func NewRequest(m Method, uri string) *Request {
	return &Request{method: m, uri: []byte(uri), version: Version11, header: Header{}}
}

func (r *Request) Method() Method     { return r.method }
func (r *Request) URI() []byte        { return r.uri }
func (r *Request) Version() Version   { return r.version }
func (r *Request) Body() Body         { return r.body }
func (r *Request) Header() Header     { return r.header }
func (r *Request) SetMethod(m Method) { r.method = m }
func (r *Request) SetURI(uri []byte)  { r.uri = uri }
func (r *Request) SetBody(b Body)     { r.body = b }

// SetHeader sets a header value, replacing any previous value.
func (r *Request) SetHeader(name HeaderName, value string) { r.header.Set(name, []byte(value)) }

// DelHeader removes a header.
func (r *Request) DelHeader(name HeaderName) { r.header.Del(name) }

// HeaderValue returns the header value as a string and whether it was present.
func (r *Request) HeaderValue(name HeaderName) (string, bool) {
	v, ok := r.header.Get(name)
	return string(v), ok
}

// Path returns the uri without the query string.
func (r *Request) Path() []byte {
	if i := bytes.IndexByte(r.uri, '?'); i >= 0 {
		return r.uri[:i]
	}
	return r.uri
}

// Query parses the query string of the uri.
func (r *Request) Query() (url.Values, error) {
	i := bytes.IndexByte(r.uri, '?')
	if i < 0 {
		return url.Values{}, nil
	}

	vals, err := url.ParseQuery(string(r.uri[i+1:]))
	if err != nil {
		return nil, NewError(CodeBadRequest, errors.Wrap(err, "parse query"))
	}
	return vals, nil
}

// Form decodes an application/x-www-form-urlencoded body.
func (r *Request) Form() (url.Values, error) {
	if err := r.requireContentType("application/x-www-form-urlencoded"); err != nil {
		return nil, err
	}

	vals, err := url.ParseQuery(string(r.body.Bytes()))
	if err != nil {
		return nil, NewError(CodeBadRequest, errors.Wrap(err, "parse form"))
	}
	return vals, nil
}

// DecodeJSON decodes an application/json body into v.
func (r *Request) DecodeJSON(v any) error {
	if err := r.requireContentType("application/json"); err != nil {
		return err
	}

	if err := json.Unmarshal(r.body.Bytes(), v); err != nil {
		return NewError(CodeBadRequest, errors.Wrap(err, "decode json body"))
	}
	return nil
}

// JSONPath extracts a value from a json body using gjson path syntax (e.g. "user.name", "items.0").
func (r *Request) JSONPath(path string) gjson.Result {
	return gjson.GetBytes(r.body.Bytes(), path)
}

func (r *Request) requireContentType(want string) error {
	if !r.body.Present() {
		return NewError(CodeBadRequest, errors.New("request has no body"))
	}

	ct, ok := r.header.Get(HeaderContentType)
	if !ok {
		return NewError(CodeUnsupportedMediaType, errors.Newf("missing content type, want %q", want))
	}

	mt, _, err := mime.ParseMediaType(string(ct))
	if err != nil || mt != want {
		return NewError(CodeUnsupportedMediaType, errors.Newf("content type %q, want %q", ct, want))
	}
	return nil
}
