package qz

import (
	"bytes"
	"strconv"

	"github.com/cockroachdb/errors"
)

var crlf = []byte("\r\n")

// ParseRequestLine parses "<method> SP <uri> SP <version>" without the trailing CRLF.
func ParseRequestLine(line []byte) (Method, []byte, Version, error) {
	if err := checkLine(line); err != nil {
		return 0, nil, 0, err
	}

	mtok, rest, ok := bytes.Cut(line, []byte{' '})
	if !ok {
		return 0, nil, 0, NewError(CodeBadRequest, errors.Newf("malformed request line %q", line))
	}

	uri, vtok, ok := bytes.Cut(rest, []byte{' '})
	if !ok || bytes.IndexByte(vtok, ' ') >= 0 {
		return 0, nil, 0, NewError(CodeBadRequest, errors.Newf("malformed request line %q", line))
	}

	method, err := parseMethodToken(mtok)
	if err != nil {
		return 0, nil, 0, err
	}

	if err := checkURI(uri); err != nil {
		return 0, nil, 0, err
	}

	version, err := ParseVersion(vtok)
	if err != nil {
		return 0, nil, 0, err
	}

	return method, uri, version, nil
}

// ParseHeaderLine parses "<name>: <value>". Whitespace around the value is trimmed.
func ParseHeaderLine(line []byte) (HeaderName, []byte, error) {
	if err := checkLine(line); err != nil {
		return 0, nil, err
	}

	name, value, ok := bytes.Cut(line, []byte{':'})
	if !ok {
		return 0, nil, NewError(CodeBadRequest, errors.Newf("header line without colon %q", line))
	}

	if len(name) == 0 {
		return 0, nil, NewError(CodeBadRequest, errors.New("empty header name"))
	}

	for _, c := range name {
		if !isTokenChar(c) {
			return 0, nil, NewError(CodeBadRequest, errors.Newf("invalid header name %q", name))
		}
	}

	return ParseHeaderName(name), bytes.Trim(value, " \t"), nil
}

// ParseStatusLine parses "<version> SP <code> SP <reason>" as written by [Response.WriteTo].
func ParseStatusLine(line []byte) (Version, Code, string, error) {
	vtok, rest, ok := bytes.Cut(line, []byte{' '})
	if !ok {
		return 0, 0, "", errors.Newf("malformed status line %q", line)
	}

	version, err := ParseVersion(vtok)
	if err != nil {
		return 0, 0, "", err
	}

	ctok, reason, _ := bytes.Cut(rest, []byte{' '})
	if len(ctok) != 3 {
		return 0, 0, "", errors.Newf("malformed status code %q", ctok)
	}

	code, err := strconv.Atoi(string(ctok))
	if err != nil {
		return 0, 0, "", errors.Wrapf(err, "malformed status code %q", ctok)
	}

	return version, Code(code), string(reason), nil
}

func parseContentLength(v []byte) (int, error) {
	if len(v) == 0 || len(v) > 18 {
		return 0, NewError(CodeLengthRequired, errors.Newf("invalid content length %q", v))
	}

	for _, c := range v {
		if !isDigit(c) {
			return 0, NewError(CodeLengthRequired, errors.Newf("invalid content length %q", v))
		}
	}

	n, err := strconv.Atoi(string(v))
	if err != nil {
		return 0, NewError(CodeLengthRequired, errors.Wrap(err, "parse content length"))
	}
	return n, nil
}

func parseMethodToken(tok []byte) (Method, error) {
	if len(tok) == 0 {
		return 0, NewError(CodeBadRequest, errors.New("empty method"))
	}

	for _, c := range tok {
		if c < 'A' || c > 'Z' {
			return 0, NewError(CodeBadRequest, errors.Newf("malformed method %q", tok))
		}
	}

	m, ok := ParseMethod(tok)
	if !ok {
		return 0, NewError(CodeMethodNotAllowed, errors.Newf("unsupported method %q", tok))
	}
	return m, nil
}

func checkURI(uri []byte) error {
	if len(uri) == 0 || uri[0] != '/' {
		return NewError(CodeBadRequest, errors.Newf("request target must start with '/': %q", uri))
	}

	for _, c := range uri {
		if c <= ' ' || c == 0x7f {
			return NewError(CodeBadRequest, errors.Newf("invalid byte in request target %q", uri))
		}
	}
	return nil
}

// checkLine rejects stray CR or LF bytes; a line must only be terminated by CRLF.
func checkLine(line []byte) error {
	if bytes.IndexByte(line, '\r') >= 0 || bytes.IndexByte(line, '\n') >= 0 {
		return NewError(CodeBadRequest, errors.New("bare CR or LF in line"))
	}
	return nil
}

func isTokenChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', isDigit(c):
		return true
	}

	switch c {
	case '!', '#', '$', '%', '&', '\'', '*', '+', '-', '.', '^', '_', '`', '|', '~':
		return true
	}
	return false
}
