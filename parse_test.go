package qz_test

import (
	"testing"

	"github.com/advdv/qz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequestLine(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		m, uri, v, err := qz.ParseRequestLine([]byte("POST /items?x=1 HTTP/1.1"))
		require.NoError(t, err)
		assert.Equal(t, qz.MethodPost, m)
		assert.Equal(t, "/items?x=1", string(uri))
		assert.Equal(t, qz.Version11, v)
	})

	for _, tt := range []struct {
		line string
		exp  qz.Code
	}{
		{"GET /", qz.CodeBadRequest},
		{"GET  / HTTP/1.1", qz.CodeBadRequest},
		{"GET / HTTP/1.1 extra", qz.CodeBadRequest},
		{"get / HTTP/1.1", qz.CodeBadRequest},
		{"BREW / HTTP/1.1", qz.CodeMethodNotAllowed},
		{"GET foo HTTP/1.1", qz.CodeBadRequest},
		{"GET / HTTP/2.0", qz.CodeHTTPVersionNotSupported},
		{"GET / HTTP/1.0", qz.CodeHTTPVersionNotSupported},
		{"GET / HTTPS/1.1", qz.CodeBadRequest},
		{"GET /\x01 HTTP/1.1", qz.CodeBadRequest},
		{"GET / HTTP/1.1\r", qz.CodeBadRequest},
		{"", qz.CodeBadRequest},
	} {
		t.Run(tt.line, func(t *testing.T) {
			_, _, _, err := qz.ParseRequestLine([]byte(tt.line))
			require.Error(t, err)
			assert.Equal(t, tt.exp, qz.CodeOf(err))
		})
	}
}

func TestParseHeaderLine(t *testing.T) {
	for _, tt := range []struct {
		line     string
		expName  qz.HeaderName
		expValue string
	}{
		{"Host: localhost", qz.HeaderHost, "localhost"},
		{"content-length:5", qz.HeaderContentLength, "5"},
		{"CONTENT-TYPE: \t text/html  ", qz.HeaderContentType, "text/html"},
		{"X-Custom: foo", qz.HeaderUnknown, "foo"},
		{"Origin: http://a:8080", qz.HeaderOrigin, "http://a:8080"},
		{"Empty:", qz.HeaderUnknown, ""},
	} {
		t.Run(tt.line, func(t *testing.T) {
			name, value, err := qz.ParseHeaderLine([]byte(tt.line))
			require.NoError(t, err)
			assert.Equal(t, tt.expName, name)
			assert.Equal(t, tt.expValue, string(value))
		})
	}

	for _, line := range []string{"Host localhost", ": value", "Host : localhost", "Ho st: x", "Host: a\nb"} {
		t.Run("invalid "+line, func(t *testing.T) {
			_, _, err := qz.ParseHeaderLine([]byte(line))
			require.Error(t, err)
			assert.Equal(t, qz.CodeBadRequest, qz.CodeOf(err))
		})
	}
}

func TestParseStatusLine(t *testing.T) {
	v, c, reason, err := qz.ParseStatusLine([]byte("HTTP/1.1 404 Not Found"))
	require.NoError(t, err)
	assert.Equal(t, qz.Version11, v)
	assert.Equal(t, qz.CodeNotFound, c)
	assert.Equal(t, "Not Found", reason)

	_, _, _, err = qz.ParseStatusLine([]byte("HTTP/1.1 20 OK"))
	require.Error(t, err)
	_, _, _, err = qz.ParseStatusLine([]byte("garbage"))
	require.Error(t, err)
}

func TestHeaderNameCatalog(t *testing.T) {
	assert.Equal(t, qz.HeaderWWWAuthenticate, qz.HeaderByString("www-authenticate"))
	assert.Equal(t, qz.HeaderAccessControlAllowOrigin, qz.HeaderByString("ACCESS-CONTROL-ALLOW-ORIGIN"))
	assert.Equal(t, "Content-Length", qz.HeaderContentLength.String())
	assert.Equal(t, qz.HeaderUnknown, qz.HeaderByString("X-Forwarded-For"))
}

func TestParseMethod(t *testing.T) {
	m, ok := qz.ParseMethod([]byte("OPTIONS"))
	require.True(t, ok)
	assert.Equal(t, qz.MethodOptions, m)
	assert.Equal(t, "OPTIONS", m.String())

	_, ok = qz.ParseMethod([]byte("options"))
	assert.False(t, ok)
}
