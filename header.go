package qz

import (
	"bytes"
	"sort"
)

// HeaderName identifies a header from the catalog of names this server knows about. Names outside the
// catalog all collapse into [HeaderUnknown].
type HeaderName uint8

const (
	HeaderUnknown HeaderName = iota
	HeaderAccept
	HeaderAcceptEncoding
	HeaderAcceptLanguage
	HeaderAccessControlAllowHeaders
	HeaderAccessControlAllowMethods
	HeaderAccessControlAllowOrigin
	HeaderAccessControlMaxAge
	HeaderAccessControlRequestHeaders
	HeaderAccessControlRequestMethod
	HeaderAllow
	HeaderAuthorization
	HeaderCacheControl
	HeaderConnection
	HeaderContentLength
	HeaderContentType
	HeaderCookie
	HeaderDate
	HeaderExpect
	HeaderHost
	HeaderLocation
	HeaderOrigin
	HeaderReferer
	HeaderServer
	HeaderSetCookie
	HeaderTraceparent
	HeaderTracestate
	HeaderTransferEncoding
	HeaderUserAgent
	HeaderWWWAuthenticate

	numHeaders
)

var headerNames = [numHeaders]string{
	HeaderUnknown:                     "Unknown",
	HeaderAccept:                      "Accept",
	HeaderAcceptEncoding:              "Accept-Encoding",
	HeaderAcceptLanguage:              "Accept-Language",
	HeaderAccessControlAllowHeaders:   "Access-Control-Allow-Headers",
	HeaderAccessControlAllowMethods:   "Access-Control-Allow-Methods",
	HeaderAccessControlAllowOrigin:    "Access-Control-Allow-Origin",
	HeaderAccessControlMaxAge:         "Access-Control-Max-Age",
	HeaderAccessControlRequestHeaders: "Access-Control-Request-Headers",
	HeaderAccessControlRequestMethod:  "Access-Control-Request-Method",
	HeaderAllow:                       "Allow",
	HeaderAuthorization:               "Authorization",
	HeaderCacheControl:                "Cache-Control",
	HeaderConnection:                  "Connection",
	HeaderContentLength:               "Content-Length",
	HeaderContentType:                 "Content-Type",
	HeaderCookie:                      "Cookie",
	HeaderDate:                        "Date",
	HeaderExpect:                      "Expect",
	HeaderHost:                        "Host",
	HeaderLocation:                    "Location",
	HeaderOrigin:                      "Origin",
	HeaderReferer:                     "Referer",
	HeaderServer:                      "Server",
	HeaderSetCookie:                   "Set-Cookie",
	HeaderTraceparent:                 "Traceparent",
	HeaderTracestate:                  "Tracestate",
	HeaderTransferEncoding:            "Transfer-Encoding",
	HeaderUserAgent:                   "User-Agent",
	HeaderWWWAuthenticate:             "WWW-Authenticate",
}

// headerIndex maps lower-cased names onto the catalog.
var headerIndex = func() map[string]HeaderName {
	idx := make(map[string]HeaderName, numHeaders)
	for h := HeaderAccept; h < numHeaders; h++ {
		idx[string(bytes.ToLower([]byte(headerNames[h])))] = h
	}
	return idx
}()

func (h HeaderName) String() string {
	if h >= numHeaders {
		return headerNames[HeaderUnknown]
	}

	return headerNames[h]
}

// ParseHeaderName looks up a header name case-insensitively.
func ParseHeaderName(name []byte) HeaderName {
	var buf [64]byte
	if len(name) > len(buf) {
		return HeaderUnknown
	}

	lower := buf[:len(name)]
	for i, c := range name {
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		lower[i] = c
	}

	return headerIndex[string(lower)]
}

// HeaderByString is like [ParseHeaderName] for strings.
func HeaderByString(name string) HeaderName { return ParseHeaderName([]byte(name)) }

// Header holds at most one value per name. Setting a name again replaces the value.
type Header map[HeaderName][]byte

// Get returns the value and whether it was set.
func (h Header) Get(name HeaderName) ([]byte, bool) {
	v, ok := h[name]
	return v, ok
}

// Set records the value for the name.
func (h Header) Set(name HeaderName, value []byte) { h[name] = value }

// Del removes the name.
func (h Header) Del(name HeaderName) { delete(h, name) }

// Names returns the names in catalog order.
func (h Header) Names() []HeaderName {
	names := make([]HeaderName, 0, len(h))
	for n := range h {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Clone returns a copy that shares no map with h.
func (h Header) Clone() Header {
	c := make(Header, len(h))
	for n, v := range h {
		c[n] = v
	}
	return c
}
