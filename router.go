package qz

import (
	"bytes"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// Router is a radix tree of path segments. Each node may carry a handler per method. A registered path that
// ends in "/*" matches every path below it; exact matches always take precedence over such wildcards.
type Router struct {
	root   *node
	routes map[string][]Method
}

type node struct {
	segment  []byte
	handlers map[Method]Handler
	children []*node
	wildcard bool
}

// NewRouter inits an empty router.
func NewRouter() *Router {
	return &Router{root: &node{}, routes: map[string][]Method{}}
}

// Add registers h for the path and method. Registering the same path and method again replaces the
// handler. It panics when the path is not a valid route, just like a duplicate route name would.
func (rt *Router) Add(path string, m Method, h Handler) {
	if err := checkRoutePath(path); err != nil {
		panic("qz: " + err.Error())
	}

	rt.root.insert([]byte(path), m, h)
	if !lo.Contains(rt.routes[path], m) {
		rt.routes[path] = append(rt.routes[path], m)
	}
}

// Find resolves the handler for the path and method. It returns [ErrNotFound] when no route matches and
// an error with [CodeMethodNotAllowed] when the path matches but the method does not.
func (rt *Router) Find(path []byte, m Method) (Handler, error) {
	n := rt.root.match(path)
	if n == nil {
		return nil, ErrNotFound
	}

	if h, ok := n.handlers[m]; ok {
		return h, nil
	}

	return nil, &MethodNotAllowedError{Allowed: n.methods()}
}

// Allowed returns the methods registered for the node that matches path, or nil when nothing matches.
func (rt *Router) Allowed(path []byte) []Method {
	n := rt.root.match(path)
	if n == nil {
		return nil
	}
	return n.methods()
}

// Routes returns every registered path with its methods, sorted by path.
func (rt *Router) Routes() []Route {
	paths := lo.Keys(rt.routes)
	sort.Strings(paths)

	return lo.Map(paths, func(p string, _ int) Route {
		return Route{Path: p, Methods: append([]Method(nil), rt.routes[p]...)}
	})
}

// Route describes a registered path.
type Route struct {
	Path    string
	Methods []Method
}

// MethodNotAllowedError is returned by [Router.Find] when the path exists for other methods only.
type MethodNotAllowedError struct {
	Allowed []Method
}

func (e *MethodNotAllowedError) Error() string {
	return ErrMethodNotAllowed.Error() + " (allowed: " + joinMethods(e.Allowed) + ")"
}

func (e *MethodNotAllowedError) Unwrap() error { return ErrMethodNotAllowed }

func joinMethods(ms []Method) string {
	return strings.Join(lo.Map(ms, func(m Method, _ int) string { return m.String() }), ", ")
}

func checkRoutePath(path string) error {
	if path == "" || path[0] != '/' {
		return errors.Newf("route path must start with '/', got: %q", path)
	}

	star := strings.IndexByte(path, '*')
	if star >= 0 && (star != len(path)-1 || !strings.HasSuffix(path, "/*")) {
		return errors.Newf("wildcard is only supported as a trailing '/*', got: %q", path)
	}
	return nil
}

func (n *node) insert(path []byte, m Method, h Handler) {
	lcp := commonPrefix(n.segment, path)

	if lcp < len(n.segment) {
		tail := &node{
			segment:  n.segment[lcp:],
			handlers: n.handlers,
			children: n.children,
			wildcard: n.wildcard,
		}

		n.segment = n.segment[:lcp]
		n.handlers = nil
		n.children = []*node{tail}
		n.wildcard = false
	}

	rest := path[lcp:]
	if len(rest) == 0 {
		n.set(m, h)
		return
	}

	for _, c := range n.children {
		if c.segment[0] == rest[0] {
			c.insert(rest, m, h)
			return
		}
	}

	n.children = append(n.children, newLeaf(rest, m, h))
}

// newLeaf creates the node(s) for a path remainder that shares no prefix with any sibling. A trailing "*"
// becomes its own wildcard node.
func newLeaf(rest []byte, m Method, h Handler) *node {
	if rest[len(rest)-1] != '*' {
		leaf := &node{segment: rest}
		leaf.set(m, h)
		return leaf
	}

	star := &node{segment: []byte{'*'}, wildcard: true}
	star.set(m, h)
	if len(rest) == 1 {
		return star
	}

	return &node{segment: rest[:len(rest)-1], children: []*node{star}}
}

func (n *node) set(m Method, h Handler) {
	if n.handlers == nil {
		n.handlers = make(map[Method]Handler, 1)
	}
	n.handlers[m] = h
}

// match returns the node that should handle the path or nil. It inspects only the first byte of the
// remainder to pick a child; when that descent fails the wildcard at the same level is used instead.
func (n *node) match(path []byte) *node {
	if !n.wildcard {
		if !bytes.HasPrefix(path, n.segment) {
			return nil
		}
		path = path[len(n.segment):]
	} else {
		return n
	}

	if len(path) == 0 && len(n.handlers) > 0 {
		return n
	}

	if len(path) > 0 {
		for _, c := range n.children {
			if !c.wildcard && c.segment[0] == path[0] {
				if found := c.match(path); found != nil {
					return found
				}
				break
			}
		}
	}

	for _, c := range n.children {
		if c.wildcard {
			return c
		}
	}
	return nil
}

func (n *node) methods() []Method {
	ms := lo.Keys(n.handlers)
	sort.Slice(ms, func(i, j int) bool { return ms[i] < ms[j] })
	return ms
}

func commonPrefix(a, b []byte) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
