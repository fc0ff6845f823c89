package static

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/advdv/qz"
	"github.com/cockroachdb/errors"
)

// ErrOutsideRoot is returned for paths that would resolve above the served directory.
var ErrOutsideRoot = qz.NewError(qz.CodeNotFound, errors.New("path escapes the served directory"))

// Dir serves the files below a root directory. Requests are expected below the mount path, e.g. a Dir
// mounted at "/assets" serves "/assets/css/site.css" from "<root>/css/site.css".
type Dir struct {
	root    string
	mountAt string
	index   string
}

// DirOption configures a Dir.
type DirOption func(*Dir)

// WithIndex sets the file that is served for a directory. The default is "index.html", an empty name
// disables index files.
func WithIndex(name string) DirOption {
	return func(d *Dir) { d.index = name }
}

// NewDir creates a handler that serves root under the mount path. Register it for "<mountAt>/*".
func NewDir(root, mountAt string, opts ...DirOption) *Dir {
	d := &Dir{root: root, mountAt: strings.TrimSuffix(mountAt, "/"), index: "index.html"}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Serve implements [qz.Handler].
func (d *Dir) Serve(_ context.Context, r *qz.Request) (*qz.Response, error) {
	rel, err := d.Resolve(string(r.Path()))
	if err != nil {
		return nil, err
	}

	name := filepath.Join(d.root, filepath.FromSlash(rel))

	info, err := os.Stat(name)
	if err != nil {
		return nil, errors.Wrapf(err, "stat %s", name)
	}

	if info.IsDir() {
		if d.index == "" {
			return nil, qz.NewError(qz.CodeNotFound, errors.Newf("%s is a directory", rel))
		}
		name = filepath.Join(name, d.index)
	}

	return serveFile(name)
}

// Resolve maps the request path onto a slash separated path relative to the root. It decodes percent
// escapes and processes "." and ".." segments; a path that would climb above the root is rejected.
func (d *Dir) Resolve(reqPath string) (string, error) {
	rest, ok := strings.CutPrefix(reqPath, d.mountAt)
	if !ok || (rest != "" && rest[0] != '/') {
		return "", qz.NewError(qz.CodeNotFound, errors.Newf("%q is not below %q", reqPath, d.mountAt))
	}

	decoded, err := url.PathUnescape(rest)
	if err != nil {
		return "", qz.NewError(qz.CodeBadRequest, errors.Wrap(err, "unescape path"))
	}

	var segs []string
	for _, seg := range strings.Split(decoded, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(segs) == 0 {
				return "", ErrOutsideRoot
			}
			segs = segs[:len(segs)-1]
		default:
			if strings.ContainsAny(seg, "\\\x00") {
				return "", qz.NewError(qz.CodeBadRequest, errors.Newf("invalid path segment %q", seg))
			}
			segs = append(segs, seg)
		}
	}

	return strings.Join(segs, "/"), nil
}
