package static

import (
	"context"
	"os"

	"github.com/advdv/qz"
	"github.com/cockroachdb/errors"
)

// File serves a single file regardless of the request path.
type File struct {
	path string
}

// NewFile creates a handler for the file at path. The file is read on every request.
func NewFile(path string) *File {
	return &File{path: path}
}

// Serve implements [qz.Handler].
func (f *File) Serve(_ context.Context, _ *qz.Request) (*qz.Response, error) {
	return serveFile(f.path)
}

func serveFile(name string) (*qz.Response, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", name)
	}

	return qz.Bytes(qz.CodeOK, TypeByFilename(name), data), nil
}
