package source

import (
	"context"
	"io"
	"io/fs"
	"mime"
	"path"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/jmgilman/go/imgcache/errors"
	"github.com/jmgilman/go/imgcache/uri"
)

// File fetches file:// URIs from a go-billy filesystem.
type File struct {
	bfs billy.Filesystem
}

// NewFile returns a fetcher reading from bfs. A nil bfs means the local
// filesystem rooted at "/".
func NewFile(bfs billy.Filesystem) *File {
	if bfs == nil {
		bfs = osfs.New("/")
	}
	return &File{bfs: bfs}
}

// Fetch implements Fetcher. The MIME type is guessed from the file extension.
func (f *File) Fetch(ctx context.Context, u string) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", errors.Wrap(err, errors.CodeTimeout, "file read cancelled")
	}

	name := filepath.ToSlash(path.Clean(uri.FilePath(u)))
	file, err := f.bfs.Open(name)
	if err != nil {
		return nil, "", translateFileError(err, name)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", translateFileError(err, name)
	}
	return data, mime.TypeByExtension(path.Ext(name)), nil
}

func translateFileError(err error, name string) error {
	ctx := map[string]interface{}{"path": name}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return errors.WrapWithContext(err, errors.CodeNotFound, "file not found", ctx)
	case errors.Is(err, fs.ErrPermission):
		return errors.WrapWithContext(err, errors.CodeSourceFailed, "permission denied", ctx)
	default:
		return errors.WrapWithContext(err, errors.CodeSourceFailed, "failed to read file", ctx)
	}
}
