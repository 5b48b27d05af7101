package source

import (
	"context"
	"io"
	"mime"
	"path"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"

	"github.com/jmgilman/go/imgcache/errors"
	"github.com/jmgilman/go/imgcache/uri"
)

// GitScheme is the URI scheme served by Git: git://<revision>/<path>.
const GitScheme = "git"

// Git fetches files as committed in a Git repository, addressed as
// git://<revision>/<path>. The revision is anything go-git can resolve, such
// as HEAD, a branch or tag name, or a commit hash. Files tracked with Git LFS
// come back as their pointer text.
type Git struct {
	mu   sync.Mutex
	repo *gogit.Repository
}

// NewGit returns a fetcher reading from repo.
func NewGit(repo *gogit.Repository) *Git {
	return &Git{repo: repo}
}

// OpenGit opens the repository whose working tree is the root of bfs. A
// directory without a .git subdirectory is opened as a bare repository.
func OpenGit(bfs billy.Filesystem) (*Git, error) {
	var (
		repo *gogit.Repository
		err  error
	)
	if fi, statErr := bfs.Stat(".git"); statErr == nil && fi.IsDir() {
		var dotGit billy.Filesystem
		dotGit, err = bfs.Chroot(".git")
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to scope filesystem to .git")
		}
		repo, err = gogit.Open(filesystem.NewStorage(dotGit, cache.NewObjectLRUDefault()), bfs)
	} else {
		repo, err = gogit.Open(filesystem.NewStorage(bfs, cache.NewObjectLRUDefault()), nil)
	}
	if err != nil {
		return nil, translateGitError(err, "", "")
	}
	return NewGit(repo), nil
}

// parseGitURI splits git://<revision>/<path>.
func parseGitURI(u string) (rev, name string, err error) {
	if uri.Scheme(u) != GitScheme {
		return "", "", errors.WithContext(
			errors.New(errors.CodeInvalidInput, "not a git uri"), "uri", u)
	}
	rest := u[len(GitScheme+"://"):]
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}
	rev, name, _ = strings.Cut(rest, "/")
	name = strings.TrimPrefix(path.Clean("/"+name), "/")
	if rev == "" || name == "" || name == "." {
		return "", "", errors.WithContext(
			errors.New(errors.CodeInvalidInput, "git uri must be git://<revision>/<path>"), "uri", u)
	}
	return rev, name, nil
}

// Fetch implements Fetcher. The MIME type is guessed from the file extension.
func (g *Git) Fetch(ctx context.Context, u string) ([]byte, string, error) {
	rev, name, err := parseGitURI(u)
	if err != nil {
		return nil, "", err
	}
	if err := ctx.Err(); err != nil {
		return nil, "", errors.Wrap(err, errors.CodeTimeout, "git read cancelled")
	}

	// go-git repositories are not safe for concurrent object reads.
	g.mu.Lock()
	defer g.mu.Unlock()

	hash, err := g.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, "", translateGitError(err, rev, name)
	}
	commit, err := g.repo.CommitObject(*hash)
	if err != nil {
		return nil, "", translateGitError(err, rev, name)
	}
	file, err := commit.File(name)
	if err != nil {
		return nil, "", translateGitError(err, rev, name)
	}

	r, err := file.Reader()
	if err != nil {
		return nil, "", translateGitError(err, rev, name)
	}
	defer func() { _ = r.Close() }()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", translateGitError(err, rev, name)
	}
	return data, mime.TypeByExtension(path.Ext(name)), nil
}

func translateGitError(err error, rev, name string) error {
	ctx := map[string]interface{}{}
	if rev != "" {
		ctx["revision"] = rev
	}
	if name != "" {
		ctx["path"] = name
	}

	switch {
	case errors.Is(err, gogit.ErrRepositoryNotExists):
		return errors.WrapWithContext(err, errors.CodeInvalidConfig, "repository does not exist", ctx)
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		return errors.WrapWithContext(err, errors.CodeNotFound, "revision not found", ctx)
	case errors.Is(err, plumbing.ErrObjectNotFound):
		return errors.WrapWithContext(err, errors.CodeNotFound, "object not found", ctx)
	case errors.Is(err, object.ErrFileNotFound):
		return errors.WrapWithContext(err, errors.CodeNotFound, "file not found", ctx)
	default:
		return errors.WrapWithContext(err, errors.CodeSourceFailed, "failed to read from repository", ctx)
	}
}
