package source

import (
	"context"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/imgcache/errors"
)

// createTestRepo commits files to an in-memory repository and tags the
// commit v1.
func createTestRepo(t *testing.T, files map[string]string) *gogit.Repository {
	t.Helper()

	fs := memfs.New()
	repo, err := gogit.Init(memory.NewStorage(), fs)
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)
	for name, content := range files {
		require.NoError(t, util.WriteFile(fs, name, []byte(content), 0o644))
		_, err = wt.Add(name)
		require.NoError(t, err)
	}

	hash, err := wt.Commit("add assets", &gogit.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	_, err = repo.CreateTag("v1", hash, nil)
	require.NoError(t, err)
	return repo
}

func TestParseGitURI(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		wantRev  string
		wantPath string
		wantErr  bool
	}{
		{name: "head", uri: "git://HEAD/assets/logo.png", wantRev: "HEAD", wantPath: "assets/logo.png"},
		{name: "tag", uri: "git://v1.2.0/logo.png", wantRev: "v1.2.0", wantPath: "logo.png"},
		{name: "query ignored", uri: "git://main/a.png?x=1", wantRev: "main", wantPath: "a.png"},
		{name: "cleaned path", uri: "git://main/a/../b.png", wantRev: "main", wantPath: "b.png"},
		{name: "no path", uri: "git://main", wantErr: true},
		{name: "empty revision", uri: "git:///a.png", wantErr: true},
		{name: "wrong scheme", uri: "file:///a.png", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rev, name, err := parseGitURI(tt.uri)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRev, rev)
			assert.Equal(t, tt.wantPath, name)
		})
	}
}

func TestGit_Fetch(t *testing.T) {
	repo := createTestRepo(t, map[string]string{
		"assets/logo.png": "png bytes",
		"assets/big.png":  "version https://git-lfs.github.com/spec/v1\noid sha256:abc\nsize 10\n",
	})
	g := NewGit(repo)

	tests := []struct {
		name     string
		uri      string
		want     string
		wantMIME string
		wantCode errors.ErrorCode
	}{
		{name: "head", uri: "git://HEAD/assets/logo.png", want: "png bytes", wantMIME: "image/png"},
		{name: "tag", uri: "git://v1/assets/logo.png", want: "png bytes", wantMIME: "image/png"},
		{name: "lfs pointer", uri: "git://HEAD/assets/big.png", want: "version https://git-lfs.github.com/spec/v1\noid sha256:abc\nsize 10\n", wantMIME: "image/png"},
		{name: "missing file", uri: "git://HEAD/assets/missing.png", wantCode: errors.CodeNotFound},
		{name: "missing revision", uri: "git://nope/assets/logo.png", wantCode: errors.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, mime, err := g.Fetch(context.Background(), tt.uri)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, errors.GetCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
			assert.Equal(t, tt.wantMIME, mime)
		})
	}
}

func TestGit_FetchCancelled(t *testing.T) {
	g := NewGit(createTestRepo(t, map[string]string{"a.png": "x"}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := g.Fetch(ctx, "git://HEAD/a.png")
	require.Error(t, err)
	assert.Equal(t, errors.CodeTimeout, errors.GetCode(err))
}

func TestOpenGit_NotARepository(t *testing.T) {
	_, err := OpenGit(memfs.New())
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))
}
