package main

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"lox/interpreter-go/pkg/driver"
)

// gitFetcher clones suite repositories into <cache>/suites/<name>/<commit>.
type gitFetcher struct {
	cacheDir string
}

func newGitFetcher(cacheDir string) *gitFetcher {
	if cacheDir == "" {
		return nil
	}
	return &gitFetcher{cacheDir: cacheDir}
}

// Fetch checks the suite out at pinned when set, otherwise at the revision
// the manifest names. It returns the lock entry for the checkout.
func (g *gitFetcher) Fetch(spec *driver.SuiteSpec, pinned string) (*driver.LockedSuite, error) {
	if g == nil {
		return nil, errors.New("git fetcher unavailable")
	}
	url := strings.TrimSpace(spec.Git)
	if url == "" {
		return nil, fmt.Errorf("suite %q: git URL required", spec.Name)
	}

	baseDir := filepath.Join(g.cacheDir, "suites", sanitizePathSegment(spec.Name))
	commit, err := ensureGitCheckout(baseDir, url, spec, pinned)
	if err != nil {
		return nil, fmt.Errorf("suite %q: %w", spec.Name, err)
	}
	checksum, err := dirChecksum(suiteCheckoutDir(g.cacheDir, spec.Name, commit))
	if err != nil {
		return nil, fmt.Errorf("suite %q: checksum: %w", spec.Name, err)
	}
	return &driver.LockedSuite{
		Name:     spec.Name,
		Source:   suiteSource(spec),
		Revision: commit,
		Checksum: "sha256:" + checksum,
	}, nil
}

func suiteCheckoutDir(cacheDir, name, commit string) string {
	return filepath.Join(cacheDir, "suites", sanitizePathSegment(name), sanitizePathSegment(commit))
}

// suiteSource identifies what the manifest asked for, so a lock entry can be
// reused only while the manifest still asks for the same thing.
func suiteSource(spec *driver.SuiteSpec) string {
	_, descriptor := gitRevisionFromSpec(spec)
	return fmt.Sprintf("git+%s#%s", strings.TrimSpace(spec.Git), descriptor)
}

func ensureGitCheckout(baseDir, url string, spec *driver.SuiteSpec, pinned string) (string, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", err
	}

	revision, _ := gitRevisionFromSpec(spec)
	if pinned = strings.TrimSpace(pinned); pinned != "" {
		revision = plumbing.Revision(pinned)
		if _, err := os.Stat(filepath.Join(baseDir, sanitizePathSegment(pinned))); err == nil {
			return pinned, nil
		}
	}

	tmpDir, err := os.MkdirTemp(baseDir, "git-fetch-*")
	if err != nil {
		return "", err
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return "", err
	}

	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{
		URL:  url,
		Tags: git.AllTags,
	})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("git clone %s: %w", url, err)
	}

	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("resolve revision %s: %w", revision, err)
	}
	commit := hash.String()

	targetDir := filepath.Join(baseDir, sanitizePathSegment(commit))
	if _, err := os.Stat(targetDir); err == nil {
		_ = os.RemoveAll(tmpDir)
		return commit, nil
	}

	worktree, err := repo.Worktree()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{
		Hash:  *hash,
		Force: true,
	}); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("git checkout %s: %w", revision, err)
	}

	if err := os.Rename(tmpDir, targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", err
	}
	return commit, nil
}

// gitRevisionFromSpec maps the manifest pin to a revision go-git can resolve
// in a fresh clone. Branches are read from the remote-tracking refs.
func gitRevisionFromSpec(spec *driver.SuiteSpec) (plumbing.Revision, string) {
	if rev := strings.TrimSpace(spec.Rev); rev != "" {
		return plumbing.Revision(rev), "rev=" + rev
	}
	if tag := strings.TrimSpace(spec.Tag); tag != "" {
		return plumbing.Revision("refs/tags/" + tag), "tag=" + tag
	}
	if branch := strings.TrimSpace(spec.Branch); branch != "" {
		return plumbing.Revision("refs/remotes/origin/" + branch), "branch=" + branch
	}
	return plumbing.Revision("HEAD"), "HEAD"
}

// dirChecksum hashes every file below path except git metadata.
func dirChecksum(path string) (string, error) {
	h := sha256.New()
	err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(path, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		h.Write([]byte(filepath.ToSlash(rel)))
		h.Write([]byte{0})
		h.Write(data)
		return nil
	})
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func sanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return "head"
	}
	var b strings.Builder
	for _, r := range segment {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
