package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	git "github.com/go-git/go-git/v5"

	"lox/interpreter-go/pkg/driver"
)

func setupGitSuite(t *testing.T, root string) (string, string) {
	t.Helper()
	repo := filepath.Join(root, "upstream")
	writeFile(t, filepath.Join(repo, "test", "closures.lox"), `
fun counter() {
  var n = 0;
  fun inc() { n = n + 1; return n; }
  return inc;
}
var c = counter();
print c(); // expect: 1
print c(); // expect: 2
`)
	writeFile(t, filepath.Join(repo, "README"), "suite fixture")
	return repo, initGitRepo(t, repo)
}

func TestSuitesFetchPinsRevisionAndRuns(t *testing.T) {
	root := t.TempDir()
	repo, rev := setupGitSuite(t, root)

	app := filepath.Join(root, "app")
	writeFile(t, filepath.Join(app, "lox.yml"), `
name: app
suites:
  upstream:
    git: `+repo+`
    rev: `+rev+`
    dir: test
`)
	cacheDir := filepath.Join(root, "cache")
	t.Setenv("LOX_CACHE", cacheDir)
	chdir(t, app)

	code, stdout, stderr := captureCLI(t, []string{"suites", "fetch"})
	if code != exitOK {
		t.Fatalf("fetch exit = %d\nstdout:\n%s\nstderr:\n%s", code, stdout, stderr)
	}
	if !strings.Contains(stdout, "Fetched upstream at "+rev[:12]) || !strings.Contains(stdout, "Created lox.lock") {
		t.Fatalf("stdout:\n%s", stdout)
	}

	lock, err := driver.LoadLockfile(filepath.Join(app, driver.LockfileName))
	if err != nil {
		t.Fatalf("LoadLockfile: %v", err)
	}
	locked, ok := lock.FindSuite("upstream")
	if !ok {
		t.Fatalf("lockfile missing upstream: %#v", lock.Suites)
	}
	if locked.Revision != rev || locked.Source != "git+"+repo+"#rev="+rev || !strings.HasPrefix(locked.Checksum, "sha256:") {
		t.Fatalf("locked = %#v", locked)
	}
	if _, err := os.Stat(filepath.Join(suiteCheckoutDir(cacheDir, "upstream", rev), "test", "closures.lox")); err != nil {
		t.Fatalf("expected checkout in cache: %v", err)
	}

	code, stdout, _ = captureCLI(t, []string{"suites", "fetch"})
	if code != exitOK || !strings.Contains(stdout, "upstream up to date") || !strings.Contains(stdout, "lox.lock already up to date") {
		t.Fatalf("refetch: code=%d stdout:\n%s", code, stdout)
	}

	code, stdout, stderr = captureCLI(t, []string{"test", "upstream"})
	if code != exitOK || !strings.Contains(stdout, "lox test: 1 passed, 0 failed, 0 skipped") {
		t.Fatalf("test exit = %d\nstdout:\n%s\nstderr:\n%s", code, stdout, stderr)
	}
}

func TestSuiteInstallerFollowsBranchAndTag(t *testing.T) {
	root := t.TempDir()
	repoDir, rev := setupGitSuite(t, root)

	repo, err := git.PlainOpen(repoDir)
	if err != nil {
		t.Fatalf("PlainOpen: %v", err)
	}
	head, err := repo.Head()
	if err != nil {
		t.Fatalf("Head: %v", err)
	}
	if _, err := repo.CreateTag("v1", head.Hash(), nil); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	app := filepath.Join(root, "app")
	writeFile(t, filepath.Join(app, "lox.yml"), `
name: app
suites:
  by_branch:
    git: `+repoDir+`
    branch: `+head.Name().Short()+`
  by_tag:
    git: `+repoDir+`
    tag: v1
  local:
    path: tests
`)
	manifest, err := driver.LoadManifest(filepath.Join(app, "lox.yml"))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}

	installer := newSuiteInstaller(manifest, filepath.Join(root, "cache"))
	lock := driver.NewLockfile(manifest.Name, cliToolVersion)
	changed, logs, err := installer.Install(lock, nil)
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if !changed || len(logs) != 2 {
		t.Fatalf("changed=%v logs=%v", changed, logs)
	}
	for _, name := range []string{"by_branch", "by_tag"} {
		locked, ok := lock.FindSuite(name)
		if !ok || locked.Revision != rev {
			t.Fatalf("%s locked = %#v, want revision %s", name, locked, rev)
		}
	}
	if _, ok := lock.FindSuite("local"); ok {
		t.Fatalf("path suites must not be locked")
	}

	if _, _, err := installer.Install(lock, []string{"local"}); err == nil {
		t.Fatalf("expected error when fetching a path suite")
	}
	if _, _, err := installer.Install(lock, []string{"missing"}); err == nil {
		t.Fatalf("expected error for an undeclared suite")
	}
}

func TestDirChecksumIgnoresGitMetadata(t *testing.T) {
	a := t.TempDir()
	b := t.TempDir()
	writeFile(t, filepath.Join(a, "x.lox"), "print 1;")
	writeFile(t, filepath.Join(b, "x.lox"), "print 1;")
	writeFile(t, filepath.Join(b, ".git", "HEAD"), "ref: refs/heads/master")

	sumA, err := dirChecksum(a)
	if err != nil {
		t.Fatalf("dirChecksum: %v", err)
	}
	sumB, err := dirChecksum(b)
	if err != nil {
		t.Fatalf("dirChecksum: %v", err)
	}
	if sumA != sumB {
		t.Fatalf("checksums differ: %s vs %s", sumA, sumB)
	}

	writeFile(t, filepath.Join(b, "x.lox"), "print 2;")
	if sumC, _ := dirChecksum(b); sumC == sumA {
		t.Fatalf("checksum must change with contents")
	}
}
