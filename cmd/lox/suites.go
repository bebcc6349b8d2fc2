package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"lox/interpreter-go/pkg/driver"
)

func runSuites(args []string, opts cliOptions) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "lox suites requires a subcommand (fetch)")
		return exitUsage
	}
	switch args[0] {
	case "fetch":
		return runSuitesFetch(args[1:], opts)
	default:
		fmt.Fprintf(os.Stderr, "unknown suites subcommand %q\n", args[0])
		return exitUsage
	}
}

func runSuitesFetch(targets []string, opts cliOptions) int {
	rep := newReporter(opts)
	manifest, err := loadManifestFrom("")
	if err != nil {
		if errors.Is(err, driver.ErrManifestNotFound) {
			rep.errorf("lox suites fetch requires a %s", driver.ManifestFileName)
			return exitUsage
		}
		rep.errorf("failed to read manifest: %v", err)
		return exitDataErr
	}
	cacheDir, err := resolveSuiteCache(manifest)
	if err != nil {
		rep.errorf("%v", err)
		return exitUsage
	}

	fmt.Fprintf(os.Stdout, "Manifest: %s\n", manifest.Path)
	fmt.Fprintf(os.Stdout, "Cache directory: %s\n", cacheDir)

	lockPath := lockfilePath(manifest)
	lock, err := driver.LoadLockfile(lockPath)
	lockCreated := false
	switch {
	case err == nil:
		if lock.Root != manifest.Name {
			rep.errorf("lockfile root %q does not match manifest name %q", lock.Root, manifest.Name)
			return exitDataErr
		}
	case errors.Is(err, os.ErrNotExist):
		lock = driver.NewLockfile(manifest.Name, cliToolVersion)
		lockCreated = true
	default:
		rep.errorf("failed to read lockfile: %v", err)
		return exitIOErr
	}
	lock.Path = lockPath
	lock.Tool = cliToolVersion

	installer := newSuiteInstaller(manifest, cacheDir)
	changed, logs, err := installer.Install(lock, targets)
	for _, line := range logs {
		fmt.Fprintln(os.Stdout, line)
	}
	if err != nil {
		rep.errorf("failed to fetch suites: %v", err)
		return exitSoftware
	}

	if changed || lockCreated {
		action := "Updated"
		if lockCreated {
			action = "Created"
		}
		if err := driver.WriteLockfile(lock, lockPath); err != nil {
			rep.errorf("failed to write lockfile: %v", err)
			return exitIOErr
		}
		fmt.Fprintf(os.Stdout, "%s %s: %s\n", action, driver.LockfileName, lockPath)
	} else {
		fmt.Fprintf(os.Stdout, "%s already up to date: %s\n", driver.LockfileName, lockPath)
	}
	return exitOK
}

// suiteInstaller fetches the manifest's git suites and records them in the
// lockfile.
type suiteInstaller struct {
	manifest *driver.Manifest
	fetcher  *gitFetcher
}

func newSuiteInstaller(manifest *driver.Manifest, cacheDir string) *suiteInstaller {
	return &suiteInstaller{manifest: manifest, fetcher: newGitFetcher(cacheDir)}
}

// Install fetches every git suite, or only the named ones. A suite whose lock
// entry still matches the manifest is checked out at its locked revision
// unless it was named explicitly, which refetches it.
func (i *suiteInstaller) Install(lock *driver.Lockfile, only []string) (bool, []string, error) {
	var logs []string
	update := make(map[string]bool, len(only))
	for _, name := range only {
		name = strings.TrimSpace(name)
		spec, ok := i.manifest.FindSuite(name)
		if !ok {
			return false, logs, fmt.Errorf("suite %q is not declared in %s", name, driver.ManifestFileName)
		}
		if !spec.IsGit() {
			return false, logs, fmt.Errorf("suite %q is a path suite; nothing to fetch", name)
		}
		update[name] = true
	}

	changed := false
	for _, name := range i.manifest.SuiteOrder {
		spec := i.manifest.Suites[name]
		if !spec.IsGit() {
			continue
		}
		if len(update) > 0 && !update[name] {
			continue
		}

		pinned := ""
		if locked, ok := lock.FindSuite(name); ok && !update[name] && locked.Source == suiteSource(spec) {
			pinned = locked.Revision
		}
		entry, err := i.fetcher.Fetch(spec, pinned)
		if err != nil {
			return changed, logs, err
		}

		previous, ok := lock.FindSuite(name)
		switch {
		case !ok:
			logs = append(logs, fmt.Sprintf("Fetched %s at %s", name, shortRevision(entry.Revision)))
		case previous.Revision != entry.Revision || previous.Source != entry.Source:
			logs = append(logs, fmt.Sprintf("Updated %s %s -> %s", name, shortRevision(previous.Revision), shortRevision(entry.Revision)))
		case previous.Checksum != entry.Checksum:
			logs = append(logs, fmt.Sprintf("Checksum of %s changed; lock refreshed", name))
		default:
			logs = append(logs, fmt.Sprintf("%s up to date at %s", name, shortRevision(entry.Revision)))
			continue
		}
		lock.PutSuite(entry)
		changed = true
	}
	return changed, logs, nil
}

func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}
