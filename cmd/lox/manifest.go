package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lox/interpreter-go/pkg/driver"
)

func loadManifestFrom(start string) (*driver.Manifest, error) {
	if start == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
		start = cwd
	}
	manifestPath, err := driver.FindManifest(start)
	if err != nil {
		return nil, err
	}
	return driver.LoadManifest(manifestPath)
}

// manifestForScript finds the manifest governing a script, if any. A broken
// manifest is reported and ignored so the script can still run.
func manifestForScript(script string) *driver.Manifest {
	abs, err := filepath.Abs(script)
	if err != nil {
		return nil
	}
	manifest, err := loadManifestFrom(filepath.Dir(abs))
	if err != nil {
		if !errors.Is(err, driver.ErrManifestNotFound) {
			fmt.Fprintf(os.Stderr, "warning: unable to load manifest (%v); running %s without it\n", err, script)
		}
		return nil
	}
	return manifest
}

func looksLikePathCandidate(arg string) bool {
	if arg == "" {
		return false
	}
	if strings.Contains(arg, "/") || strings.Contains(arg, "\\") {
		return true
	}
	if filepath.Ext(arg) == ".lox" {
		return true
	}
	return strings.HasPrefix(arg, ".")
}

// resolveSuiteCache is where fetched git suites are checked out: LOX_CACHE
// when set, otherwise .lox/ beside the manifest.
func resolveSuiteCache(manifest *driver.Manifest) (string, error) {
	if dir := strings.TrimSpace(os.Getenv("LOX_CACHE")); dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return "", fmt.Errorf("resolve LOX_CACHE %q: %w", dir, err)
		}
		return abs, nil
	}
	if manifest == nil || manifest.Dir() == "" {
		return "", fmt.Errorf("no %s to place the suite cache beside (set LOX_CACHE)", driver.ManifestFileName)
	}
	return filepath.Join(manifest.Dir(), ".lox"), nil
}

func lockfilePath(manifest *driver.Manifest) string {
	return filepath.Join(manifest.Dir(), driver.LockfileName)
}

// loadLockfileForManifest returns nil without error when the manifest has no
// git suites and no lockfile has been written yet.
func loadLockfileForManifest(manifest *driver.Manifest) (*driver.Lockfile, error) {
	if manifest == nil {
		return nil, nil
	}
	lockPath := lockfilePath(manifest)
	lock, err := driver.LoadLockfile(lockPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read lockfile %s: %w", lockPath, err)
	}
	if lock.Root != manifest.Name {
		return nil, fmt.Errorf("lockfile root %q does not match manifest name %q", lock.Root, manifest.Name)
	}
	return lock, nil
}
