package driver

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LockfileName sits next to lox.yml and pins fetched git suites.
const LockfileName = "lox.lock"

// Lockfile models the lox.lock contents.
type Lockfile struct {
	Path      string
	Root      string
	Generated string
	Tool      string
	Suites    []*LockedSuite
}

// LockedSuite records exactly which commit a git suite was fetched at.
type LockedSuite struct {
	Name     string
	Source   string
	Revision string
	Checksum string
}

// NewLockfile constructs a lockfile with metadata seeded for the provided root.
func NewLockfile(root, tool string) *Lockfile {
	return &Lockfile{
		Root:      strings.TrimSpace(root),
		Generated: time.Now().UTC().Format(time.RFC3339),
		Tool:      strings.TrimSpace(tool),
		Suites:    []*LockedSuite{},
	}
}

// LoadLockfile parses lox.lock from disk.
func LoadLockfile(path string) (*Lockfile, error) {
	if path == "" {
		return nil, fmt.Errorf("lockfile: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("lockfile: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var raw lockfileDisk
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("lockfile: parse %s: %w", abs, err)
	}

	lock := raw.toLockfile()
	lock.Path = abs
	return lock, nil
}

// WriteLockfile serialises the lockfile back to disk, stamping Generated
// with the current time.
func WriteLockfile(lock *Lockfile, path string) error {
	if lock == nil {
		return fmt.Errorf("lockfile: nil lockfile")
	}
	if path == "" {
		if lock.Path == "" {
			return fmt.Errorf("lockfile: missing path")
		}
		path = lock.Path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("lockfile: resolve %s: %w", path, err)
	}

	lock.Generated = time.Now().UTC().Format(time.RFC3339)
	lock.Path = abs
	lock.normalize()

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(lock.toDisk()); err != nil {
		return fmt.Errorf("lockfile: marshal %s: %w", abs, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("lockfile: encoder close: %w", err)
	}
	if err := os.WriteFile(abs, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("lockfile: write %s: %w", abs, err)
	}
	return nil
}

// FindSuite returns the pinned entry for name.
func (l *Lockfile) FindSuite(name string) (*LockedSuite, bool) {
	if l == nil {
		return nil, false
	}
	for _, suite := range l.Suites {
		if suite != nil && suite.Name == name {
			return suite, true
		}
	}
	return nil, false
}

// PutSuite inserts or replaces the entry named by suite.Name.
func (l *Lockfile) PutSuite(suite *LockedSuite) {
	if l == nil || suite == nil {
		return
	}
	for i, existing := range l.Suites {
		if existing != nil && existing.Name == suite.Name {
			l.Suites[i] = suite
			return
		}
	}
	l.Suites = append(l.Suites, suite)
}

func (l *Lockfile) normalize() {
	if l == nil {
		return
	}
	l.Root = strings.TrimSpace(l.Root)
	l.Tool = strings.TrimSpace(l.Tool)
	suites := l.Suites[:0]
	for _, suite := range l.Suites {
		if suite == nil {
			continue
		}
		suite.Name = strings.TrimSpace(suite.Name)
		suite.Source = strings.TrimSpace(suite.Source)
		suite.Revision = strings.TrimSpace(suite.Revision)
		suite.Checksum = strings.TrimSpace(suite.Checksum)
		suites = append(suites, suite)
	}
	sort.SliceStable(suites, func(i, j int) bool {
		return suites[i].Name < suites[j].Name
	})
	l.Suites = suites
}

func (l *Lockfile) toDisk() lockfileDisk {
	suites := make([]lockfileSuite, 0, len(l.Suites))
	for _, suite := range l.Suites {
		suites = append(suites, lockfileSuite{
			Name:     suite.Name,
			Source:   suite.Source,
			Revision: suite.Revision,
			Checksum: suite.Checksum,
		})
	}
	return lockfileDisk{
		Root:      l.Root,
		Generated: l.Generated,
		Tool:      l.Tool,
		Suites:    suites,
	}
}

type lockfileDisk struct {
	Root      string          `yaml:"root"`
	Generated string          `yaml:"generated"`
	Tool      string          `yaml:"tool"`
	Suites    []lockfileSuite `yaml:"suites"`
}

type lockfileSuite struct {
	Name     string `yaml:"name"`
	Source   string `yaml:"source"`
	Revision string `yaml:"revision"`
	Checksum string `yaml:"checksum"`
}

func (d lockfileDisk) toLockfile() *Lockfile {
	lock := &Lockfile{
		Root:      d.Root,
		Generated: strings.TrimSpace(d.Generated),
		Tool:      d.Tool,
		Suites:    make([]*LockedSuite, 0, len(d.Suites)),
	}
	for _, suite := range d.Suites {
		lock.Suites = append(lock.Suites, &LockedSuite{
			Name:     suite.Name,
			Source:   suite.Source,
			Revision: suite.Revision,
			Checksum: suite.Checksum,
		})
	}
	lock.normalize()
	return lock
}
