package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestFileName is the project manifest looked up by the CLI.
const ManifestFileName = "lox.yml"

// Manifest represents the parsed contents of lox.yml.
type Manifest struct {
	Path       string
	Name       string
	Main       string
	Runtime    RuntimeConfig
	Suites     map[string]*SuiteSpec
	SuiteOrder []string
}

// RuntimeConfig carries interpreter settings. Zero values mean defaults.
type RuntimeConfig struct {
	MaxCallDepth int
}

// SuiteSpec describes an expectation test suite. A suite lives either in a
// local directory (Path) or in a git repository (Git plus at most one of
// Rev, Tag or Branch), optionally narrowed to a subdirectory (Dir).
type SuiteSpec struct {
	Name   string
	Path   string
	Git    string
	Rev    string
	Tag    string
	Branch string
	Dir    string
	Skip   []string
}

// IsGit reports whether the suite must be fetched before it can run.
func (s *SuiteSpec) IsGit() bool {
	return s != nil && s.Git != ""
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

var ErrManifestNotFound = errors.New(ManifestFileName + " not found")

// LoadManifest parses lox.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// FindManifest walks from start up to the filesystem root looking for
// lox.yml. The error wraps ErrManifestNotFound when none exists.
func FindManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve start directory %q: %w", start, err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	origin := dir
	for {
		candidate := filepath.Join(dir, ManifestFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found from %s upwards: %w", ManifestFileName, origin, ErrManifestNotFound)
		}
		dir = parent
	}
}

// Dir is the directory holding the manifest; relative paths resolve here.
func (m *Manifest) Dir() string {
	if m == nil || m.Path == "" {
		return ""
	}
	return filepath.Dir(m.Path)
}

// MainPath resolves the main entrypoint against the manifest directory.
func (m *Manifest) MainPath() (string, error) {
	if m == nil {
		return "", fmt.Errorf("manifest: missing manifest")
	}
	mainPath := strings.TrimSpace(m.Main)
	if mainPath == "" {
		return "", fmt.Errorf("manifest %q does not declare main", m.Name)
	}
	return m.resolve(mainPath), nil
}

// FindSuite looks up a suite by name.
func (m *Manifest) FindSuite(name string) (*SuiteSpec, bool) {
	if m == nil {
		return nil, false
	}
	suite, ok := m.Suites[strings.TrimSpace(name)]
	return suite, ok && suite != nil
}

// LocalSuiteRoot is the directory holding a path suite's scripts.
func (m *Manifest) LocalSuiteRoot(suite *SuiteSpec) string {
	if suite == nil || suite.IsGit() {
		return ""
	}
	return m.resolve(suite.Path)
}

func (m *Manifest) resolve(rel string) string {
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	base := m.Dir()
	if base == "" {
		return filepath.Clean(filepath.FromSlash(rel))
	}
	return filepath.Join(base, filepath.FromSlash(rel))
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	if m.Main != "" && filepath.Ext(m.Main) != ".lox" {
		errs.Issues = append(errs.Issues, fmt.Sprintf("main %q must be a .lox file", m.Main))
	}
	if m.Runtime.MaxCallDepth < 0 {
		errs.Issues = append(errs.Issues, "runtime.max_call_depth must not be negative")
	}
	for _, name := range m.SuiteOrder {
		for _, issue := range m.Suites[name].validate() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("suites.%s: %s", name, issue))
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

func (s *SuiteSpec) validate() []string {
	var errs []string
	if s == nil {
		return errs
	}
	switch {
	case s.Path != "" && s.Git != "":
		errs = append(errs, "path suites cannot also specify git")
	case s.Path == "" && s.Git == "":
		errs = append(errs, "must specify path or git")
	}
	pins := 0
	for _, pin := range []string{s.Rev, s.Tag, s.Branch} {
		if pin != "" {
			pins++
		}
	}
	if pins > 0 && s.Git == "" {
		errs = append(errs, "rev, tag and branch apply only to git suites")
	}
	if pins > 1 {
		errs = append(errs, "specify at most one of rev, tag or branch")
	}
	if s.Dir != "" && s.Git == "" {
		errs = append(errs, "dir applies only to git suites")
	}
	for i, skip := range s.Skip {
		if skip == "" {
			errs = append(errs, fmt.Sprintf("skip[%d] must be a non-empty string", i))
		}
	}
	return errs
}

type manifestFile struct {
	Name    string      `yaml:"name"`
	Main    string      `yaml:"main"`
	Runtime runtimeYAML `yaml:"runtime"`
	Suites  suiteMap    `yaml:"suites"`
}

type runtimeYAML struct {
	MaxCallDepth int `yaml:"max_call_depth"`
}

type suiteYAML struct {
	Path   string   `yaml:"path"`
	Git    string   `yaml:"git"`
	Rev    string   `yaml:"rev"`
	Tag    string   `yaml:"tag"`
	Branch string   `yaml:"branch"`
	Dir    string   `yaml:"dir"`
	Skip   []string `yaml:"skip"`
}

var knownSuiteFields = map[string]bool{
	"path": true, "git": true, "rev": true, "tag": true, "branch": true, "dir": true, "skip": true,
}

// suiteMap keeps suites in manifest order so `lox test` runs them
// predictably.
type suiteMap struct {
	items []suiteMapEntry
}

type suiteMapEntry struct {
	name string
	spec *suiteYAML
}

func (sm *suiteMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == 0 {
		sm.items = nil
		return nil
	}
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		sm.items = nil
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("manifest: suites must be a mapping")
	}
	items := make([]suiteMapEntry, 0, len(value.Content)/2)
	for i := 0; i < len(value.Content); i += 2 {
		keyNode := value.Content[i]
		valueNode := value.Content[i+1]

		var key string
		if err := keyNode.Decode(&key); err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("manifest: suites must not use empty keys")
		}
		if valueNode.Kind == yaml.MappingNode {
			for j := 0; j < len(valueNode.Content); j += 2 {
				field := valueNode.Content[j].Value
				if !knownSuiteFields[field] {
					return fmt.Errorf("manifest: suite %q: line %d: unknown field %q", key, valueNode.Content[j].Line, field)
				}
			}
		}
		entry := new(suiteYAML)
		if err := valueNode.Decode(entry); err != nil {
			return fmt.Errorf("manifest: suite %q: %w", key, err)
		}
		items = append(items, suiteMapEntry{name: key, spec: entry})
	}
	sm.items = items
	return nil
}

func (mf manifestFile) toManifest(path string) *Manifest {
	result := &Manifest{
		Path:       path,
		Name:       strings.TrimSpace(mf.Name),
		Main:       strings.TrimSpace(mf.Main),
		Runtime:    RuntimeConfig{MaxCallDepth: mf.Runtime.MaxCallDepth},
		Suites:     make(map[string]*SuiteSpec, len(mf.Suites.items)),
		SuiteOrder: make([]string, 0, len(mf.Suites.items)),
	}
	for _, entry := range mf.Suites.items {
		spec := entry.spec
		if spec == nil {
			spec = &suiteYAML{}
		}
		var skip []string
		for _, s := range spec.Skip {
			skip = append(skip, strings.TrimSpace(s))
		}
		if _, dup := result.Suites[entry.name]; !dup {
			result.SuiteOrder = append(result.SuiteOrder, entry.name)
		}
		result.Suites[entry.name] = &SuiteSpec{
			Name:   entry.name,
			Path:   strings.TrimSpace(spec.Path),
			Git:    strings.TrimSpace(spec.Git),
			Rev:    strings.TrimSpace(spec.Rev),
			Tag:    strings.TrimSpace(spec.Tag),
			Branch: strings.TrimSpace(spec.Branch),
			Dir:    strings.TrimSpace(spec.Dir),
			Skip:   skip,
		}
	}
	return result
}
