// Package config loads the .ftlsync.yaml project file.
//
// The file supplies defaults for every command-line flag and may declare
// several Fluent resources to keep in sync. Flags given on the command line
// always win over the file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// FileName is the default config file name.
const FileName = ".ftlsync.yaml"

const (
	defaultSourceLang = "en"
	defaultSource     = "en.ftl"
	defaultOutPath    = "."
	defaultName       = "default"
)

// ---------------------------------------------------------------------------
// YAML schema
// ---------------------------------------------------------------------------

// File is the top-level .ftlsync.yaml structure.
type File struct {
	// SourceLang is the language of source resources (default "en").
	SourceLang string `yaml:"source_lang,omitempty"`
	// Locales is the default target list for all resources.
	Locales []string `yaml:"locales,omitempty"`
	// Credentials is the service-account key path, relative to the file.
	Credentials string `yaml:"credentials,omitempty"`
	// Location is the Cloud Translation location (default us-central1).
	Location string `yaml:"location,omitempty"`
	// Glossary is used by every resource that does not override it.
	Glossary Glossary `yaml:"glossary,omitempty"`
	// Timeout limits each API request, e.g. "30s".
	Timeout time.Duration `yaml:"timeout,omitempty"`
	// Resources lists the Fluent resources to synchronize.
	Resources []Resource `yaml:"resources,omitempty"`

	dir string
}

// Glossary names a Cloud Translation glossary.
type Glossary struct {
	Name       string `yaml:"name,omitempty"`
	IgnoreCase bool   `yaml:"ignore_case,omitempty"`
}

// Resource is one source .ftl file and where its translations go.
type Resource struct {
	// Name is a label shown in logs.
	Name string `yaml:"name"`
	// Source is the source-language file (default "en.ftl").
	Source string `yaml:"source,omitempty"`
	// Diff is the snapshot of Source from the previous run.
	Diff string `yaml:"diff,omitempty"`
	// OutPath is the directory receiving <locale>.ftl files (default ".").
	OutPath string `yaml:"outpath,omitempty"`
	// Locales overrides the global target list.
	Locales []string `yaml:"locales,omitempty"`
	// Glossary overrides the global glossary name.
	Glossary string `yaml:"glossary,omitempty"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load loads FileName from dir. Returns nil if the file does not exist.
func Load(dir string) (*File, error) {
	f, err := LoadPath(filepath.Join(dir, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return f, err
}

// LoadPath loads and validates a config file. Unknown keys are errors.
func LoadPath(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	f.dir = filepath.Dir(path)

	if err := f.normalize(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &f, nil
}

// Default returns the configuration used when no file exists.
func Default() *File {
	f := &File{dir: "."}
	_ = f.normalize()
	return f
}

// normalize fills in defaults and validates the file.
func (f *File) normalize() error {
	if f.SourceLang == "" {
		f.SourceLang = defaultSourceLang
	}
	if _, err := language.Parse(f.SourceLang); err != nil {
		return fmt.Errorf("invalid source_lang %q", f.SourceLang)
	}
	if err := validateLocales(f.Locales); err != nil {
		return err
	}
	if f.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}

	if len(f.Resources) == 0 {
		f.Resources = []Resource{{Name: defaultName}}
	}

	seen := make(map[string]bool)
	for i := range f.Resources {
		r := &f.Resources[i]
		if r.Name == "" {
			if len(f.Resources) > 1 {
				return fmt.Errorf("resource #%d has no name", i+1)
			}
			r.Name = defaultName
		}
		if seen[r.Name] {
			return fmt.Errorf("duplicate resource name %q", r.Name)
		}
		seen[r.Name] = true

		if r.Source == "" {
			r.Source = defaultSource
		}
		if r.OutPath == "" {
			r.OutPath = defaultOutPath
		}
		if len(r.Locales) == 0 {
			r.Locales = f.Locales
		}
		if r.Glossary == "" {
			r.Glossary = f.Glossary.Name
		}
		if err := validateLocales(r.Locales); err != nil {
			return fmt.Errorf("resource %q: %w", r.Name, err)
		}
	}
	return nil
}

func validateLocales(locales []string) error {
	for _, l := range locales {
		if _, err := language.Parse(l); err != nil {
			return fmt.Errorf("invalid locale %q", l)
		}
	}
	return nil
}

// CredentialsPath returns the credentials path resolved against the
// config file's directory, or "" if none is set.
func (f *File) CredentialsPath() string {
	if f.Credentials == "" {
		return ""
	}
	return f.abs(f.Credentials)
}

func (f *File) abs(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(f.dir, p)
}

// ---------------------------------------------------------------------------
// Resolving resources
// ---------------------------------------------------------------------------

// ResolvedResource holds a resource with paths resolved against the config
// file's directory and its final locale list.
type ResolvedResource struct {
	Name     string
	Source   string
	Diff     string // "" if no snapshot is configured
	OutPath  string
	Locales  []string
	Glossary string
}

// TargetPath returns the output file for a locale.
func (r *ResolvedResource) TargetPath(locale string) string {
	return filepath.Join(r.OutPath, locale+".ftl")
}

// Resolve returns every resource with resolved paths. Resources without
// locales get the ones found as <locale>.ftl files in their output
// directory.
func (f *File) Resolve() []ResolvedResource {
	out := make([]ResolvedResource, 0, len(f.Resources))
	for _, r := range f.Resources {
		rr := ResolvedResource{
			Name:     r.Name,
			Source:   f.abs(r.Source),
			OutPath:  f.abs(r.OutPath),
			Locales:  r.Locales,
			Glossary: r.Glossary,
		}
		if r.Diff != "" {
			rr.Diff = f.abs(r.Diff)
		}
		if len(rr.Locales) == 0 {
			rr.Locales = DetectLocales(rr.OutPath, rr.Source)
		}
		out = append(out, rr)
	}
	return out
}

// DetectLocales lists the locales of existing <locale>.ftl files in dir.
// The source file itself is skipped.
func DetectLocales(dir, source string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	srcAbs, _ := filepath.Abs(source)
	var locales []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".ftl") {
			continue
		}
		if p, _ := filepath.Abs(filepath.Join(dir, name)); p == srcAbs {
			continue
		}
		code := strings.TrimSuffix(name, ".ftl")
		if _, err := language.Parse(code); err == nil {
			locales = append(locales, code)
		}
	}
	sort.Strings(locales)
	return locales
}
