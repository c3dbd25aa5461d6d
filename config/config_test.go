package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestLoadDefaultsAndValidation(t *testing.T) {
	t.Run("missing file returns nil", func(t *testing.T) {
		f, err := Load(t.TempDir())
		if err != nil {
			t.Fatalf("Load error: %v", err)
		}
		if f != nil {
			t.Fatalf("Load expected nil, got %#v", f)
		}
	})

	t.Run("empty file gets one default resource", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "")
		f, err := Load(dir)
		if err != nil {
			t.Fatalf("Load error: %v", err)
		}
		if f.SourceLang != "en" {
			t.Fatalf("SourceLang = %q, want en", f.SourceLang)
		}
		if len(f.Resources) != 1 || f.Resources[0].Source != "en.ftl" || f.Resources[0].OutPath != "." {
			t.Fatalf("Resources = %#v", f.Resources)
		}
	})

	t.Run("applies defaults and inheritance", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "locales: [fr, de]\n"+
			"credentials: keys/sa.json\n"+
			"timeout: 45s\n"+
			"glossary:\n"+
			"  name: ui\n"+
			"  ignore_case: true\n"+
			"resources:\n"+
			"  - name: app\n"+
			"    source: i18n/en.ftl\n"+
			"    diff: i18n/.en.prev.ftl\n"+
			"    outpath: i18n\n"+
			"  - name: site\n"+
			"    locales: [ja]\n"+
			"    glossary: web\n")

		f, err := Load(dir)
		if err != nil {
			t.Fatalf("Load error: %v", err)
		}
		if f.Timeout != 45*time.Second {
			t.Fatalf("Timeout = %v, want 45s", f.Timeout)
		}
		if !f.Glossary.IgnoreCase {
			t.Fatal("glossary ignore_case not read")
		}
		if got, want := f.CredentialsPath(), filepath.Join(dir, "keys", "sa.json"); got != want {
			t.Fatalf("CredentialsPath() = %q, want %q", got, want)
		}

		app, site := f.Resources[0], f.Resources[1]
		if !reflect.DeepEqual(app.Locales, []string{"fr", "de"}) {
			t.Fatalf("app.Locales = %v, want [fr de]", app.Locales)
		}
		if app.Glossary != "ui" || site.Glossary != "web" {
			t.Fatalf("glossaries = %q, %q", app.Glossary, site.Glossary)
		}
		if site.Source != "en.ftl" {
			t.Fatalf("site.Source = %q, want en.ftl", site.Source)
		}

		resolved := f.Resolve()
		if resolved[0].Source != filepath.Join(dir, "i18n", "en.ftl") {
			t.Fatalf("resolved source = %q", resolved[0].Source)
		}
		if resolved[0].Diff != filepath.Join(dir, "i18n", ".en.prev.ftl") {
			t.Fatalf("resolved diff = %q", resolved[0].Diff)
		}
		if resolved[1].Diff != "" {
			t.Fatalf("site should have no diff, got %q", resolved[1].Diff)
		}
		if got := resolved[0].TargetPath("fr"); got != filepath.Join(dir, "i18n", "fr.ftl") {
			t.Fatalf("TargetPath(fr) = %q", got)
		}
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "languages: [fr]\n")
		_, err := Load(dir)
		if err == nil {
			t.Fatal("expected error for unknown key")
		}
		if !strings.Contains(err.Error(), FileName) {
			t.Fatalf("error %q does not name the file", err)
		}
	})

	t.Run("rejects bad locales", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "resources:\n  - name: app\n    locales: [\"not a locale\"]\n")
		_, err := Load(dir)
		if err == nil || !strings.Contains(err.Error(), "invalid locale") {
			t.Fatalf("expected invalid locale error, got %v", err)
		}
	})

	t.Run("requires names for several resources", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "resources:\n  - source: a.ftl\n  - source: b.ftl\n")
		_, err := Load(dir)
		if err == nil || !strings.Contains(err.Error(), "has no name") {
			t.Fatalf("expected missing name error, got %v", err)
		}
	})

	t.Run("rejects duplicate names", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "resources:\n  - name: a\n  - name: a\n")
		_, err := Load(dir)
		if err == nil || !strings.Contains(err.Error(), "duplicate") {
			t.Fatalf("expected duplicate error, got %v", err)
		}
	})
}

func TestResolveDetectsLocales(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"en.ftl", "de.ftl", "pt-BR.ftl", "notes.txt", "not a locale.ftl"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(""), 0644); err != nil {
			t.Fatalf("WriteFile %s: %v", name, err)
		}
	}
	writeConfig(t, dir, "resources:\n  - name: app\n")

	f, err := Load(dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	resolved := f.Resolve()
	if len(resolved) != 1 {
		t.Fatalf("expected 1 resource, got %d", len(resolved))
	}
	if !filepath.IsAbs(resolved[0].OutPath) {
		t.Fatalf("OutPath is not absolute: %q", resolved[0].OutPath)
	}
	if !reflect.DeepEqual(resolved[0].Locales, []string{"de", "pt-BR"}) {
		t.Fatalf("resolved locales = %v, want [de pt-BR]", resolved[0].Locales)
	}
}

func TestDefault(t *testing.T) {
	f := Default()
	if f.SourceLang != "en" || len(f.Resources) != 1 {
		t.Fatalf("Default() = %#v", f)
	}
	if got := f.Resolve()[0].Source; got != "en.ftl" {
		t.Fatalf("default source = %q, want en.ftl", got)
	}
}
