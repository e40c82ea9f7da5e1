package prefs

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p != Defaults() {
		t.Fatalf("Load = %#v, want %#v", p, Defaults())
	}
}

func TestLoad_DefaultLocationNormalises(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	file := filepath.Join(home, ".config", "hunter", "prefs.toml")
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(file, []byte("theme = \" Slate \"\nlang = \" EN \"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != "Slate" || p.Lang != "en" {
		t.Fatalf("Load = %#v, want Slate/en", p)
	}
}

func TestLoad_CorruptFileReportsAndDegrades(t *testing.T) {
	file := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(file, []byte("not valid toml {{{\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load(file)
	if err == nil {
		t.Fatalf("Load returned nil error for a corrupt file")
	}
	if p != Defaults() {
		t.Fatalf("Load = %#v, want defaults", p)
	}

	if err := Update(file, func(p *Prefs) { p.Lang = "zh" }); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	p, err = Load(file)
	if err != nil || p.Lang != "zh" || p.Theme != defaultTheme {
		t.Fatalf("after Update: %#v, %v", p, err)
	}
}

func TestSave_ReplacesAtomically(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	file := filepath.Join(dir, "prefs.toml")

	for _, theme := range []string{"Slate", "Dracula"} {
		if err := Save(file, Prefs{Theme: theme, Lang: "en"}); err != nil {
			t.Fatalf("Save returned error: %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "prefs.toml" {
		t.Fatalf("directory holds %v, want only prefs.toml", entries)
	}
	p, _ := Load(file)
	if p.Theme != "Dracula" || p.Lang != "en" {
		t.Fatalf("Load = %#v, want Dracula/en", p)
	}
}

func TestUpdate_ConcurrentFieldsSurvive(t *testing.T) {
	file := filepath.Join(t.TempDir(), "prefs.toml")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = Update(file, func(p *Prefs) { p.Theme = "Slate" })
	}()
	go func() {
		defer wg.Done()
		_ = Update(file, func(p *Prefs) { p.Lang = "en" })
	}()
	wg.Wait()

	p, err := Load(file)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != "Slate" || p.Lang != "en" {
		t.Fatalf("Load = %#v, want Slate/en", p)
	}
}
