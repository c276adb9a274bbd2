package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/samcharles93/wmfkit/pkg/wmf"
)

func TestResolveConvertOut(t *testing.T) {
	t.Run("next to input without out dir", func(t *testing.T) {
		in := filepath.Join(t.TempDir(), "chart.wmf")
		got, err := resolveConvertOut(in, "", wmf.BigEndian)
		if err != nil {
			t.Fatalf("resolveConvertOut returned error: %v", err)
		}
		want := filepath.Join(filepath.Dir(in), "chart.big.wmf")
		if got != want {
			t.Fatalf("unexpected output path: got %q want %q", got, want)
		}
	})

	t.Run("out dir keeps name and extension", func(t *testing.T) {
		in := filepath.Join(t.TempDir(), "chart.wmz")
		outDir := filepath.Join(t.TempDir(), "nested", "out")
		got, err := resolveConvertOut(in, outDir, wmf.LittleEndian)
		if err != nil {
			t.Fatalf("resolveConvertOut returned error: %v", err)
		}
		if want := filepath.Join(outDir, "chart.wmz"); got != want {
			t.Fatalf("unexpected output path: got %q want %q", got, want)
		}
		if _, err := os.Stat(outDir); err != nil {
			t.Fatalf("expected output directory to exist: %v", err)
		}
	})

	t.Run("refuses to overwrite input", func(t *testing.T) {
		dir := t.TempDir()
		if _, err := resolveConvertOut(filepath.Join(dir, "chart.wmf"), dir, wmf.BigEndian); err == nil {
			t.Fatalf("expected error when output equals input")
		}
	})
}

func TestResolveBuildOut(t *testing.T) {
	t.Run("explicit output wins", func(t *testing.T) {
		outPath := filepath.Join(t.TempDir(), "nested", "house.wmf")

		got, defaulted, err := resolveBuildOut("scenes/house.yaml", outPath, "ignored")
		if err != nil {
			t.Fatalf("resolveBuildOut returned error: %v", err)
		}
		if defaulted {
			t.Fatalf("expected explicit output to not be defaulted")
		}
		if got != filepath.Clean(outPath) {
			t.Fatalf("unexpected output path: got %q want %q", got, filepath.Clean(outPath))
		}
		if _, err := os.Stat(filepath.Dir(got)); err != nil {
			t.Fatalf("expected output directory to exist: %v", err)
		}
	})

	t.Run("out dir from env", func(t *testing.T) {
		envDir := filepath.Join(t.TempDir(), "build-out")
		t.Setenv(envOutDir, envDir)

		got, defaulted, err := resolveBuildOut("scenes/house.yaml", "", resolveOutDir(""))
		if err != nil {
			t.Fatalf("resolveBuildOut returned error: %v", err)
		}
		if !defaulted {
			t.Fatalf("expected output to be defaulted")
		}
		if want := filepath.Join(envDir, "house.wmf"); got != want {
			t.Fatalf("unexpected output path: got %q want %q", got, want)
		}
	})

	t.Run("flag beats env", func(t *testing.T) {
		t.Setenv(envOutDir, "/nonexistent/env")
		flagDir := t.TempDir()
		if got := resolveOutDir(flagDir + "/"); got != filepath.Clean(flagDir) {
			t.Fatalf("resolveOutDir: got %q want %q", got, flagDir)
		}
	})

	t.Run("default output dir is ./out", func(t *testing.T) {
		t.Setenv(envOutDir, "")
		wd, err := os.Getwd()
		if err != nil {
			t.Fatalf("getwd: %v", err)
		}
		tmp := t.TempDir()
		if err := os.Chdir(tmp); err != nil {
			t.Fatalf("chdir: %v", err)
		}
		defer func() {
			_ = os.Chdir(wd)
		}()

		got, defaulted, err := resolveBuildOut("house.yaml", "", resolveOutDir(""))
		if err != nil {
			t.Fatalf("resolveBuildOut returned error: %v", err)
		}
		if !defaulted {
			t.Fatalf("expected output to be defaulted")
		}
		if want := filepath.Join("out", "house.wmf"); got != want {
			t.Fatalf("unexpected output path: got %q want %q", got, want)
		}
		if _, err := os.Stat(filepath.Join(tmp, "out")); err != nil {
			t.Fatalf("expected ./out to exist: %v", err)
		}
	})
}

func TestExtractName(t *testing.T) {
	t.Parallel()

	got := extractName("pngs", "/data/logo.wmz", 7)
	if want := filepath.Join("pngs", "logo-0007.png"); got != want {
		t.Fatalf("extractName: got %q want %q", got, want)
	}
}
