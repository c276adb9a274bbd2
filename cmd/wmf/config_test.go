package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/urfave/cli/v3"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	if cfg := LoadConfig(); cfg != (Config{}) {
		t.Fatalf("expected zero config without a file, got %+v", cfg)
	}

	path := filepath.Join(dir, "wmfkit", "config.yaml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	doc := "log_level: debug\nserver_address: 0.0.0.0:9000\noutput_order: big\njobs: 3\ndpi: 600\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg := LoadConfig()
	if cfg.LogLevel != "debug" || cfg.ServerAddress != "0.0.0.0:9000" || cfg.OutputOrder != "big" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Jobs == nil || *cfg.Jobs != 3 || cfg.DPI == nil || *cfg.DPI != 600 {
		t.Fatalf("unexpected numeric fields: %+v", cfg)
	}
	if cfg.ChunkSize != nil {
		t.Fatalf("chunk_size should be unset, got %d", *cfg.ChunkSize)
	}

	if err := os.WriteFile(path, []byte("jobs: [1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if cfg := LoadConfig(); cfg != (Config{}) {
		t.Fatalf("expected zero config for malformed file, got %+v", cfg)
	}
}

func TestApplyConvertConfig(t *testing.T) {
	t.Parallel()

	jobsCfg := int64(3)
	cfg := Config{OutputOrder: "big", Jobs: &jobsCfg}

	run := func(args ...string) (string, int64) {
		t.Helper()
		var (
			order string
			jobs  int64
		)
		cmd := &cli.Command{
			Name:  "convert",
			Flags: []cli.Flag{orderFlag(&order), jobsFlag(&jobs)},
			Action: func(ctx context.Context, c *cli.Command) error {
				applyConvertConfig(c, cfg, &order, &jobs)
				return nil
			},
		}
		if err := cmd.Run(context.Background(), append([]string{"convert"}, args...)); err != nil {
			t.Fatalf("run: %v", err)
		}
		return order, jobs
	}

	if order, jobs := run(); order != "big" || jobs != 3 {
		t.Fatalf("config defaults not applied: order %q jobs %d", order, jobs)
	}
	if order, jobs := run("--order", "little", "--jobs", "5"); order != "little" || jobs != 5 {
		t.Fatalf("flags must win over config: order %q jobs %d", order, jobs)
	}
}

func TestApplyBuildConfig(t *testing.T) {
	t.Parallel()

	chunkCfg, dpiCfg := int64(512), int64(300)
	cfg := Config{ChunkSize: &chunkCfg, DPI: &dpiCfg}

	var (
		order      string
		chunk, dpi int64
	)
	cmd := &cli.Command{
		Name: "build",
		Flags: []cli.Flag{
			orderFlag(&order),
			&cli.Int64Flag{Name: "chunk-size", Destination: &chunk},
			&cli.Int64Flag{Name: "dpi", Destination: &dpi},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			applyBuildConfig(c, cfg, &order, &chunk, &dpi)
			return nil
		},
	}
	if err := cmd.Run(context.Background(), []string{"build", "--dpi", "72"}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if order != "little" || chunk != 512 || dpi != 72 {
		t.Fatalf("unexpected values: order %q chunk %d dpi %d", order, chunk, dpi)
	}
}
