package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/wmfkit/internal/logger"
	"github.com/samcharles93/wmfkit/internal/scene"
	"github.com/samcharles93/wmfkit/internal/wmfio"
	"github.com/samcharles93/wmfkit/pkg/wmf"
)

func buildCmd() *cli.Command {
	var (
		out    string
		outDir string
		order  string
		chunk  int64
		dpi    int64
	)

	return &cli.Command{
		Name:      "build",
		Usage:     "Compile a YAML scene into a placeable metafile",
		ArgsUsage: "SCENE.yaml",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "out",
				Usage:       "output file; .wmz is gzip compressed",
				Destination: &out,
			},
			outDirFlag(&outDir),
			orderFlag(&order),
			&cli.Int64Flag{
				Name:        "chunk-size",
				Usage:       "output buffer growth in bytes when the scene sets none",
				Destination: &chunk,
			},
			&cli.Int64Flag{
				Name:        "dpi",
				Usage:       "logical units per inch when the scene sets none",
				Destination: &dpi,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyBuildConfig(cmd, LoadConfig(), &order, &chunk, &dpi)
			if cmd.NArg() != 1 {
				return errors.New("build: expected exactly one scene file")
			}
			bo, err := wmf.ParseByteOrder(order)
			if err != nil {
				return err
			}
			if chunk < 0 || dpi < 0 {
				return errors.New("build: --chunk-size and --dpi must not be negative")
			}
			log := logger.FromContext(ctx)

			in := cmd.Args().First()
			s, err := scene.LoadFile(in)
			if err != nil {
				return err
			}
			if s.ChunkSize == 0 {
				s.ChunkSize = int(chunk)
			}
			if s.DPI == 0 {
				s.DPI = uint32(dpi)
			}
			path, defaulted, err := resolveBuildOut(in, out, resolveOutDir(outDir))
			if err != nil {
				return err
			}
			if defaulted {
				log.Debug("no --out given", "path", path)
			}

			var buf bytes.Buffer
			st, err := scene.Compile(s, &buf, wmf.WithByteOrder(bo), wmf.WithLogger(log.Slog()))
			if err != nil {
				return fmt.Errorf("%s: %w", in, err)
			}
			if err := wmfio.WriteFile(path, buf.Bytes()); err != nil {
				return err
			}
			log.Info("built metafile",
				"scene", in,
				"out", path,
				"order", bo.String(),
				"records", st.Records,
				"objects", st.Objects,
				"bytes", st.Bytes,
			)
			_, _ = fmt.Fprintln(stdout(cmd), path)
			return nil
		},
	}
}
