package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/samcharles93/wmfkit/internal/logger"
	"github.com/samcharles93/wmfkit/internal/wmfio"
	"github.com/samcharles93/wmfkit/pkg/wmf"
)

func convertCmd() *cli.Command {
	var (
		order  string
		outDir string
		jobs   int64
	)

	return &cli.Command{
		Name:      "convert",
		Usage:     "Rewrite metafiles in little or big endian byte order",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			orderFlag(&order),
			outDirFlag(&outDir),
			jobsFlag(&jobs),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyConvertConfig(cmd, LoadConfig(), &order, &jobs)
			if cmd.NArg() == 0 {
				return errors.New("convert: no input files")
			}
			bo, err := wmf.ParseByteOrder(order)
			if err != nil {
				return err
			}
			if jobs < 1 {
				return fmt.Errorf("convert: --jobs must be positive, got %d", jobs)
			}
			return convertAll(ctx, logger.FromContext(ctx), cmd.Args().Slice(), resolveOutDir(outDir), bo, int(jobs))
		},
	}
}

func convertAll(ctx context.Context, log logger.Logger, inputs []string, outDir string, order wmf.ByteOrder, jobs int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for _, in := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := resolveConvertOut(in, outDir, order)
			if err != nil {
				return err
			}
			if err := convertFile(log, in, out, order); err != nil {
				return fmt.Errorf("%s: %w", in, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// convertFile writes in to out in the requested byte order. Input of
// either order is accepted.
func convertFile(log logger.Logger, in, out string, order wmf.ByteOrder) error {
	mf, err := wmfio.Load(in, wmf.WithLogger(log.Slog()))
	if err != nil {
		return err
	}
	defer func() { _ = mf.Close() }()

	data := bytes.Clone(mf.Data)
	if order == wmf.BigEndian {
		if err := wmf.SwapFile(data, true); err != nil {
			return err
		}
	}
	if err := wmfio.WriteFile(out, data); err != nil {
		return err
	}
	log.Info("converted",
		"in", in,
		"out", out,
		"order", order.String(),
		"was_foreign", mf.Foreign,
		"records", len(mf.Records),
	)
	return nil
}
