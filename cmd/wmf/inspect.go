package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/wmfkit/internal/logger"
	"github.com/samcharles93/wmfkit/internal/wmfio"
	"github.com/samcharles93/wmfkit/pkg/wmf"
)

func inspectCmd() *cli.Command {
	var (
		asJSON      bool
		headersOnly bool
	)

	return &cli.Command{
		Name:      "inspect",
		Usage:     "Print the headers and records of a metafile (.wmf or .wmz)",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print the report as JSON", Destination: &asJSON},
			&cli.BoolFlag{Name: "headers-only", Usage: "skip the per-record listing", Destination: &headersOnly},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return errors.New("inspect: expected exactly one file")
			}
			path := cmd.Args().First()
			log := logger.FromContext(ctx)

			raw, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			data, err := wmfio.ReadAll(bytes.NewReader(raw), 0)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			mf, err := wmf.Parse(data, wmf.WithLogger(log.Slog()))
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			summary := wmfio.Summarize(mf, raw, !headersOnly)
			if summary.Failed > 0 {
				log.Warn("records failed to decode", "file", path, "failed", summary.Failed)
			}

			w := stdout(cmd)
			if asJSON {
				out, err := json.MarshalIndent(summary, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(w, "%s\n", out)
				return err
			}
			return printSummary(w, path, summary)
		},
	}
}

func printSummary(w io.Writer, path string, s wmfio.Summary) error {
	order := "little endian"
	if s.Foreign {
		order = "byte reversed"
	}
	total := 0
	for _, n := range s.Counts {
		total += n
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "file:       %s\n", path)
	fmt.Fprintf(&b, "bytes:      %d\n", s.Bytes)
	fmt.Fprintf(&b, "blake3:     %s\n", s.Digest)
	fmt.Fprintf(&b, "order:      %s\n", order)
	if p := s.Placeable; p != nil {
		check := "ok"
		if !p.Checksum {
			check = "MISMATCH"
		}
		fmt.Fprintf(&b, "placeable:  (%d,%d)-(%d,%d) %d units/inch, checksum %s\n",
			p.Left, p.Top, p.Right, p.Bottom, p.Inch, check)
	}
	h := s.Header
	fmt.Fprintf(&b, "header:     type %d, version %#04x, %d words, %d objects, largest record %d words\n",
		h.Type, h.Version, h.Sizew, h.NObjects, h.MaxSize)
	fmt.Fprintf(&b, "records:    %d", total)
	if s.Failed > 0 {
		fmt.Fprintf(&b, " (%d failed to decode)", s.Failed)
	}
	b.WriteByte('\n')

	for _, r := range s.Records {
		detail := r.Detail
		if r.Error != "" {
			detail = "error: " + r.Error
		}
		fmt.Fprintf(&b, "  %8d %6d  %-28s %s\n", r.Offset, r.Size, r.Type, detail)
	}
	_, err := w.Write(b.Bytes())
	return err
}
