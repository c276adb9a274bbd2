package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/wmfkit/internal/logger"
	"github.com/samcharles93/wmfkit/internal/wmfio"
	"github.com/samcharles93/wmfkit/pkg/wmf"
)

func extractCmd() *cli.Command {
	var outDir string

	return &cli.Command{
		Name:      "extract",
		Usage:     "Write the bitmaps embedded in a metafile as PNG files",
		ArgsUsage: "FILE",
		Flags:     []cli.Flag{outDirFlag(&outDir)},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return errors.New("extract: expected exactly one file")
			}
			dir := resolveOutDir(outDir)
			if dir == "" {
				dir = "."
			}
			in := cmd.Args().First()
			written, err := extractBitmaps(logger.FromContext(ctx), in, dir)
			if err != nil {
				return err
			}
			for _, p := range written {
				_, _ = fmt.Fprintln(stdout(cmd), p)
			}
			return nil
		},
	}
}

// recordDIB returns the device independent bitmap carried by rec, if any.
func recordDIB(rec wmf.Record) (wmf.DIB, bool) {
	var d wmf.DIB
	switch r := rec.(type) {
	case wmf.DIBBitBlt:
		d = r.DIB
	case wmf.DIBStretchBlt:
		d = r.DIB
	case wmf.StretchDIB:
		d = r.DIB
	case wmf.SetDIBToDev:
		d = r.DIB
	case wmf.DIBCreatePatternBrush:
		if r.Bitmap != nil {
			return nil, false
		}
		d = r.DIB
	}
	return d, len(d) > 0
}

// extractBitmaps writes one PNG per bitmap record. Bitmaps the decoder
// cannot render are logged and skipped.
func extractBitmaps(log logger.Logger, in, outDir string) ([]string, error) {
	mf, err := wmfio.Load(in, wmf.WithLogger(log.Slog()))
	if err != nil {
		return nil, err
	}
	defer func() { _ = mf.Close() }()

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}
	var written []string
	for i, ref := range mf.Records {
		rec, err := mf.Decode(i)
		if err != nil {
			log.Debug("skipping undecodable record", "index", i, "type", ref.Type.String(), "err", err)
			continue
		}
		dib, ok := recordDIB(rec)
		if !ok {
			continue
		}
		img, err := dib.Image()
		if err != nil {
			log.Warn("skipping bitmap", "index", i, "type", ref.Type.String(), "err", err)
			continue
		}
		path := extractName(outDir, in, i)
		if err := writePNG(path, img); err != nil {
			return written, err
		}
		log.Debug("extracted bitmap", "index", i, "path", path, "bounds", img.Bounds().String())
		written = append(written, path)
	}
	log.Info("extracted bitmaps", "file", in, "count", len(written))
	return written, nil
}

func writePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return png.Encode(f, img)
}
