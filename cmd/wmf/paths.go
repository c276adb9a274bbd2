package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/wmfkit/pkg/wmf"
)

const envOutDir = "WMFKIT_OUT_DIR"

func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

// resolveOutDir picks the --out-dir flag, then $WMFKIT_OUT_DIR. The result
// may be empty.
func resolveOutDir(flag string) string {
	if dir := strings.TrimSpace(flag); dir != "" {
		return filepath.Clean(dir)
	}
	if dir := strings.TrimSpace(os.Getenv(envOutDir)); dir != "" {
		return filepath.Clean(dir)
	}
	return ""
}

func splitName(path string) (stem, ext string) {
	base := filepath.Base(filepath.Clean(path))
	ext = filepath.Ext(base)
	return strings.TrimSuffix(base, ext), ext
}

// resolveConvertOut names the converted copy of in. Without an output
// directory the copy sits next to the input with the byte order in its name.
// The extension is kept so .wmz input stays compressed.
func resolveConvertOut(in, outDir string, order wmf.ByteOrder) (string, error) {
	stem, ext := splitName(in)
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		return "", fmt.Errorf("invalid input file: %q", in)
	}
	if outDir == "" {
		return filepath.Join(filepath.Dir(in), stem+"."+order.String()+ext), nil
	}
	out := filepath.Join(outDir, stem+ext)
	if same, err := samePath(in, out); err != nil {
		return "", err
	} else if same {
		return "", fmt.Errorf("output %s would overwrite its input", out)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}
	return out, nil
}

// resolveBuildOut mirrors resolveConvertOut for scenes: an explicit output
// wins, otherwise <out dir>/<scene>.wmf with ./out as the last resort.
func resolveBuildOut(scenePath, outFlag, outDir string) (string, bool, error) {
	outFlag = strings.TrimSpace(outFlag)
	if outFlag != "" {
		outPath := filepath.Clean(outFlag)
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return "", false, err
		}
		return outPath, false, nil
	}

	stem, _ := splitName(scenePath)
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		return "", true, fmt.Errorf("invalid scene file: %q", scenePath)
	}
	if outDir == "" {
		outDir = filepath.Join(".", "out")
	}
	outPath := filepath.Join(outDir, stem+".wmf")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", true, err
	}
	return outPath, true, nil
}

// extractName names the PNG for the bitmap in record index of in.
func extractName(outDir, in string, index int) string {
	stem, _ := splitName(in)
	return filepath.Join(outDir, fmt.Sprintf("%s-%04d.png", stem, index))
}

func samePath(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, err
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, err
	}
	return absA == absB, nil
}
