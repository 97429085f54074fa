package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Format is an output format derived from SVG.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPDF Format = "pdf"
	FormatPNG Format = "png"
)

// ParseFormat accepts "svg", "pdf" or "png" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatSVG, FormatPDF, FormatPNG:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported image format %q (want svg, pdf or png)", s)
	}
}

// Convert returns svg in the requested format. SVG is returned unchanged;
// PDF and PNG go through rsvg-convert. Scale only applies to PNG.
//
// Requires librsvg for PDF/PNG: brew install librsvg (macOS),
// apt install librsvg2-bin (Linux).
func Convert(svg []byte, format Format, scale float64) ([]byte, error) {
	return ConvertContext(context.Background(), svg, format, scale)
}

// ConvertContext is [Convert] with a context bounding the external process.
func ConvertContext(ctx context.Context, svg []byte, format Format, scale float64) ([]byte, error) {
	switch format {
	case FormatSVG:
		return svg, nil
	case FormatPDF:
		return rsvgConvert(ctx, svg, "pdf")
	case FormatPNG:
		if scale <= 0 {
			scale = 1
		}
		return rsvgConvert(ctx, svg, "png", "-z", fmt.Sprintf("%.2f", scale))
	default:
		return nil, fmt.Errorf("unsupported image format %q", format)
	}
}

func rsvgConvert(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		return nil, fmt.Errorf("%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, "rsvg-convert", args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("rsvg-convert: %v: %s", err, errBuf.String())
	}
	return out.Bytes(), nil
}
