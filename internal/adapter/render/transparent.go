package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"strings"
)

// whiteCutoff is the 16-bit channel value treated as opaque white.
const whiteCutoff = 0xfa00

// writeTransparentCopy writes "<name>_transparent.png" next to path with
// white background pixels made transparent.
func writeTransparentCopy(path string) (string, error) {
	in, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open rose image: %w", err)
	}
	defer in.Close()

	src, err := png.Decode(in)
	if err != nil {
		return "", fmt.Errorf("decode rose image: %w", err)
	}

	b := src.Bounds()
	dst := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := src.At(x, y).RGBA()
			if r >= whiteCutoff && g >= whiteCutoff && bl >= whiteCutoff && a == 0xffff {
				dst.SetNRGBA(x, y, color.NRGBA{})
				continue
			}
			dst.Set(x, y, src.At(x, y))
		}
	}

	outPath := strings.TrimSuffix(path, ".png") + "_transparent.png"
	out, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("create transparent image: %w", err)
	}
	if err := png.Encode(out, dst); err != nil {
		out.Close()
		return "", fmt.Errorf("encode transparent image: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close transparent image: %w", err)
	}
	return outPath, nil
}
