package images

// Image converter for automatic scaling and format conversion.
//
// Responsibilities:
// 1. Generate responsive raster sizes per requested width
// 2. Convert to multiple formats (webp, jpeg, png, gif)
// 3. Favicon generation: multi-size .ico container
// 4. Deterministic output names: <basename>-<width>.<format>, <basename>.ico

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
	"golang.org/x/sync/errgroup"

	"github.com/MathJSLab/mathjslab-www/config"
)

// Converter resizes and encodes source images into the configured outputs.
type Converter struct {
	cfg config.ImagesConfig
}

// NewConverter creates a converter with the given defaults.
func NewConverter(cfg config.ImagesConfig) *Converter {
	return &Converter{cfg: cfg}
}

// ConvertAll processes every transform concurrently. All transforms start
// together and completion waits for all of them; a failing transform does
// not roll back siblings that already wrote output.
func (c *Converter) ConvertAll(transforms []config.Transform) error {
	var g errgroup.Group
	for _, t := range transforms {
		g.Go(func() error {
			return c.Convert(t)
		})
	}
	return g.Wait()
}

// Convert processes a single transform descriptor.
func (c *Converter) Convert(t config.Transform) error {
	outDir := t.OutputDir
	if outDir == "" {
		outDir = c.cfg.OutputDir
	}
	if outDir == "" {
		return fmt.Errorf("no output directory for %s", t.Src)
	}

	// Idempotent; safe under concurrent transforms sharing a directory
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	basename := t.OutputBasename
	if basename == "" {
		basename = strings.TrimSuffix(filepath.Base(t.Src), filepath.Ext(t.Src))
	}

	formats := t.Formats
	if len(formats) == 0 {
		formats = c.cfg.Formats
	}
	widths := t.Widths
	if len(widths) == 0 {
		widths = c.cfg.Widths
	}

	src, err := imaging.Open(t.Src)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", t.Src, err)
	}

	formats, hasIcon := splitIconFormat(formats)
	if hasIcon {
		// Explicit transform widths win; otherwise icons use the icon sizes,
		// not the raster widths
		if err := c.writeIcon(src, t.Src, outDir, basename, t.Widths); err != nil {
			return err
		}
	}

	for _, format := range formats {
		for _, width := range widths {
			name := fmt.Sprintf("%s-%d.%s", basename, width, format)
			path := filepath.Join(outDir, name)
			resized := imaging.Resize(src, width, 0, imaging.Lanczos)
			if err := c.save(resized, path, format); err != nil {
				return fmt.Errorf("failed to encode %s as %s: %w", t.Src, name, err)
			}
			log.Printf("✓ %s (%dpx %s)", path, width, format)
		}
	}

	return nil
}

// writeIcon produces one square raster per width and packs them all into a
// single multi-resolution .ico container. The intermediate rasters never
// touch the disk.
func (c *Converter) writeIcon(src image.Image, srcPath, outDir, basename string, widths []int) error {
	if len(widths) == 0 {
		widths = c.cfg.IconSizes
	}

	rasters := make([]image.Image, 0, len(widths))
	for _, w := range widths {
		rasters = append(rasters, imaging.Fill(src, w, w, imaging.Center, imaging.Lanczos))
	}

	path := filepath.Join(outDir, basename+".ico")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := EncodeICO(f, rasters); err != nil {
		return fmt.Errorf("failed to encode %s as icon: %w", srcPath, err)
	}

	log.Printf("✓ %s (%d sizes)", path, len(rasters))
	return nil
}

func (c *Converter) save(img image.Image, path, format string) error {
	switch strings.ToLower(format) {
	case "webp":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		opts, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, c.cfg.WebPQuality)
		if err != nil {
			return err
		}
		return webp.Encode(f, img, opts)
	default:
		return imaging.Save(img, path, imaging.JPEGQuality(c.cfg.JPEGQuality))
	}
}

// splitIconFormat removes the icon-container format from the raster list.
func splitIconFormat(formats []string) ([]string, bool) {
	out := make([]string, 0, len(formats))
	found := false
	for _, f := range formats {
		if strings.EqualFold(f, "ico") {
			found = true
			continue
		}
		out = append(out, f)
	}
	return out, found
}
