package images

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"io"
)

// EncodeICO writes a multi-resolution ICO container. Each image becomes one
// directory entry with a PNG-compressed payload, the favicon convention
// modern browsers expect.
func EncodeICO(w io.Writer, rasters []image.Image) error {
	if len(rasters) == 0 {
		return fmt.Errorf("icon container needs at least one image")
	}

	const headerSize = 6
	const entrySize = 16

	type entry struct {
		width, height int
		payload       []byte
	}

	entries := make([]entry, 0, len(rasters))
	for _, img := range rasters {
		b := img.Bounds()
		if b.Dx() > 256 || b.Dy() > 256 {
			return fmt.Errorf("icon image %dx%d exceeds the 256px container limit", b.Dx(), b.Dy())
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return fmt.Errorf("failed to encode icon entry: %w", err)
		}
		entries = append(entries, entry{width: b.Dx(), height: b.Dy(), payload: buf.Bytes()})
	}

	// ICONDIR: reserved, type 1 (icon), count
	header := []any{uint16(0), uint16(1), uint16(len(entries))}
	for _, v := range header {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}

	// ICONDIRENTRY per raster; width/height bytes use 0 to mean 256
	offset := uint32(headerSize + entrySize*len(entries))
	for _, e := range entries {
		dims := [4]byte{byte(e.width % 256), byte(e.height % 256), 0, 0}
		if _, err := w.Write(dims[:]); err != nil {
			return err
		}
		fields := []any{
			uint16(1),  // color planes
			uint16(32), // bits per pixel
			uint32(len(e.payload)),
			offset,
		}
		for _, v := range fields {
			if err := binary.Write(w, binary.LittleEndian, v); err != nil {
				return err
			}
		}
		offset += uint32(len(e.payload))
	}

	for _, e := range entries {
		if _, err := w.Write(e.payload); err != nil {
			return err
		}
	}

	return nil
}
