package imagefetch

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const DefaultMaxSize = 650

// ArchiveStats counts what WriteArchive did with each image.
type ArchiveStats struct {
	Written     int
	Skipped     int
	Duplicates  int
	Transparent int
}

// WriteArchive writes images into a ZIP on w. Every image is decoded,
// converted to RGBA, shrunk to fit maxSize x maxSize and stored as PNG under
// its filename. Undecodable images are skipped; repeated filenames keep the
// first image.
func WriteArchive(w io.Writer, images []Image, maxSize int) (ArchiveStats, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	var stats ArchiveStats
	archive := zip.NewWriter(w)
	written := make(map[string]struct{}, len(images))

	for _, img := range images {
		if _, ok := written[img.Filename]; ok {
			stats.Duplicates++
			continue
		}

		decoded, _, err := image.Decode(bytes.NewReader(img.Data))
		if err != nil {
			stats.Skipped++
			continue
		}
		if !isOpaque(decoded) {
			stats.Transparent++
		}

		var encoded bytes.Buffer
		if err := png.Encode(&encoded, Thumbnail(decoded, maxSize)); err != nil {
			stats.Skipped++
			continue
		}

		entry, err := archive.Create(img.Filename)
		if err != nil {
			return stats, fmt.Errorf("create archive entry %s: %w", img.Filename, err)
		}
		if _, err := entry.Write(encoded.Bytes()); err != nil {
			return stats, fmt.Errorf("write archive entry %s: %w", img.Filename, err)
		}
		written[img.Filename] = struct{}{}
		stats.Written++
	}

	if err := archive.Close(); err != nil {
		return stats, fmt.Errorf("close archive: %w", err)
	}
	return stats, nil
}

// Thumbnail returns an RGBA copy of src scaled down, keeping the aspect
// ratio, so that neither side exceeds maxSize. Smaller images are not enlarged.
func Thumbnail(src image.Image, maxSize int) *image.RGBA {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if width <= maxSize && height <= maxSize {
		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Src)
		return dst
	}

	newWidth, newHeight := maxSize, maxSize
	if width >= height {
		newHeight = max(1, (height*maxSize+width/2)/width)
	} else {
		newWidth = max(1, (width*maxSize+height/2)/height)
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)
	return dst
}

func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return false
			}
		}
	}
	return true
}
