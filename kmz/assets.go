package kmz

import (
	"image"
	"mime"
	"path"
	"strings"

	// Raster formats commonly embedded in KMZ archives.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Asset describes a non-KML entry in the archive, typically an overlay
// image, placemark icon, or survey photo.
type Asset struct {
	Name        string // Entry name within the archive
	Size        int64  // Uncompressed size in bytes
	ContentType string // MIME type guessed from the extension
	Width       int    // Pixel width for recognized raster images, 0 otherwise
	Height      int    // Pixel height for recognized raster images, 0 otherwise
}

// Assets lists the archive's non-KML entries in listing order. For
// entries with a recognized raster image header the pixel dimensions
// are filled in; entries that fail to decode are still listed with
// zero dimensions.
func (r *Reader) Assets() []Asset {
	zr := r.getZipReader()
	if zr == nil {
		return nil
	}

	var assets []Asset
	for _, f := range zr.File {
		if isKMLEntry(f.Name) || isDirEntry(f.Name) {
			continue
		}

		a := Asset{
			Name:        f.Name,
			Size:        int64(f.UncompressedSize64),
			ContentType: mime.TypeByExtension(strings.ToLower(path.Ext(f.Name))),
		}

		if strings.HasPrefix(a.ContentType, "image/") {
			if rc, err := f.Open(); err == nil {
				if cfg, _, err := image.DecodeConfig(rc); err == nil {
					a.Width = cfg.Width
					a.Height = cfg.Height
				}
				rc.Close()
			}
		}

		assets = append(assets, a)
	}
	return assets
}

// isDirEntry reports whether a zip entry is a directory placeholder.
func isDirEntry(name string) bool {
	return strings.HasSuffix(name, "/")
}
