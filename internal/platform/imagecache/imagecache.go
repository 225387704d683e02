// Package imagecache serves resized JPEG renditions of local image assets and
// keeps them on disk so each rendition is produced once.
package imagecache

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Size names a rendition.
type Size string

const (
	SizeThumb  Size = "thumb"
	SizeMedium Size = "medium"
)

const (
	qualityThumb  = 60
	qualityMedium = 75
	maxSizeThumb  = 300
	maxSizeMedium = 800
)

// ErrNotFound is returned when the source asset does not exist.
var ErrNotFound = errors.New("image not found")

// ParseSize maps a query value onto a rendition. Unknown values fall back to
// medium.
func ParseSize(s string) Size {
	if Size(strings.ToLower(strings.TrimSpace(s))) == SizeThumb {
		return SizeThumb
	}
	return SizeMedium
}

func (s Size) limits() (maxDim, quality int) {
	if s == SizeThumb {
		return maxSizeThumb, qualityThumb
	}
	return maxSizeMedium, qualityMedium
}

// Cache reads originals from srcDir and stores renditions under cacheDir.
type Cache struct {
	srcDir   string
	cacheDir string
	logger   zerolog.Logger
	flight   singleflight.Group
}

func New(srcDir, cacheDir string, logger zerolog.Logger) *Cache {
	return &Cache{
		srcDir:   srcDir,
		cacheDir: cacheDir,
		logger:   logger.With().Str("component", "imagecache").Logger(),
	}
}

// EnsureDir creates the cache directory if it does not exist.
func (c *Cache) EnsureDir() error {
	if err := os.MkdirAll(c.cacheDir, 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	return nil
}

// Path returns the cache file for name at size.
func (c *Cache) Path(name string, size Size) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return filepath.Join(c.cacheDir, fmt.Sprintf("%s_%s.jpg", base, size))
}

// Get returns the JPEG rendition of the asset called name. name must be a bare
// file name; anything with a path component is rejected as not found.
func (c *Cache) Get(name string, size Size) ([]byte, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return nil, ErrNotFound
	}

	cachePath := c.Path(name, size)
	if data, err := os.ReadFile(cachePath); err == nil {
		return data, nil
	}

	v, err, _ := c.flight.Do(cachePath, func() (any, error) {
		src, err := os.ReadFile(filepath.Join(c.srcDir, name))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("read source image: %w", err)
		}
		data, err := Optimize(src, size)
		if err != nil {
			return nil, err
		}
		if err := c.save(cachePath, data); err != nil {
			// Serving the rendition matters more than caching it.
			c.logger.Warn().Err(err).Str("path", cachePath).Msg("image cache write failed")
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (c *Cache) save(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("commit cache file: %w", err)
	}
	c.logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("image cached")
	return nil
}

// Optimize decodes imageData, shrinks it to fit the rendition's bounds while
// keeping the aspect ratio, and re-encodes it as JPEG.
func Optimize(imageData []byte, size Size) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(imageData), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	maxDim, quality := size.limits()
	b := img.Bounds()
	if b.Dx() > maxDim || b.Dy() > maxDim {
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
