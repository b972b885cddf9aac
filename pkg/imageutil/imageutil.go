// Package imageutil prepares fetched images for display: fitting to monitor
// geometry, rounded-corner rendering, and content-aware cropping. Rendered
// variants are cached through the same disk cache as downloads.
package imageutil

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"

	"github.com/hyprland-community/wallfetch/pkg/cache"
)

// imageFormat is the on-disk format for rendered variants.
const imageFormat = "jpg"

// maskScale is the supersampling factor for the rounded-corner mask; the
// mask is rendered large and downscaled for smooth edges.
const maskScale = 4

// Monitor describes one output an image is fitted to.
type Monitor struct {
	Name      string
	Width     int
	Height    int
	Transform int     // output transform; odd values mean 90/270 rotation
	Scale     float64 // output scale factor, 1.0 when unset
}

// EffectiveSize returns the logical size an image must fill: rotated
// dimensions are swapped and the output scale divided out.
func (m Monitor) EffectiveSize() (int, int) {
	width, height := m.Width, m.Height
	if m.Transform%2 != 0 {
		width, height = height, width
	}
	scale := m.Scale
	if scale == 0 {
		scale = 1.0
	}
	return int(float64(width) / scale), int(float64(height) / scale)
}

// RoundedManager renders monitor-fitted images with rounded corners, cached
// so a given source/monitor/radius combination is rendered once.
type RoundedManager struct {
	radius int
	cache  *cache.ImageCache
}

// NewRoundedManager creates a manager rendering with the given corner radius.
func NewRoundedManager(radius int, c *cache.ImageCache) *RoundedManager {
	return &RoundedManager{radius: radius, cache: c}
}

// key builds the cache key for one rendered variant. Every input that
// changes the output participates.
func (m *RoundedManager) key(mon Monitor, imagePath string) string {
	return fmt.Sprintf("rounded:%d:%d:%gx%dx%d:%s",
		m.radius, mon.Transform, mon.Scale, mon.Width, mon.Height, imagePath)
}

// ScaleAndRound fits the source image to the monitor and rounds its corners,
// returning the path of the cached rendition.
func (m *RoundedManager) ScaleAndRound(src string, mon Monitor) (string, error) {
	cacheKey := m.key(mon, src)
	if path, ok := m.cache.Get(cacheKey, imageFormat); ok {
		return path, nil
	}

	img, err := imaging.Open(src)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", src, err)
	}

	width, height := mon.EffectiveSize()
	fitted := imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)

	mask := roundedMask(width, height, m.radius)

	// Composite over black so the corners stay solid in formats without
	// an alpha channel.
	result := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(result, result.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	draw.DrawMask(result, result.Bounds(), fitted, image.Point{}, mask, image.Point{}, draw.Over)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, result, imaging.JPEG); err != nil {
		return "", fmt.Errorf("encoding rounded image: %w", err)
	}
	return m.cache.Store(cacheKey, buf.Bytes(), imageFormat)
}

// roundedMask builds an alpha mask of the given size with rounded corners.
// It is rendered at maskScale times the target size and downscaled.
func roundedMask(width, height, radius int) *image.Alpha {
	bigW, bigH, bigR := width*maskScale, height*maskScale, radius*maskScale

	big := image.NewAlpha(image.Rect(0, 0, bigW, bigH))
	for y := 0; y < bigH; y++ {
		for x := 0; x < bigW; x++ {
			if insideRoundedRect(x, y, bigW, bigH, bigR) {
				big.SetAlpha(x, y, color.Alpha{A: 0xff})
			}
		}
	}

	mask := image.NewAlpha(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(mask, mask.Bounds(), big, big.Bounds(), xdraw.Src, nil)
	return mask
}

// insideRoundedRect reports whether the pixel lies inside a width x height
// rectangle with the given corner radius.
func insideRoundedRect(x, y, width, height, radius int) bool {
	cx, cy := x, y
	switch {
	case x < radius && y < radius:
		cx, cy = radius-1, radius-1
	case x >= width-radius && y < radius:
		cx, cy = width-radius, radius-1
	case x < radius && y >= height-radius:
		cx, cy = radius-1, height-radius
	case x >= width-radius && y >= height-radius:
		cx, cy = width-radius, height-radius
	default:
		return true
	}
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy <= radius*radius
}

// Dimensions returns the pixel width and height of an image file without
// decoding the full image.
func Dimensions(path string) (int, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer file.Close()

	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
