package imageutil

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/muesli/smartcrop"
)

// resizer implements the smartcrop.Resizer interface on top of imaging.
type resizer struct {
	resampler imaging.ResampleFilter
}

func (r *resizer) Resize(img image.Image, width, height uint) image.Image {
	return imaging.Resize(img, int(width), int(height), r.resampler)
}

// SmartCrop crops the image to the most interesting region with the target
// aspect ratio and resizes it to exactly width x height.
func SmartCrop(img image.Image, width, height int) (image.Image, error) {
	r := &resizer{resampler: imaging.Lanczos}
	analyzer := smartcrop.NewAnalyzer(r)

	topCrop, err := analyzer.FindBestCrop(img, width, height)
	if err != nil {
		return nil, fmt.Errorf("finding best crop: %w", err)
	}

	type subImager interface {
		SubImage(r image.Rectangle) image.Image
	}
	cropped, ok := img.(subImager)
	if !ok {
		return nil, fmt.Errorf("image type %T does not support cropping", img)
	}

	return imaging.Resize(cropped.SubImage(topCrop), width, height, imaging.Lanczos), nil
}
