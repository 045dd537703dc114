package renderer

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// CapturedFrame is a host-side copy of the offscreen scene color.
type CapturedFrame struct {
	// Image holds the pixels, possibly downscaled.
	Image *image.RGBA

	// SourceWidth and SourceHeight are the dimensions the frame was
	// rendered at, before any downscale.
	SourceWidth  int
	SourceHeight int
}

func (r *rendererImpl) CaptureFrame(maxDim int) (CapturedFrame, error) {
	data, width, height, err := r.backend.ReadbackSceneColor()
	if err != nil {
		return CapturedFrame{}, err
	}

	img := &image.RGBA{
		Pix:    data,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}

	longest := max(width, height)
	if maxDim > 0 && longest > maxDim {
		scale := float64(maxDim) / float64(longest)
		dst := image.NewRGBA(image.Rect(0, 0,
			max(int(float64(width)*scale), 1),
			max(int(float64(height)*scale), 1)))
		xdraw.ApproxBiLinear.Scale(dst, dst.Rect, img, img.Rect, xdraw.Src, nil)
		img = dst
	}

	return CapturedFrame{
		Image:        img,
		SourceWidth:  width,
		SourceHeight: height,
	}, nil
}
