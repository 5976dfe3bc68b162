package ocr

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// minHeight is the frame height below which frames are upscaled before OCR.
const minHeight = 720

// Preprocess converts a frame to grayscale and binarizes it with an Otsu
// threshold, giving dark text on a white background where possible.
func Preprocess(img image.Image) *image.Gray {
	gray := imaging.Grayscale(img)
	if gray.Bounds().Dy() < minHeight && gray.Bounds().Dy() > 0 {
		gray = imaging.Resize(gray, 0, minHeight, imaging.Lanczos)
	}
	g := toGray(gray)
	return binarize(g, OtsuThreshold(g))
}

// OtsuThreshold returns the gray level that maximizes the between-class
// variance of the image histogram. Pixels at or below it are background
// class 0.
func OtsuThreshold(img *image.Gray) uint8 {
	var hist [256]int
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[(y-b.Min.Y)*img.Stride : (y-b.Min.Y)*img.Stride+b.Dx()]
		for _, v := range row {
			hist[v]++
		}
	}
	total := b.Dx() * b.Dy()
	if total == 0 {
		return 0
	}

	var sumAll float64
	for i, n := range hist {
		sumAll += float64(i * n)
	}

	var (
		sumB    float64
		weightB int
		best    float64
		thresh  int
	)
	for t := 0; t < 256; t++ {
		weightB += hist[t]
		if weightB == 0 {
			continue
		}
		weightF := total - weightB
		if weightF == 0 {
			break
		}
		sumB += float64(t * hist[t])
		meanB := sumB / float64(weightB)
		meanF := (sumAll - sumB) / float64(weightF)
		between := float64(weightB) * float64(weightF) * (meanB - meanF) * (meanB - meanF)
		if between > best {
			best = between
			thresh = t
		}
	}
	return uint8(thresh)
}

// binarize maps pixels above threshold to white and the rest to black.
func binarize(img *image.Gray, threshold uint8) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			v := img.GrayAt(b.Min.X+x, b.Min.Y+y).Y
			if v > threshold {
				out.SetGray(x, y, color.Gray{Y: 255})
			} else {
				out.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}
	return out
}

func toGray(img image.Image) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			out.Set(x, y, color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)))
		}
	}
	return out
}
