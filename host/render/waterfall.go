// Package render draws recorded telemetry into images for offline
// inspection.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"coiltone/protocol"
)

// EnvelopeFullScale mirrors the firmware's envelope scale; values above it
// clip to the hottest color.
const EnvelopeFullScale = 16384

var ErrNoFrames = errors.New("render: no frames to draw")

// Options controls the rendered image.
type Options struct {
	Width  int // output width in pixels; defaults to 1024
	Height int // output height in pixels; defaults to 256
}

// Waterfall renders an envelope-over-time strip: one column per time
// bucket, bar height and color following the envelope magnitude.
func Waterfall(frames []protocol.Frame, opts Options) (*image.RGBA, error) {
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	width := opts.Width
	if width <= 0 {
		width = 1024
	}
	height := opts.Height
	if height <= 0 {
		height = 256
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.Black, image.Point{}, draw.Src)

	// Downsample frames into columns, keeping the peak per bucket so
	// short bursts stay visible.
	for x := 0; x < width; x++ {
		lo := x * len(frames) / width
		hi := (x + 1) * len(frames) / width
		if hi <= lo {
			hi = lo + 1
		}
		peak := uint16(0)
		for _, f := range frames[lo:min(hi, len(frames))] {
			if f.Envelope > peak {
				peak = f.Envelope
			}
		}

		norm := math.Min(float64(peak)/EnvelopeFullScale, 1)
		bar := int(norm * float64(height-1))
		c := heatColor(norm)
		for y := height - 1; y >= height-1-bar; y-- {
			img.Set(x, y, c)
		}
	}

	first, last := frames[0], frames[len(frames)-1]
	spanUS := last.Timestamp - first.Timestamp // wrap-safe tick delta
	label(img, 4, 14, fmt.Sprintf("envelope / time  %d frames  %.2fs", len(frames), float64(spanUS)/1e6))

	return img, nil
}

// WritePNG renders the waterfall and encodes it as PNG.
func WritePNG(w io.Writer, frames []protocol.Frame, opts Options) error {
	img, err := Waterfall(frames, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// heatColor maps a normalized 0..1 value onto a cold-to-hot ramp (blue
// through red), gamma corrected for perception.
func heatColor(norm float64) color.Color {
	hue := 240 - norm*240
	val := math.Pow(norm, 0.7)
	return hsvToRGB(hue, 0.9+norm*0.1, val)
}

func hsvToRGB(h, s, v float64) color.RGBA {
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return color.RGBA{
		R: uint8((r + m) * 255),
		G: uint8((g + m) * 255),
		B: uint8((b + m) * 255),
		A: 255,
	}
}

func label(img *image.RGBA, x, y int, text string) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
