package main

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

// splash renders a framed title, centered on a screen of the given size.
func splash(size image.Point, face font.Face, title string) image.Image {
	var (
		dc   = gg.NewContext(size.X, size.Y)
		w, h = float64(size.X), float64(size.Y)
	)
	dc.SetColor(color.Black)
	dc.Clear()

	dc.SetColor(color.White)
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(0.5, 0.5, w-1, h-1, h/8)
	dc.Stroke()

	dc.SetFontFace(face)
	dc.DrawStringAnchored(title, w/2, h/2, 0.5, 0.5)
	return dc.Image()
}
