// Package pixel implements a color and image library suitable for OLED and LCD pixel displays.
//
// This module provides additional color models and the page organized display
// memory used by monochrome OLED controllers, compatible with Go's native
// [color.Color] and [image.Image] / [draw.Image] interfaces.
package pixel
