package render

import (
	"fmt"
	"sync"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"gonum.org/v1/plot/font"
)

// Typeface is the name the Go fonts are registered under in gonum's cache.
const Typeface font.Typeface = "Go"

var (
	fontsOnce sync.Once
	errFonts  error
)

// registerFonts adds the Go regular and bold faces to font.DefaultCache once
// per process.
func registerFonts() error {
	fontsOnce.Do(func() {
		regular, err := opentype.Parse(goregular.TTF)
		if err != nil {
			errFonts = fmt.Errorf("parse go regular font: %w", err)
			return
		}
		bold, err := opentype.Parse(gobold.TTF)
		if err != nil {
			errFonts = fmt.Errorf("parse go bold font: %w", err)
			return
		}
		font.DefaultCache.Add(font.Collection{
			{Font: font.Font{Typeface: Typeface}, Face: regular},
			{Font: font.Font{Typeface: Typeface, Weight: xfont.WeightBold}, Face: bold},
		})
	})
	return errFonts
}

func goFont(size float64, weight xfont.Weight) font.Font {
	return font.Font{Typeface: Typeface, Weight: weight, Size: font.Points(size)}
}
