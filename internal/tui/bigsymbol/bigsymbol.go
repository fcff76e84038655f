// Package bigsymbol renders annotation symbols as large block art using
// half-block characters, for the focus panel next to the editor.
package bigsymbol

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang/freetype/truetype"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const fontSize = 64

// System fonts with good coverage of arrows and geometric shapes. The Go
// font bundled with x/image is always appended as the last resort.
var fontPaths = []string{
	// macOS
	"/System/Library/Fonts/Apple Symbols.ttf",
	"/System/Library/Fonts/Supplemental/Arial Unicode.ttf",
	"/Library/Fonts/Arial Unicode.ttf",
	// Linux
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/usr/share/fonts/noto/NotoSansSymbols2-Regular.ttf",
	"/usr/share/fonts/truetype/noto/NotoSansSymbols2-Regular.ttf",
	// Windows
	"C:\\Windows\\Fonts\\seguisym.ttf",
}

var (
	loadOnce sync.Once
	faces    []font.Face
	faceMu   sync.Mutex // font.Face is not safe for concurrent use

	renders = gocache.New(30*time.Minute, time.Hour)
)

func loadFaces() {
	for _, path := range fontPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		fnt, err := opentype.Parse(data)
		if err != nil {
			continue
		}
		face, err := opentype.NewFace(fnt, &opentype.FaceOptions{Size: fontSize, DPI: 72})
		if err == nil {
			faces = append(faces, face)
		}
	}

	if fnt, err := truetype.Parse(goregular.TTF); err == nil {
		faces = append(faces, truetype.NewFace(fnt, &truetype.Options{Size: fontSize, DPI: 72}))
	}
}

// Available reports whether any face loaded.
func Available() bool {
	loadOnce.Do(loadFaces)
	return len(faces) > 0
}

// faceFor returns the first face that has a glyph for every rune of s.
func faceFor(s string) font.Face {
	for _, f := range faces {
		ok := true
		for _, r := range s {
			if _, has := f.GlyphAdvance(r); !has {
				ok = false
				break
			}
		}
		if ok {
			return f
		}
	}
	return nil
}

// Render draws symbol into a cols x rows block of half-block characters.
// It returns "" when no face can draw the symbol.
func Render(symbol string, cols, rows int) string {
	if symbol == "" || cols < 1 || rows < 1 || !Available() {
		return ""
	}

	faceMu.Lock()
	defer faceMu.Unlock()

	face := faceFor(symbol)
	if face == nil {
		return ""
	}

	bounds, advance := font.BoundString(face, symbol)
	width := advance.Ceil()
	height := (bounds.Max.Y - bounds.Min.Y).Ceil()

	padding := 4
	srcW := max(width+padding*2, fontSize)
	srcH := max(height+padding*2, fontSize)

	src := image.NewGray(image.Rect(0, 0, srcW, srcH))
	draw.Draw(src, src.Bounds(), &image.Uniform{color.Black}, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  src,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P((srcW-width)/2, srcH-padding-bounds.Max.Y.Ceil()),
	}
	d.DrawString(symbol)

	return halfBlocks(scaleDown(src, cols, rows*2), cols, rows)
}

// Cached is Render with a shared cache keyed by symbol and size.
func Cached(symbol string, cols, rows int) string {
	key := fmt.Sprintf("%s|%d|%d", symbol, cols, rows)
	if v, ok := renders.Get(key); ok {
		return v.(string)
	}
	out := Render(symbol, cols, rows)
	renders.SetDefault(key, out)
	return out
}

// scaleDown shrinks src by area averaging.
func scaleDown(src *image.Gray, w, h int) *image.Gray {
	sw, sh := src.Bounds().Max.X, src.Bounds().Max.Y
	dst := image.NewGray(image.Rect(0, 0, w, h))
	xr := float64(sw) / float64(w)
	yr := float64(sh) / float64(h)

	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			x1, y1 := int(float64(dx)*xr), int(float64(dy)*yr)
			x2, y2 := min(int(float64(dx+1)*xr), sw), min(int(float64(dy+1)*yr), sh)

			sum, n := 0, 0
			for y := y1; y < y2; y++ {
				for x := x1; x < x2; x++ {
					sum += int(src.GrayAt(x, y).Y)
					n++
				}
			}
			if n > 0 {
				dst.SetGray(dx, dy, color.Gray{Y: uint8(sum / n)})
			}
		}
	}
	return dst
}

// threshold is the brightness above which a half cell is drawn.
const threshold = 40

func halfBlocks(img *image.Gray, cols, rows int) string {
	var b strings.Builder
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			top := img.GrayAt(col, row*2).Y > threshold
			bottom := img.GrayAt(col, row*2+1).Y > threshold
			switch {
			case top && bottom:
				b.WriteRune('█')
			case top:
				b.WriteRune('▀')
			case bottom:
				b.WriteRune('▄')
			default:
				b.WriteRune(' ')
			}
		}
		if row < rows-1 {
			b.WriteRune('\n')
		}
	}
	return b.String()
}
