package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"

	"slidedeck/internal/models"
	"slidedeck/internal/placement"
)

// Size of the slide strip previews.
const (
	ThumbnailWidth  = 128
	ThumbnailHeight = 72
)

const (
	canvasColor = "#f9fafb"
	frameColor  = "#ffffff"
	lineSpacing = 1.2

	// maxImagePixels caps the decoded size of embedded images.
	maxImagePixels = 4096 * 4096
)

var (
	fontsOnce sync.Once
	fontsErr  error
	fonts     [4]*truetype.Font
)

func loadFonts() error {
	fontsOnce.Do(func() {
		for i, data := range [][]byte{goregular.TTF, gobold.TTF, goitalic.TTF, gobolditalic.TTF} {
			f, err := truetype.Parse(data)
			if err != nil {
				fontsErr = fmt.Errorf("failed to parse font: %w", err)
				return
			}
			fonts[i] = f
		}
	})
	return fontsErr
}

func fontFace(size float64, bold, italic bool) font.Face {
	i := 0
	if bold {
		i |= 1
	}
	if italic {
		i |= 2
	}
	if size < 1 {
		size = 1
	}
	return truetype.NewFace(fonts[i], &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Frame returns the scale and offsets that fit the canvas centred in a
// width x height image.
func Frame(width, height int) (scale placement.Scale, offsetX, offsetY float64) {
	scale = placement.FitScale(float64(width), float64(height))
	offsetX = (float64(width) - scale.ToScreen(models.CanvasWidth)) / 2
	offsetY = (float64(height) - scale.ToScreen(models.CanvasHeight)) / 2
	return scale, offsetX, offsetY
}

// RenderSlide draws slide into a width x height image, components in paint
// order.
func RenderSlide(slide models.Slide, width, height int) (image.Image, error) {
	dc, err := draw(slide, width, height)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// EncodePNG renders slide and writes it to w as PNG.
func EncodePNG(w io.Writer, slide models.Slide, width, height int) error {
	dc, err := draw(slide, width, height)
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

func draw(slide models.Slide, width, height int) (*gg.Context, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", width, height)
	}
	if err := loadFonts(); err != nil {
		return nil, err
	}

	scale, offX, offY := Frame(width, height)

	dc := gg.NewContext(width, height)
	dc.SetHexColor(frameColor)
	dc.Clear()
	dc.SetHexColor(canvasColor)
	dc.DrawRectangle(offX, offY, scale.ToScreen(models.CanvasWidth), scale.ToScreen(models.CanvasHeight))
	dc.Fill()

	for _, c := range placement.PaintOrder(slide.Components) {
		st, ok := StyleFor(c, scale)
		if !ok {
			continue
		}
		dc.Push()
		dc.Translate(offX+st.Left, offY+st.Top)
		dc.RotateAbout(gg.Radians(st.Rotation), st.Width/2, st.Height/2)
		drawComponent(dc, c.ComponentType, st)
		dc.Pop()
	}

	return dc, nil
}

// Thumbnail renders the strip preview of slide as PNG bytes.
func Thumbnail(slide models.Slide) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, slide, ThumbnailWidth, ThumbnailHeight); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawComponent(dc *gg.Context, t models.ComponentType, st Style) {
	switch t {
	case models.ComponentText:
		fillBackground(dc, st)
		setPaint(dc, st.Color)
		dc.SetFontFace(fontFace(st.FontSize, st.Bold, st.Italic))
		dc.DrawStringWrapped(st.Content, 0, 0, 0, 0, st.Width, lineSpacing, gg.AlignLeft)
		if st.Underline {
			w, _ := dc.MeasureString(st.Content)
			if w > st.Width {
				w = st.Width
			}
			dc.SetLineWidth(max(1, st.FontSize/16))
			dc.DrawLine(0, st.FontSize*1.1, w, st.FontSize*1.1)
			dc.Stroke()
		}

	case models.ComponentImage:
		img, err := decodeDataURI(st.Content)
		if err != nil {
			// placeholder
			dc.SetRGB255(229, 231, 235)
			dc.DrawRectangle(0, 0, st.Width, st.Height)
			dc.Fill()
			return
		}
		b := img.Bounds()
		if b.Dx() == 0 || b.Dy() == 0 {
			return
		}
		dc.Scale(st.Width/float64(b.Dx()), st.Height/float64(b.Dy()))
		dc.DrawImage(img, 0, 0)

	case models.ComponentShape:
		// SVG masks are not rasterized; the shape fills its box.
		fillBackground(dc, st)

	case models.ComponentFormula:
		fillBackground(dc, st)
		setPaint(dc, st.Color)
		dc.SetFontFace(fontFace(st.FontSize, false, true))
		dc.DrawStringAnchored(st.Content, st.Width/2, st.Height/2, 0.5, 0.5)
	}
}

func fillBackground(dc *gg.Context, st Style) {
	if !paintable(st.Background) {
		return
	}
	dc.SetHexColor(st.Background)
	dc.DrawRectangle(0, 0, st.Width, st.Height)
	dc.Fill()
}

func setPaint(dc *gg.Context, c string) {
	if paintable(c) {
		dc.SetHexColor(c)
		return
	}
	dc.SetRGB(0, 0, 0)
}

func paintable(c string) bool {
	if !strings.HasPrefix(c, "#") {
		return false
	}
	switch len(c) {
	case 4, 7, 9:
		return true
	}
	return false
}

func decodeDataURI(uri string) (image.Image, error) {
	if !strings.HasPrefix(uri, "data:") {
		return nil, fmt.Errorf("not a data URI")
	}
	comma := strings.IndexByte(uri, ',')
	if comma < 0 || !strings.HasSuffix(uri[:comma], ";base64") {
		return nil, fmt.Errorf("unsupported data URI")
	}
	raw, err := base64.StdEncoding.DecodeString(uri[comma+1:])
	if err != nil {
		return nil, fmt.Errorf("failed to decode image data: %w", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return nil, fmt.Errorf("image too large: %dx%d", cfg.Width, cfg.Height)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}
