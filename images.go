package folio

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"mime"
	"net/http"
	"path"
	"sync"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
	"golang.org/x/sync/singleflight"

	"github.com/eringen/folio/content"
	"github.com/eringen/folio/doodle"
)

// doodleScale renders doodles at twice their CSS size for dense screens.
const doodleScale = 2

// DoodleImage is a prepared doodle asset.
type DoodleImage struct {
	Data        []byte
	ContentType string
}

// DoodleImages serves catalog doodles from the content source. Raster
// images wider than the render size are downscaled once and memoized.
type DoodleImages struct {
	src     content.Source
	catalog *doodle.Catalog
	width   int

	group singleflight.Group
	mu    sync.RWMutex
	cache map[string]DoodleImage
}

// NewDoodleImages prepares doodles for a base size in CSS pixels.
func NewDoodleImages(src content.Source, c *doodle.Catalog, size int) *DoodleImages {
	return &DoodleImages{
		src:     src,
		catalog: c,
		width:   size * doodleScale,
		cache:   make(map[string]DoodleImage),
	}
}

// Get returns the doodle whose file name is file. Files outside the
// catalog are content.ErrNotFound.
func (d *DoodleImages) Get(ctx context.Context, file string) (DoodleImage, error) {
	ref, ok := d.catalog.Lookup(file)
	if !ok {
		return DoodleImage{}, &content.FetchError{Path: file, Err: content.ErrNotFound}
	}

	d.mu.RLock()
	img, ok := d.cache[ref]
	d.mu.RUnlock()
	if ok {
		return img, nil
	}

	v, err, _ := d.group.Do(ref, func() (any, error) {
		raw, err := d.src.Read(ctx, ref)
		if err != nil {
			return nil, err
		}
		img, err := d.prepare(ref, raw)
		if err != nil {
			return nil, err
		}
		d.mu.Lock()
		d.cache[ref] = img
		d.mu.Unlock()
		return img, nil
	})
	if err != nil {
		return DoodleImage{}, err
	}
	return v.(DoodleImage), nil
}

func (d *DoodleImages) prepare(ref string, raw []byte) (DoodleImage, error) {
	ctype := mime.TypeByExtension(path.Ext(ref))
	if ctype == "" {
		ctype = http.DetectContentType(raw)
	}
	switch ctype {
	case "image/png", "image/jpeg", "image/gif":
	default:
		// Vector and unknown formats pass through untouched.
		return DoodleImage{Data: raw, ContentType: ctype}, nil
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return DoodleImage{}, fmt.Errorf("decode %s: %w", ref, err)
	}
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if d.width <= 0 || w <= d.width {
		return DoodleImage{Data: raw, ContentType: ctype}, nil
	}

	newH := h * d.width / w
	if newH < 1 {
		newH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, d.width, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return DoodleImage{}, fmt.Errorf("encode %s: %w", ref, err)
	}
	return DoodleImage{Data: buf.Bytes(), ContentType: "image/png"}, nil
}

func (a *App) handleDoodleImage(c echo.Context) error {
	img, err := a.images.Get(c.Request().Context(), c.Param("file"))
	if err != nil {
		return a.contentError(err)
	}
	return c.Blob(http.StatusOK, img.ContentType, img.Data)
}
