package gpu

import (
	"path"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pkg/errors"

	"satviz/internal/assets"
)

// RaylibDecoder decodes PNG, BMP, TGA, JPG and the other formats raylib
// was built with. The file type comes from the name's extension.
type RaylibDecoder struct{}

func (RaylibDecoder) Decode(name string, data []byte) (assets.Pixels, error) {
	ext := strings.ToLower(path.Ext(name))
	if ext == "" || len(data) == 0 {
		return assets.Pixels{}, errors.Errorf("cannot decode %q", name)
	}

	img := rl.LoadImageFromMemory(ext, data, int32(len(data)))
	if img == nil || img.Data == nil || img.Width <= 0 || img.Height <= 0 {
		return assets.Pixels{}, errors.Errorf("unsupported image format %s", ext)
	}
	defer rl.UnloadImage(img)

	colors := rl.LoadImageColors(img)
	defer rl.UnloadImageColors(colors)

	px := assets.Pixels{
		Width:  int(img.Width),
		Height: int(img.Height),
		RGBA:   make([]byte, 0, len(colors)*4),
	}
	for _, c := range colors {
		px.RGBA = append(px.RGBA, c.R, c.G, c.B, c.A)
	}
	return px, nil
}
