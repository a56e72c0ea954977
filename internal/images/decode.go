package images

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// ErrUndecodable means the upstream answered 2xx with bytes no browser
// would render as an image
var ErrUndecodable = errors.New("undecodable image")

// Dimensions describes a decoded image header
type Dimensions struct {
	Format string
	Width  int
	Height int
}

// DecodeDimensions reads only the image header of data
func DecodeDimensions(data []byte) (Dimensions, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Dimensions{}, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	return Dimensions{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}
