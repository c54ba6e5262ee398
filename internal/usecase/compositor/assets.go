package compositor

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"

	"thumbnail-creator/internal/domain"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	ErrUnknownPlaceholder = errors.New("unknown placeholder image")
	ErrUnsupportedImage   = errors.New("unsupported image data")
)

var placeholderBackgroundColor = color.NRGBA{R: 0xd1, G: 0xd5, B: 0xdb, A: 0xff}

// placeholders are generated once; they stand in for the static files the
// editor ships with.
var placeholders = map[string]image.Image{
	domain.PlaceholderBackground: imaging.New(1280, 720, placeholderBackgroundColor),
	domain.PlaceholderForeground: imaging.New(1, 1, color.Transparent),
}

// imageSource resolves image references to decoded images. Decoded uploads
// are kept in a small cache so repeated renders of the same state do not
// decode again.
type imageSource struct {
	mu       sync.Mutex
	decoded  map[[sha256.Size]byte]image.Image
	order    [][sha256.Size]byte
	capacity int
}

func newImageSource(capacity int) *imageSource {
	return &imageSource{
		decoded:  make(map[[sha256.Size]byte]image.Image, capacity),
		capacity: capacity,
	}
}

// Resolve returns nil without error for an unset reference.
func (s *imageSource) Resolve(ref domain.ImageRef) (image.Image, error) {
	switch ref.Kind() {
	case domain.ImageUnset:
		return nil, nil
	case domain.ImagePlaceholder:
		img, ok := placeholders[ref.Value()]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPlaceholder, ref.Value())
		}
		return img, nil
	default:
		return s.decode(ref.Value())
	}
}

func (s *imageSource) decode(uri string) (image.Image, error) {
	key := sha256.Sum256([]byte(uri))

	s.mu.Lock()
	img, ok := s.decoded[key]
	s.mu.Unlock()
	if ok {
		return img, nil
	}

	_, data, err := domain.DecodeDataURI(uri)
	if err != nil {
		return nil, err
	}
	img, err = imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.decoded[key]; !ok && s.capacity > 0 {
		if len(s.order) >= s.capacity {
			oldest := s.order[0]
			s.order = s.order[1:]
			delete(s.decoded, oldest)
		}
		s.decoded[key] = img
		s.order = append(s.order, key)
	}
	return img, nil
}
