package domain

import (
	"encoding/base64"
	"fmt"
	"strings"
)

type ImageRefKind uint8

const (
	ImageUnset ImageRefKind = iota
	ImagePlaceholder
	ImageData
)

func (k ImageRefKind) String() string {
	switch k {
	case ImagePlaceholder:
		return "placeholder"
	case ImageData:
		return "data"
	default:
		return "unset"
	}
}

const (
	PlaceholderBackground = "/placeholder.jpg"
	PlaceholderForeground = "/placeholder-transparent.png"
)

// ImageRef is the source of an image layer: nothing, a built-in placeholder,
// or a self-contained data URI. Remote URLs are not representable.
type ImageRef struct {
	kind  ImageRefKind
	value string
}

func UnsetImage() ImageRef {
	return ImageRef{}
}

func PlaceholderImage(name string) ImageRef {
	return ImageRef{kind: ImagePlaceholder, value: name}
}

func DataImage(uri string) ImageRef {
	return ImageRef{kind: ImageData, value: uri}
}

func (r ImageRef) Kind() ImageRefKind { return r.kind }
func (r ImageRef) Value() string      { return r.value }
func (r ImageRef) IsSet() bool        { return r.kind != ImageUnset }

func (r ImageRef) String() string {
	switch r.kind {
	case ImagePlaceholder:
		return "placeholder:" + r.value
	case ImageData:
		mediaType, _, _ := strings.Cut(strings.TrimPrefix(r.value, "data:"), ";")
		return fmt.Sprintf("data:%s (%d bytes)", mediaType, len(r.value))
	default:
		return "unset"
	}
}

// EncodeDataURI embeds raw bytes as a base64 data URI.
func EncodeDataURI(mediaType string, data []byte) string {
	var b strings.Builder
	b.Grow(len("data:;base64,") + len(mediaType) + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString("data:")
	b.WriteString(mediaType)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String()
}

// DecodeDataURI returns the media type and payload of a base64 data URI.
func DecodeDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing data scheme", ErrInvalidDataURI)
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing payload separator", ErrInvalidDataURI)
	}
	mediaType, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 {
		return "", nil, fmt.Errorf("%w: only base64 payloads are supported", ErrInvalidDataURI)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	return mediaType, data, nil
}
