// Package media validates image payloads before they are uploaded.
package media

import (
	"errors"
	"fmt"

	"github.com/h2non/filetype"
)

// MaxImageSize bounds avatar and story uploads.
const MaxImageSize = 5 << 20 // 5 MiB

var (
	ErrNotAnImage = errors.New("payload is not a supported image")
	ErrTooLarge   = fmt.Errorf("image exceeds %d bytes", MaxImageSize)
)

// SniffImage detects the payload's type from its magic bytes and returns
// the MIME type. File extensions are not trusted.
func SniffImage(data []byte) (string, error) {
	if len(data) > MaxImageSize {
		return "", ErrTooLarge
	}

	if !filetype.IsImage(data) {
		return "", ErrNotAnImage
	}
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return "", ErrNotAnImage
	}
	return kind.MIME.Value, nil
}
