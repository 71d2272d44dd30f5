package media

import (
	"errors"
	"testing"
)

// Minimal valid-looking headers; filetype only inspects magic bytes.
var (
	pngHeader  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00}
	jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46, 0x49, 0x46}
	gifHeader  = []byte("GIF89a\x01\x00\x01\x00")
)

func TestSniffImage(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"PNG", pngHeader, "image/png"},
		{"JPEG", jpegHeader, "image/jpeg"},
		{"GIF", gifHeader, "image/gif"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SniffImage(tt.data)
			if err != nil {
				t.Fatalf("SniffImage() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("SniffImage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSniffImageRejectsNonImages(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"Plain text", []byte("not an image at all")},
		{"Empty", nil},
		{"PDF", []byte("%PDF-1.4 something")},
		{"Renamed executable", []byte{0x7F, 0x45, 0x4C, 0x46, 0x02, 0x01}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := SniffImage(tt.data); !errors.Is(err, ErrNotAnImage) {
				t.Errorf("SniffImage() error = %v, want ErrNotAnImage", err)
			}
		})
	}
}

func TestSniffImageSizeLimit(t *testing.T) {
	big := make([]byte, MaxImageSize+1)
	copy(big, pngHeader)

	if _, err := SniffImage(big); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("SniffImage() error = %v, want ErrTooLarge", err)
	}
}
