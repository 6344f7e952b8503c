package filecheck

import (
	"bytes"
	"errors"
	"testing"

	"visaconsult/internal/testutil"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    string
		wantErr error
	}{
		{"pdf", testutil.MinimalPDF, TypePDF, nil},
		{"png", testutil.PNGHeader, TypePNG, nil},
		{"jpeg", []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00"), TypeJPEG, nil},
		{"empty", nil, "", ErrEmpty},
		{"text", []byte("hello, world"), "", ErrUnsupportedType},
		{"truncated pdf", []byte("%PDF-1.4\n1 0 obj\n<<>>\n"), "", ErrCorruptPDF},
		{"too large", bytes.Repeat([]byte{0}, MaxUploadSize+1), "", ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Detect(tt.data)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Detect() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Detect() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Detect() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtension(t *testing.T) {
	if got := Extension(TypePNG); got != ".png" {
		t.Errorf("Extension(png) = %q", got)
	}
	if got := Extension("text/plain"); got != "" {
		t.Errorf("Extension(text) = %q, want empty", got)
	}
}
