// Package filecheck validates uploaded document content.
package filecheck

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	pdf "github.com/ledongthuc/pdf"
)

// MaxUploadSize is the largest accepted upload in bytes
const MaxUploadSize = 5 * 1024 * 1024

// Accepted content types
const (
	TypePDF  = "application/pdf"
	TypeJPEG = "image/jpeg"
	TypePNG  = "image/png"
)

var (
	ErrEmpty           = errors.New("file is empty")
	ErrTooLarge        = errors.New("file exceeds the 5MB limit")
	ErrUnsupportedType = errors.New("only PDF, JPEG and PNG files are allowed")
	ErrCorruptPDF      = errors.New("PDF file could not be read")
)

// Detect sniffs the content type of data and returns it when accepted.
// PDFs are additionally opened and must contain at least one page.
func Detect(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmpty
	}
	if len(data) > MaxUploadSize {
		return "", ErrTooLarge
	}

	contentType := http.DetectContentType(data)
	switch contentType {
	case TypeJPEG, TypePNG:
		return contentType, nil
	case TypePDF:
		if err := CheckPDF(data); err != nil {
			return "", err
		}
		return contentType, nil
	default:
		return "", ErrUnsupportedType
	}
}

// CheckPDF reports whether data parses as a PDF with pages
func CheckPDF(data []byte) (err error) {
	// the reader panics on some truncated inputs
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrCorruptPDF, r)
		}
	}()

	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptPDF, err)
	}
	if doc.NumPage() < 1 {
		return fmt.Errorf("%w: no pages", ErrCorruptPDF)
	}
	return nil
}

// Extension returns the file extension for an accepted content type
func Extension(contentType string) string {
	switch contentType {
	case TypePDF:
		return ".pdf"
	case TypeJPEG:
		return ".jpg"
	case TypePNG:
		return ".png"
	}
	return ""
}
