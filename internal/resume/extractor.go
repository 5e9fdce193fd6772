package resume

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ErrUnsupportedFormat is returned for uploads no extractor can read.
var ErrUnsupportedFormat = errors.New("unsupported resume format")

// MaxUploadBytes caps how much of an upload is read.
const MaxUploadBytes = 5 << 20

// TextExtractor turns an uploaded resume into raw text.
type TextExtractor interface {
	Extract(ctx context.Context, fileName, mimeType string, r io.Reader) (string, error)
}

// PlainTextExtractor reads text uploads as-is. Binary formats such as PDF and
// DOCX are rejected with ErrUnsupportedFormat.
type PlainTextExtractor struct{}

var textExtensions = map[string]bool{".txt": true, ".md": true, ".text": true}

func (PlainTextExtractor) Extract(ctx context.Context, fileName, mimeType string, r io.Reader) (string, error) {
	if !isText(fileName, mimeType) {
		return "", ErrUnsupportedFormat
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) || bytes.IndexByte(data, 0) >= 0 {
		return "", ErrUnsupportedFormat
	}
	return string(data), nil
}

func isText(fileName, mimeType string) bool {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	if strings.HasPrefix(mt, "text/") {
		return true
	}
	return textExtensions[strings.ToLower(filepath.Ext(fileName))]
}
