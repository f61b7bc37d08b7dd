// Package extract turns a file on disk into text suitable for a prompt.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	apperrors "github.com/chacha/chacha/internal/pkg/errors"
)

// SourceKind tells how the text was obtained.
type SourceKind string

const (
	SourceText SourceKind = "text"
	SourcePDF  SourceKind = "pdf"
)

// FileArtifact is the text extracted from one file.
type FileArtifact struct {
	Path string
	Text string
	Kind SourceKind
}

// PDFReader extracts plain text from a PDF file.
type PDFReader interface {
	ExtractText(path string) (string, error)
}

// Extractor reads text and PDF files. Files over the size cap are refused.
type Extractor struct {
	maxBytes int64
	pdf      PDFReader
}

// New creates an Extractor. maxBytes <= 0 disables the cap and a nil
// reader selects LedongthucReader.
func New(maxBytes int64, pdf PDFReader) *Extractor {
	if maxBytes < 0 {
		maxBytes = 0
	}
	if pdf == nil {
		pdf = LedongthucReader{}
	}
	return &Extractor{maxBytes: maxBytes, pdf: pdf}
}

// Extract reads path. PDFs are decoded through the PDF reader, anything
// else must be UTF-8 or BOM-marked UTF-16 text. The cap applies to the
// file size of text files and to the extracted text of PDFs.
func (e *Extractor) Extract(path string) (FileArtifact, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return FileArtifact{}, apperrors.NewFileNotFoundError(path, err)
		}
		return FileArtifact{}, apperrors.NewFileUnreadableError(path, err)
	}
	if info.IsDir() {
		return FileArtifact{}, apperrors.NewFileUnreadableError(path, fmt.Errorf("%s is a directory", path))
	}

	if isPDF(path) {
		return e.extractPDF(path)
	}
	return e.extractText(path, info.Size())
}

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

func (e *Extractor) extractPDF(path string) (FileArtifact, error) {
	text, err := e.pdf.ExtractText(path)
	if err != nil {
		return FileArtifact{}, apperrors.NewFileUnreadableError(path, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return FileArtifact{}, apperrors.NewEmptyDocumentError(path)
	}

	if e.overCap(int64(len(text))) {
		return FileArtifact{}, apperrors.NewFileTooLargeError(path, e.maxBytes)
	}
	return FileArtifact{Path: path, Text: text, Kind: SourcePDF}, nil
}

func (e *Extractor) overCap(n int64) bool {
	return e.maxBytes > 0 && n > e.maxBytes
}

func (e *Extractor) extractText(path string, size int64) (FileArtifact, error) {
	if e.overCap(size) {
		return FileArtifact{}, apperrors.NewFileTooLargeError(path, e.maxBytes)
	}

	f, err := os.Open(path)
	if err != nil {
		return FileArtifact{}, apperrors.NewFileUnreadableError(path, err)
	}
	defer f.Close()

	// The file may grow between Stat and Read.
	var r io.Reader = f
	if e.maxBytes > 0 {
		r = io.LimitReader(f, e.maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return FileArtifact{}, apperrors.NewFileUnreadableError(path, err)
	}
	if e.overCap(int64(len(data))) {
		return FileArtifact{}, apperrors.NewFileTooLargeError(path, e.maxBytes)
	}

	text, ok := decodeText(data)
	if !ok {
		return FileArtifact{}, apperrors.NewUnsupportedEncodingError(path)
	}
	if strings.TrimSpace(text) == "" {
		return FileArtifact{}, apperrors.NewEmptyDocumentError(path)
	}
	return FileArtifact{Path: path, Text: text, Kind: SourceText}, nil
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// decodeText returns data as a UTF-8 string. A UTF-16 byte order mark
// selects UTF-16. NUL bytes or invalid UTF-8 mean the file is not text.
func decodeText(data []byte) (string, bool) {
	switch {
	case bytes.HasPrefix(data, bomUTF16LE), bytes.HasPrefix(data, bomUTF16BE):
		decoder := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
		out, _, err := transform.Bytes(decoder, data)
		if err != nil {
			return "", false
		}
		data = out
	case bytes.HasPrefix(data, bomUTF8):
		data = data[len(bomUTF8):]
	}

	if bytes.IndexByte(data, 0) >= 0 || !utf8.Valid(data) {
		return "", false
	}
	return string(data), true
}
