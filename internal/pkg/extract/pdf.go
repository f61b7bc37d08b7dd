package extract

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// LedongthucReader extracts PDF text with github.com/ledongthuc/pdf.
type LedongthucReader struct{}

// ExtractText returns the plain text of every page. Malformed documents
// that make the parser panic are reported as errors.
func (LedongthucReader) ExtractText(path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}
