package extract

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/chacha/chacha/internal/pkg/errors"
)

type fakePDF struct {
	text  string
	err   error
	calls []string
}

func (f *fakePDF) ExtractText(path string) (string, error) {
	f.calls = append(f.calls, path)
	return f.text, f.err
}

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestExtract_Text(t *testing.T) {
	path := writeTemp(t, "main.go", []byte("package main\n\nfunc main() {}\n"))

	artifact, err := New(0, &fakePDF{}).Extract(path)
	require.NoError(t, err)
	assert.Equal(t, SourceText, artifact.Kind)
	assert.Equal(t, path, artifact.Path)
	assert.Equal(t, "package main\n\nfunc main() {}\n", artifact.Text)
}

func TestExtract_PDF(t *testing.T) {
	path := writeTemp(t, "report.PDF", []byte("%PDF-1.4 not really"))
	reader := &fakePDF{text: "  Q3 revenue grew 12%.\n"}

	artifact, err := New(0, reader).Extract(path)
	require.NoError(t, err)
	assert.Equal(t, SourcePDF, artifact.Kind)
	assert.Equal(t, "Q3 revenue grew 12%.", artifact.Text)
	assert.Equal(t, []string{path}, reader.calls)
}

func TestExtract_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name   string
		path   string
		reader *fakePDF
		code   apperrors.ErrorCode
	}{
		{
			name: "missing file",
			path: filepath.Join(dir, "nope.txt"),
			code: apperrors.ErrFileNotFound,
		},
		{
			name: "directory",
			path: dir,
			code: apperrors.ErrFileUnreadable,
		},
		{
			name:   "pdf without text",
			path:   writeTemp(t, "scan.pdf", []byte("%PDF")),
			reader: &fakePDF{text: " \n\t"},
			code:   apperrors.ErrEmptyDocument,
		},
		{
			name:   "pdf decode failure",
			path:   writeTemp(t, "broken.pdf", []byte("%PDF")),
			reader: &fakePDF{err: errors.New("bad xref")},
			code:   apperrors.ErrFileUnreadable,
		},
		{
			name: "binary file",
			path: writeTemp(t, "image.bin", []byte{0x89, 'P', 'N', 'G', 0x00, 0x01}),
			code: apperrors.ErrUnsupportedEncoding,
		},
		{
			name: "invalid utf-8",
			path: writeTemp(t, "latin1.txt", []byte{'c', 'a', 'f', 0xE9, '\n'}),
			code: apperrors.ErrUnsupportedEncoding,
		},
		{
			name: "empty text file",
			path: writeTemp(t, "empty.txt", []byte("\n\n")),
			code: apperrors.ErrEmptyDocument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := tt.reader
			if reader == nil {
				reader = &fakePDF{}
			}
			_, err := New(0, reader).Extract(tt.path)
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestExtract_Encodings(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"utf-8 with bom", append([]byte{0xEF, 0xBB, 0xBF}, "héllo"...), "héllo"},
		{"utf-16 le", []byte{0xFF, 0xFE, 'h', 0, 'i', 0}, "hi"},
		{"utf-16 be", []byte{0xFE, 0xFF, 0, 'h', 0, 'i'}, "hi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			artifact, err := New(0, nil).Extract(writeTemp(t, "f.txt", tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.want, artifact.Text)
		})
	}
}

func TestExtract_RefusesFileOverCap(t *testing.T) {
	path := writeTemp(t, "long.txt", []byte(strings.Repeat("a", 11)))

	_, err := New(10, nil).Extract(path)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrFileUnreadable))
	assert.Contains(t, err.Error(), "10-byte limit")
	assert.Equal(t, 1, apperrors.GetExitCode(err))
}

func TestExtract_FileAtCapIsRead(t *testing.T) {
	path := writeTemp(t, "exact.txt", []byte(strings.Repeat("é", 5)))

	artifact, err := New(10, nil).Extract(path)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("é", 5), artifact.Text)
}

func TestExtract_ZeroCapReadsWholeFile(t *testing.T) {
	data := strings.Repeat("0123456789abcdef", (1<<20)/16+1)
	path := writeTemp(t, "big.txt", []byte(data))

	artifact, err := New(0, nil).Extract(path)
	require.NoError(t, err)
	assert.Len(t, artifact.Text, len(data))
	assert.True(t, utf8.ValidString(artifact.Text))
}

func TestExtract_PDFRefusedOverCap(t *testing.T) {
	path := writeTemp(t, "big.pdf", []byte("%PDF"))

	_, err := New(4, &fakePDF{text: "abcdefgh"}).Extract(path)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrFileUnreadable))
	assert.Contains(t, err.Error(), "4-byte limit")

	artifact, err := New(0, &fakePDF{text: "abcdefgh"}).Extract(path)
	require.NoError(t, err)
	assert.Equal(t, "abcdefgh", artifact.Text)
}

func TestLedongthucReader_NotAPDF(t *testing.T) {
	path := writeTemp(t, "fake.pdf", []byte("this is not a pdf"))

	_, err := LedongthucReader{}.ExtractText(path)
	assert.Error(t, err)
}
