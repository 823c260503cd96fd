package document

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePages struct {
	pages []string
	fail  int
}

func (f fakePages) NumPage() int { return len(f.pages) }

func (f fakePages) PageText(n int) (string, error) {
	if n == f.fail {
		return "", errors.New("bad content stream")
	}
	return f.pages[n-1], nil
}

func TestJoinPagesNoSeparator(t *testing.T) {
	tests := []struct {
		name  string
		pages []string
		want  string
	}{
		{"two pages", []string{"A", "B"}, "AB"},
		{"keeps page whitespace", []string{"Hello ", "World"}, "Hello World"},
		{"empty page", []string{"A", "", "C"}, "AC"},
		{"no pages", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := joinPages(fakePages{pages: tt.pages})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJoinPagesFailureIsMalformed(t *testing.T) {
	_, err := joinPages(fakePages{pages: []string{"A", "B"}, fail: 2})
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestExtractPlainText(t *testing.T) {
	text, err := Extract(Document{Filename: "notes.txt", MediaType: MediaTypeText, Data: []byte("Newton's laws\nF = ma")})
	require.NoError(t, err)
	assert.Equal(t, "Newton's laws\nF = ma", text)
}

func TestExtractInvalidUTF8(t *testing.T) {
	_, err := Extract(Document{Filename: "bin.txt", MediaType: MediaTypeText, Data: []byte{0xff, 0xfe, 0x00}})
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestExtractUnsupported(t *testing.T) {
	for _, mt := range []string{"image/png", "application/msword", "", "text/plain; charset=utf-8"} {
		t.Run(mt, func(t *testing.T) {
			text, err := Extract(Document{Filename: "x", MediaType: mt, Data: []byte("data")})
			assert.ErrorIs(t, err, ErrUnsupportedType)
			assert.Equal(t, UnsupportedMessage, text)
		})
	}
}

func TestExtractMalformedPDF(t *testing.T) {
	_, err := Extract(Document{Filename: "broken.pdf", MediaType: MediaTypePDF, Data: []byte("definitely not a pdf")})
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestResolveMediaType(t *testing.T) {
	tests := []struct {
		declared string
		filename string
		want     string
	}{
		{"application/pdf", "a.bin", MediaTypePDF},
		{"text/plain; charset=utf-8", "a.txt", MediaTypeText},
		{"Text/Plain", "a", MediaTypeText},
		{"", "Report.PDF", MediaTypePDF},
		{"", "notes.txt", MediaTypeText},
		{"", "image.png", ""},
		{"image/png", "image.png", "image/png"},
	}
	for _, tt := range tests {
		t.Run(tt.declared+"|"+tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveMediaType(tt.declared, tt.filename))
		})
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		mediaType string
		want      string
	}{
		{MediaTypePDF, "pdf"},
		{MediaTypeText, "text"},
		{"image/png", "unsupported"},
		{"x-custom/anything", "unsupported"},
		{"", "unsupported"},
	}
	for _, tt := range tests {
		t.Run(tt.mediaType, func(t *testing.T) {
			assert.Equal(t, tt.want, Label(tt.mediaType))
		})
	}
}

// buildPDF writes a minimal PDF with one page per entry. An empty entry
// produces a page with no content stream.
func buildPDF(pages []string) []byte {
	var objs []string
	objs = append(objs, "<< /Type /Catalog /Pages 2 0 R >>")

	kids := ""
	for i := range pages {
		kids += fmt.Sprintf("%d 0 R ", 4+2*i)
	}
	objs = append(objs, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, len(pages)))
	objs = append(objs, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	for i, text := range pages {
		pageObj := "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >>"
		if text != "" {
			pageObj += fmt.Sprintf(" /Contents %d 0 R", 5+2*i)
		}
		objs = append(objs, pageObj+" >>")
		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		objs = append(objs, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, obj := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%EOF\n", len(objs)+1, xref)
	return buf.Bytes()
}

func TestExtractPDF(t *testing.T) {
	tests := []struct {
		name  string
		pages []string
		want  string
	}{
		{"two pages", []string{"A", "B"}, "AB"},
		{"keeps page whitespace", []string{"Hello ", "World"}, "Hello World"},
		{"page without contents", []string{"A", "", "C"}, "AC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := Extract(Document{Filename: "doc.pdf", MediaType: MediaTypePDF, Data: buildPDF(tt.pages)})
			require.NoError(t, err)
			assert.Equal(t, tt.want, text)
		})
	}
}
