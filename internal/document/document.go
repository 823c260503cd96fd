// Package document turns uploaded files into plain text.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

const (
	MediaTypePDF  = "application/pdf"
	MediaTypeText = "text/plain"

	// UnsupportedMessage is returned for any media type other than PDF or plain text.
	UnsupportedMessage = "Unsupported file type. Please upload a PDF or text file."
)

var (
	// ErrUnsupportedType marks an upload whose media type cannot be summarized.
	ErrUnsupportedType = errors.New("unsupported media type")
	// ErrMalformed marks a document whose content could not be decoded.
	ErrMalformed = errors.New("malformed document")
)

// Document is an uploaded file with its declared media type.
type Document struct {
	Filename  string
	MediaType string
	Data      []byte
}

// Extract returns the plain text of doc. For unsupported media types it
// returns UnsupportedMessage together with ErrUnsupportedType.
func Extract(doc Document) (string, error) {
	switch doc.MediaType {
	case MediaTypePDF:
		return extractPDF(doc.Data)
	case MediaTypeText:
		if !utf8.Valid(doc.Data) {
			return "", fmt.Errorf("%w: %s is not valid utf-8", ErrMalformed, doc.Filename)
		}
		return string(doc.Data), nil
	default:
		return UnsupportedMessage, ErrUnsupportedType
	}
}

// Label maps a media type onto a fixed set of names safe for metric labels.
func Label(mediaType string) string {
	switch mediaType {
	case MediaTypePDF:
		return "pdf"
	case MediaTypeText:
		return "text"
	default:
		return "unsupported"
	}
}

// ResolveMediaType canonicalizes a declared Content-Type, dropping parameters
// such as charset. An empty declaration falls back to the file extension.
// This is looser than Extract, which only accepts the two literal types.
func ResolveMediaType(declared, filename string) string {
	declared = strings.TrimSpace(declared)
	if declared == "" {
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".pdf":
			return MediaTypePDF
		case ".txt":
			return MediaTypeText
		}
		return ""
	}
	mt, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return strings.ToLower(declared)
	}
	return mt
}

// pageSource is the subset of a paginated document needed for extraction.
type pageSource interface {
	NumPage() int
	PageText(n int) (string, error)
}

type pdfPages struct {
	r *pdf.Reader
}

func (p pdfPages) NumPage() int { return p.r.NumPage() }

func (p pdfPages) PageText(n int) (string, error) {
	page := p.r.Page(n)
	if page.V.IsNull() || page.V.Key("Contents").Kind() == pdf.Null {
		return "", nil
	}
	return page.GetPlainText(nil)
}

func extractPDF(content []byte) (text string, err error) {
	// the pdf package panics on some corrupt inputs
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("%w: pdf parser panic: %v", ErrMalformed, rec)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return joinPages(pdfPages{r: r})
}

// joinPages concatenates page text in page order with no separator.
func joinPages(src pageSource) (string, error) {
	var b strings.Builder
	for n := 1; n <= src.NumPage(); n++ {
		text, err := src.PageText(n)
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %v", ErrMalformed, n, err)
		}
		b.WriteString(text)
	}
	return b.String(), nil
}
