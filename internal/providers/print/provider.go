// Package print prepares rendered quotations for a browser print dialog.
package print

import (
	"context"
	"fmt"
	"strings"

	quotationdomain "github.com/dovepeak/quotemaster/internal/quotation/domain"
)

// Page is a document ready to be opened in a new viewing context.
type Page struct {
	ContentType string
	Disposition string
	Body        []byte
}

type Provider interface {
	Open(ctx context.Context, doc quotationdomain.Document) (*Page, error)
}

// BrowserProvider serves the document inline so the browser renders it and
// its embedded trigger opens the print dialog.
type BrowserProvider struct{}

func NewBrowser() *BrowserProvider {
	return &BrowserProvider{}
}

func (p *BrowserProvider) Open(_ context.Context, doc quotationdomain.Document) (*Page, error) {
	if strings.TrimSpace(doc.HTML) == "" {
		return nil, fmt.Errorf("print: document %q is empty", doc.Title)
	}
	filename := doc.Filename
	if filename == "" {
		filename = "quotation.html"
	}
	return &Page{
		ContentType: "text/html; charset=utf-8",
		Disposition: fmt.Sprintf("inline; filename=%q", filename),
		Body:        []byte(doc.HTML),
	}, nil
}
