package render

import (
	"context"
	"fmt"
	"io"
	"log"

	"docgen/internal/layout"
	"docgen/internal/model"
	"docgen/internal/theme"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// A4 in inches for the browser's print API; everything upstream stays in mm.
const (
	a4WidthInches  = 210.0 / 25.4
	a4HeightInches = 297.0 / 25.4
)

// MarkupBackend renders through a single long-lived headless browser shared
// across calls. Each call opens one page and guarantees its closure on every
// exit path; concurrency bounding is the caller's responsibility.
type MarkupBackend struct {
	browser *rod.Browser
}

// NewMarkupBackend wraps an already-connected browser. The browser is an
// explicitly constructed resource owned by the process bootstrap, not a
// package singleton.
func NewMarkupBackend(browser *rod.Browser) *MarkupBackend {
	return &MarkupBackend{browser: browser}
}

func (b *MarkupBackend) Render(ctx context.Context, doc *layout.ComposedDocument, spec theme.Spec, opts Options) (*model.RenderedDocument, error) {
	html, err := buildHTML(doc, spec)
	if err != nil {
		return nil, backendErr(opts, err)
	}

	page, err := b.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, backendErr(opts, fmt.Errorf("open browser page: %w", err))
	}
	defer func() {
		// Teardown failure is logged, never escalated over the result.
		if cerr := page.Close(); cerr != nil {
			log.Printf("WARNING: document %s: browser page close failed: %v", opts.DocumentNumber, cerr)
		}
	}()
	page = page.Context(ctx)

	if err := page.SetDocumentContent(html); err != nil {
		return nil, backendErr(opts, fmt.Errorf("set page content: %w", err))
	}

	if opts.Preview {
		bin, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
			Format: proto.PageCaptureScreenshotFormatPng,
		})
		if err != nil {
			return nil, backendErr(opts, fmt.Errorf("capture preview: %w", err))
		}
		return &model.RenderedDocument{Bytes: bin, PageCount: 1, ContentType: "image/png"}, nil
	}

	paperWidth, paperHeight := a4WidthInches, a4HeightInches
	stream, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground:   true,
		PreferCSSPageSize: true,
		PaperWidth:        &paperWidth,
		PaperHeight:       &paperHeight,
	})
	if err != nil {
		return nil, backendErr(opts, fmt.Errorf("print to pdf: %w", err))
	}
	pdf, err := io.ReadAll(stream)
	if err != nil {
		return nil, backendErr(opts, fmt.Errorf("read pdf stream: %w", err))
	}

	return &model.RenderedDocument{
		Bytes:       pdf,
		PageCount:   len(doc.Pages),
		ContentType: "application/pdf",
	}, nil
}
