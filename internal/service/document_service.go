package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"docgen/internal/finance"
	"docgen/internal/layout"
	"docgen/internal/model"
	"docgen/internal/qrbill"
	"docgen/internal/render"
	"docgen/internal/repository"
	"docgen/internal/theme"

	"github.com/google/uuid"
)

// --- DTOs ---

// GenerateOptions steer one generation call. TemplateKey, when set, wins
// over the user's saved preference and the document's own template.
type GenerateOptions struct {
	TemplateKey string                    `json:"template_key"`
	UserID      string                    `json:"user_id"`
	AccentColor string                    `json:"accent_color"`
	RequireSlip bool                      `json:"require_slip"`
	CompanyInfo *model.CompanyInfoToggles `json:"company_info"` // nil = all lines enabled
}

// GenerateDocumentRequest carries the fully-resolved aggregate supplied by
// the external invoicing service plus per-call options. The engine performs
// no persistence writes on it.
type GenerateDocumentRequest struct {
	Document model.InvoiceDocument `json:"document" binding:"required"`
	Options  GenerateOptions       `json:"options"`
}

// --- Interface ---

type DocumentService interface {
	GenerateDocument(ctx context.Context, req GenerateDocumentRequest) (*model.RenderedDocument, error)
	GeneratePreview(ctx context.Context, req GenerateDocumentRequest) (*model.RenderedDocument, error)
}

type documentService struct {
	prefRepo repository.PreferenceRepository
	markup   render.Backend
	vector   render.Backend
}

func NewDocumentService(prefRepo repository.PreferenceRepository, markup, vector render.Backend) DocumentService {
	return &documentService{
		prefRepo: prefRepo,
		markup:   markup,
		vector:   vector,
	}
}

// --- Implementation ---

func (s *documentService) GenerateDocument(ctx context.Context, req GenerateDocumentRequest) (*model.RenderedDocument, error) {
	return s.generate(ctx, req, false)
}

func (s *documentService) GeneratePreview(ctx context.Context, req GenerateDocumentRequest) (*model.RenderedDocument, error) {
	return s.generate(ctx, req, true)
}

func (s *documentService) generate(ctx context.Context, req GenerateDocumentRequest, preview bool) (*model.RenderedDocument, error) {
	doc := &req.Document
	if err := validateAggregate(doc); err != nil {
		return nil, err
	}

	templateKey, accent := s.resolveTemplate(ctx, req)

	pres := finance.BuildPresentation(doc)

	slip, err := s.buildSlip(doc, pres, req.Options.RequireSlip)
	if err != nil {
		return nil, err
	}

	spec := theme.Resolve(ThemeKeyFor(templateKey), accent)

	metrics := layout.DefaultMetrics()
	metrics.MarginTop = spec.MarginTop
	metrics.MarginSide = spec.MarginSide
	metrics.MarginBottom = spec.MarginBottom

	toggles := model.CompanyInfoToggles{ShowVAT: true, ShowPhone: true, ShowEmail: true, ShowWebsite: true, ShowIBAN: true}
	if req.Options.CompanyInfo != nil {
		toggles = *req.Options.CompanyInfo
	}

	composed := layout.NewComposer(metrics, toggles).Compose(doc, pres, slip)

	backend := s.markup
	if !preview && EngineFor(templateKey) == EngineVector {
		backend = s.vector
	}

	return backend.Render(ctx, composed, spec, render.Options{
		Preview:        preview,
		TemplateKey:    templateKey,
		DocumentNumber: doc.Number,
	})
}

// resolveTemplate walks the precedence chain: explicit option, then the
// user's saved preference, then the document's stored template, then the
// system default. The accent follows the same chain.
func (s *documentService) resolveTemplate(ctx context.Context, req GenerateDocumentRequest) (string, *theme.Color) {
	accent := parseAccent(req.Options.AccentColor)

	if req.Options.TemplateKey != "" {
		return req.Options.TemplateKey, accent
	}

	if req.Options.UserID != "" {
		if uid, err := uuid.Parse(req.Options.UserID); err == nil {
			if pref, err := s.prefRepo.FindByUserID(ctx, uid); err == nil {
				if accent == nil {
					accent = parseAccent(pref.AccentColor)
				}
				return pref.TemplateKey, accent
			}
		}
	}

	if req.Document.TemplateKey != "" {
		return req.Document.TemplateKey, accent
	}
	return DefaultTemplateKey, accent
}

// buildSlip encodes the payment slip when the creditor account allows one.
// Every validation failure degrades to a slip-less document unless the
// caller marked the slip mandatory; the omission is logged for diagnostics
// either way.
func (s *documentService) buildSlip(doc *model.InvoiceDocument, pres finance.Presentation, required bool) (*layout.SlipContent, error) {
	if doc.IsQuote || doc.Creditor.IBAN == "" {
		if required {
			return nil, fmt.Errorf("payment slip required but document %s has no creditor account", doc.Number)
		}
		return nil, nil
	}

	amount := pres.SlipAmount
	data := qrbill.SlipData{
		Account:       doc.Creditor.IBAN,
		Creditor:      doc.Creditor,
		ReferenceType: inferReferenceType(doc.PaymentRef),
		Reference:     doc.PaymentRef,
		Amount:        &amount,
		Currency:      doc.Currency,
		Message:       "Invoice " + doc.Number,
	}
	if doc.Debtor.Name != "" {
		debtor := doc.Debtor
		data.Debtor = &debtor
	}

	result := qrbill.Encode(data)
	if result.Skip {
		log.Printf("document %s: payment slip omitted: %v", doc.Number, result.SkipReason)
		if required {
			return nil, fmt.Errorf("payment slip required but invalid: %w", result.SkipReason)
		}
		return nil, nil
	}

	return &layout.SlipContent{Data: data, Result: result}, nil
}

func inferReferenceType(ref string) qrbill.ReferenceType {
	switch {
	case ref == "":
		return qrbill.ReferenceNON
	case strings.HasPrefix(strings.ToUpper(ref), "RF"):
		return qrbill.ReferenceSCOR
	default:
		return qrbill.ReferenceQRR
	}
}

var errEmptyDocument = errors.New("document number and currency are required")

func validateAggregate(doc *model.InvoiceDocument) error {
	if doc.Number == "" || doc.Currency == "" {
		return errEmptyDocument
	}
	if doc.Creditor.Name == "" {
		return fmt.Errorf("document %s: creditor name is required", doc.Number)
	}
	return nil
}

func parseAccent(hex string) *theme.Color {
	if hex == "" {
		return nil
	}
	c, err := theme.ParseHexColor(hex)
	if err != nil {
		log.Printf("ignoring invalid accent color %q: %v", hex, err)
		return nil
	}
	return &c
}
