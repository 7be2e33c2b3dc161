package service_test

import (
	"context"
	"testing"

	"docgen/internal/layout"
	"docgen/internal/model"
	"docgen/internal/render"
	"docgen/internal/service"
	"docgen/internal/theme"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubBackend records the last call instead of rendering.
type stubBackend struct {
	name     string
	calls    int
	lastDoc  *layout.ComposedDocument
	lastSpec theme.Spec
	lastOpts render.Options
}

func (b *stubBackend) Render(_ context.Context, doc *layout.ComposedDocument, spec theme.Spec, opts render.Options) (*model.RenderedDocument, error) {
	b.calls++
	b.lastDoc = doc
	b.lastSpec = spec
	b.lastOpts = opts
	return &model.RenderedDocument{Bytes: []byte(b.name), PageCount: len(doc.Pages), ContentType: "application/pdf"}, nil
}

// stubPrefRepo serves a fixed preference per user id.
type stubPrefRepo struct {
	prefs map[uuid.UUID]*model.TemplatePreference
}

func (r *stubPrefRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*model.TemplatePreference, error) {
	if p, ok := r.prefs[userID]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubPrefRepo) Upsert(_ context.Context, pref *model.TemplatePreference) error {
	if r.prefs == nil {
		r.prefs = map[uuid.UUID]*model.TemplatePreference{}
	}
	r.prefs[pref.UserID] = pref
	return nil
}

func fixture() model.InvoiceDocument {
	return model.InvoiceDocument{
		Number:   "INV-2024-042",
		Currency: "CHF",
		Creditor: model.Party{
			Name:           "Muster Treuhand AG",
			Street:         "Bahnhofstrasse",
			BuildingNumber: "12",
			PostalCode:     "8001",
			City:           "Zurich",
			CountryCode:    "CH",
			IBAN:           "CH9300762011623852957",
		},
		Debtor: model.Party{
			Name:         "Hans Beispiel",
			AddressLines: []string{"Dorfweg 3", "3000 Bern"},
			CountryCode:  "CH",
		},
		Items: []model.LineItem{{
			Description: "Consulting",
			Quantity:    decimal.NewFromInt(2),
			UnitPrice:   decimal.NewFromInt(50),
			TaxRate:     decimal.NewFromFloat(8.1),
			Total:       decimal.NewFromInt(100),
		}},
		Subtotal: decimal.NewFromInt(100),
		Total:    decimal.NewFromInt(100),
	}
}

type harness struct {
	svc    service.DocumentService
	markup *stubBackend
	vector *stubBackend
	repo   *stubPrefRepo
}

func newHarness() *harness {
	h := &harness{
		markup: &stubBackend{name: "markup"},
		vector: &stubBackend{name: "vector"},
		repo:   &stubPrefRepo{},
	}
	h.svc = service.NewDocumentService(h.repo, h.markup, h.vector)
	return h
}

func TestGenerateDocument_DefaultPath(t *testing.T) {
	h := newHarness()
	out, err := h.svc.GenerateDocument(context.Background(), service.GenerateDocumentRequest{Document: fixture()})
	require.NoError(t, err)

	assert.Equal(t, 1, h.markup.calls)
	assert.Equal(t, 0, h.vector.calls)
	assert.Equal(t, "classic", h.markup.lastOpts.TemplateKey)
	assert.False(t, h.markup.lastOpts.Preview)
	assert.Equal(t, "INV-2024-042", h.markup.lastOpts.DocumentNumber)
	assert.True(t, h.markup.lastDoc.SlipIncluded)
	assert.Equal(t, []byte("markup"), out.Bytes)
}

func TestGenerateDocument_TemplatePrecedence(t *testing.T) {
	userID := uuid.New()

	t.Run("explicit option wins over saved preference", func(t *testing.T) {
		h := newHarness()
		h.repo.prefs = map[uuid.UUID]*model.TemplatePreference{
			userID: {UserID: userID, TemplateKey: "swiss"},
		}
		doc := fixture()
		doc.TemplateKey = "elegant"
		_, err := h.svc.GenerateDocument(context.Background(), service.GenerateDocumentRequest{
			Document: doc,
			Options:  service.GenerateOptions{TemplateKey: "modern", UserID: userID.String()},
		})
		require.NoError(t, err)
		assert.Equal(t, "modern", h.markup.lastOpts.TemplateKey)
	})

	t.Run("saved preference wins over document template", func(t *testing.T) {
		h := newHarness()
		h.repo.prefs = map[uuid.UUID]*model.TemplatePreference{
			userID: {UserID: userID, TemplateKey: "swiss"},
		}
		doc := fixture()
		doc.TemplateKey = "elegant"
		_, err := h.svc.GenerateDocument(context.Background(), service.GenerateDocumentRequest{
			Document: doc,
			Options:  service.GenerateOptions{UserID: userID.String()},
		})
		require.NoError(t, err)
		assert.Equal(t, "swiss", h.markup.lastOpts.TemplateKey)
	})

	t.Run("document template wins over default", func(t *testing.T) {
		h := newHarness()
		doc := fixture()
		doc.TemplateKey = "elegant"
		_, err := h.svc.GenerateDocument(context.Background(), service.GenerateDocumentRequest{
			Document: doc,
			Options:  service.GenerateOptions{UserID: uuid.NewString()},
		})
		require.NoError(t, err)
		assert.Equal(t, "elegant", h.markup.lastOpts.TemplateKey)
	})
}

func TestGenerateDocument_LegacyTemplateUsesVectorBackend(t *testing.T) {
	h := newHarness()
	_, err := h.svc.GenerateDocument(context.Background(), service.GenerateDocumentRequest{
		Document: fixture(),
		Options:  service.GenerateOptions{TemplateKey: "classic-legacy"},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, h.markup.calls)
	assert.Equal(t, 1, h.vector.calls)
	// The legacy template shares the classic visual preset.
	assert.Equal(t, "classic", h.vector.lastSpec.Key)
}

func TestGeneratePreview_AlwaysMarkup(t *testing.T) {
	h := newHarness()
	_, err := h.svc.GeneratePreview(context.Background(), service.GenerateDocumentRequest{
		Document: fixture(),
		Options:  service.GenerateOptions{TemplateKey: "classic-legacy"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, h.markup.calls)
	assert.Equal(t, 0, h.vector.calls)
	assert.True(t, h.markup.lastOpts.Preview)
}

func TestGenerateDocument_NoIBANMeansNoSlip(t *testing.T) {
	h := newHarness()
	doc := fixture()
	doc.Creditor.IBAN = ""

	_, err := h.svc.GenerateDocument(context.Background(), service.GenerateDocumentRequest{Document: doc})
	require.NoError(t, err)
	assert.False(t, h.markup.lastDoc.SlipIncluded)
}

func TestGenerateDocument_QuoteGetsNoSlip(t *testing.T) {
	h := newHarness()
	doc := fixture()
	doc.IsQuote = true

	_, err := h.svc.GenerateDocument(context.Background(), service.GenerateDocumentRequest{Document: doc})
	require.NoError(t, err)
	assert.False(t, h.markup.lastDoc.SlipIncluded)
}

func TestGenerateDocument_RequireSlip(t *testing.T) {
	h := newHarness()
	doc := fixture()
	doc.Creditor.IBAN = ""

	_, err := h.svc.GenerateDocument(context.Background(), service.GenerateDocumentRequest{
		Document: doc,
		Options:  service.GenerateOptions{RequireSlip: true},
	})
	assert.Error(t, err)
}

func TestGenerateDocument_InvalidSlipDegrades(t *testing.T) {
	h := newHarness()
	doc := fixture()
	doc.Currency = "USD" // no slip currency, document still renders

	_, err := h.svc.GenerateDocument(context.Background(), service.GenerateDocumentRequest{Document: doc})
	require.NoError(t, err)
	assert.False(t, h.markup.lastDoc.SlipIncluded)
}

func TestGenerateDocument_AccentColorReachesTheme(t *testing.T) {
	h := newHarness()
	_, err := h.svc.GenerateDocument(context.Background(), service.GenerateDocumentRequest{
		Document: fixture(),
		Options:  service.GenerateOptions{TemplateKey: "modern", AccentColor: "#123456"},
	})
	require.NoError(t, err)
	assert.Equal(t, theme.Color{R: 0x12, G: 0x34, B: 0x56}, h.markup.lastSpec.HeaderBackground)
}

func TestGenerateDocument_InvalidAccentIgnored(t *testing.T) {
	h := newHarness()
	_, err := h.svc.GenerateDocument(context.Background(), service.GenerateDocumentRequest{
		Document: fixture(),
		Options:  service.GenerateOptions{AccentColor: "not-a-color"},
	})
	require.NoError(t, err)
	assert.Equal(t, theme.Resolve("classic", nil).HeaderBackground, h.markup.lastSpec.HeaderBackground)
}

func TestGenerateDocument_RejectsIncompleteAggregate(t *testing.T) {
	h := newHarness()

	doc := fixture()
	doc.Number = ""
	_, err := h.svc.GenerateDocument(context.Background(), service.GenerateDocumentRequest{Document: doc})
	assert.Error(t, err)

	doc = fixture()
	doc.Creditor.Name = ""
	_, err = h.svc.GenerateDocument(context.Background(), service.GenerateDocumentRequest{Document: doc})
	assert.Error(t, err)
}
