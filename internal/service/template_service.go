package service

import (
	"context"
	"errors"
	"fmt"

	"docgen/internal/model"
	"docgen/internal/repository"
	"docgen/internal/theme"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Render engine families. Selection is explicit configuration per template,
// never an ad hoc flag on the document.
const (
	EngineMarkup = "markup"
	EngineVector = "vector"
)

// DefaultTemplateKey is the system fallback at the end of the precedence
// chain: option > saved preference > document template > default.
const DefaultTemplateKey = "classic"

// TemplateInfo is one entry of the closed template registry, consumed by the
// external settings UI.
type TemplateInfo struct {
	Key    string `json:"key"`
	Name   string `json:"name"`
	Engine string `json:"engine"`
}

// Ordered registry. classic-legacy keeps the direct-drawing print path alive
// for documents produced before the markup family existed.
var templateRegistry = []TemplateInfo{
	{Key: "classic", Name: "Classic", Engine: EngineMarkup},
	{Key: "modern", Name: "Modern", Engine: EngineMarkup},
	{Key: "minimal", Name: "Minimal", Engine: EngineMarkup},
	{Key: "swiss", Name: "Swiss", Engine: EngineMarkup},
	{Key: "elegant", Name: "Elegant", Engine: EngineMarkup},
	{Key: "classic-legacy", Name: "Classic (legacy print)", Engine: EngineVector},
}

var templatesByKey = func() map[string]TemplateInfo {
	m := make(map[string]TemplateInfo, len(templateRegistry))
	for _, t := range templateRegistry {
		m[t.Key] = t
	}
	return m
}()

// EngineFor returns the render engine of a template key; unknown keys get
// the default template's engine.
func EngineFor(key string) string {
	if t, ok := templatesByKey[key]; ok {
		return t.Engine
	}
	return templatesByKey[DefaultTemplateKey].Engine
}

// ThemeKeyFor maps a template key onto its visual preset. The legacy
// template shares the classic preset.
func ThemeKeyFor(key string) string {
	if key == "classic-legacy" {
		return "classic"
	}
	return theme.Canonical(key)
}

// --- DTOs ---

type UpdatePreferenceRequest struct {
	TemplateKey string `json:"template_key" binding:"required"`
	AccentColor string `json:"accent_color"`
}

type PreferenceResponse struct {
	UserID      string `json:"user_id"`
	TemplateKey string `json:"template_key"`
	AccentColor string `json:"accent_color"`
}

// --- Interface ---

type TemplateService interface {
	ListTemplates() []TemplateInfo
	GetPreference(ctx context.Context, userID string) (PreferenceResponse, error)
	UpdatePreference(ctx context.Context, userID string, req UpdatePreferenceRequest) (PreferenceResponse, error)
}

type templateService struct {
	prefRepo repository.PreferenceRepository
}

func NewTemplateService(prefRepo repository.PreferenceRepository) TemplateService {
	return &templateService{prefRepo: prefRepo}
}

// --- Implementation ---

func (s *templateService) ListTemplates() []TemplateInfo {
	out := make([]TemplateInfo, len(templateRegistry))
	copy(out, templateRegistry)
	return out
}

func (s *templateService) GetPreference(ctx context.Context, userID string) (PreferenceResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return PreferenceResponse{}, fmt.Errorf("invalid user id: %w", err)
	}

	pref, err := s.prefRepo.FindByUserID(ctx, uid)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return PreferenceResponse{UserID: userID, TemplateKey: DefaultTemplateKey}, nil
	}
	if err != nil {
		return PreferenceResponse{}, fmt.Errorf("failed to load preference: %w", err)
	}

	return toPreferenceResponse(pref), nil
}

func (s *templateService) UpdatePreference(ctx context.Context, userID string, req UpdatePreferenceRequest) (PreferenceResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return PreferenceResponse{}, fmt.Errorf("invalid user id: %w", err)
	}

	if _, ok := templatesByKey[req.TemplateKey]; !ok {
		return PreferenceResponse{}, fmt.Errorf("unknown template key %q", req.TemplateKey)
	}
	if req.AccentColor != "" {
		if _, err := theme.ParseHexColor(req.AccentColor); err != nil {
			return PreferenceResponse{}, fmt.Errorf("invalid accent color: %w", err)
		}
	}

	pref := &model.TemplatePreference{
		UserID:      uid,
		TemplateKey: req.TemplateKey,
		AccentColor: req.AccentColor,
	}
	if err := s.prefRepo.Upsert(ctx, pref); err != nil {
		return PreferenceResponse{}, fmt.Errorf("failed to save preference: %w", err)
	}

	return toPreferenceResponse(pref), nil
}

func toPreferenceResponse(pref *model.TemplatePreference) PreferenceResponse {
	return PreferenceResponse{
		UserID:      pref.UserID.String(),
		TemplateKey: pref.TemplateKey,
		AccentColor: pref.AccentColor,
	}
}
