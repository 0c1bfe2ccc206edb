package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"

	"workchat-intake-backend/internal/model"
	"workchat-intake-backend/internal/questionnaire"
	"workchat-intake-backend/internal/repository"
	"workchat-intake-backend/utilities"
)

// ImportRequest creates a questionnaire for a firm. TypeformJSON is the raw
// export; without it a questionnaire with no fields is created.
type ImportRequest struct {
	Subdomain    string          `json:"subdomain"`
	LawFirmEmail string          `json:"law_firm_email"`
	LawFirmName  string          `json:"law_firm_name"`
	TypeformJSON json.RawMessage `json:"typeform_json"`
	Branding     map[string]any  `json:"branding"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
}

type QuestionnaireService interface {
	Import(req ImportRequest) (*model.Questionnaire, error)
	GetByID(id string) (*model.Questionnaire, error)
	GetBySubdomain(subdomain string) (*model.Questionnaire, error)
	List() ([]model.Questionnaire, error)
}

type questionnaireService struct {
	repo repository.QuestionnaireRepository
}

func NewQuestionnaireService(repo repository.QuestionnaireRepository) QuestionnaireService {
	return &questionnaireService{repo: repo}
}

func (s *questionnaireService) Import(req ImportRequest) (*model.Questionnaire, error) {
	if strings.TrimSpace(req.Subdomain) == "" || strings.TrimSpace(req.LawFirmEmail) == "" ||
		strings.TrimSpace(req.LawFirmName) == "" {
		return nil, ErrMissingFields
	}

	subdomain := utilities.SanitizeSubdomain(req.Subdomain)
	if !utilities.ValidateSubdomain(subdomain) {
		return nil, ErrInvalidSubdomain
	}
	taken, err := s.repo.SubdomainExists(subdomain)
	if err != nil {
		return nil, fmt.Errorf("check subdomain: %w", err)
	}
	if taken {
		return nil, ErrSubdomainTaken
	}

	cfg, err := importConfiguration(req)
	if err != nil {
		return nil, err
	}

	description := req.Description
	if description == "" && cfg.Description != nil {
		description = *cfg.Description
	}
	branding := req.Branding
	if branding == nil {
		branding = map[string]any{}
	}

	q := &model.Questionnaire{
		Subdomain:    subdomain,
		Title:        cfg.Title,
		Description:  description,
		Config:       datatypes.NewJSONType(*cfg),
		LawFirmEmail: strings.TrimSpace(req.LawFirmEmail),
		LawFirmName:  strings.TrimSpace(req.LawFirmName),
		Branding:     datatypes.NewJSONType(branding),
		IsActive:     true,
	}
	if err := s.repo.Create(q); err != nil {
		return nil, err
	}
	utilities.Info("imported questionnaire %s for %s (%d fields)", q.ID, subdomain, len(cfg.Fields))
	return q, nil
}

func importConfiguration(req ImportRequest) (*questionnaire.Configuration, error) {
	raw := strings.TrimSpace(string(req.TypeformJSON))
	if raw != "" && raw != "null" {
		cfg, err := questionnaire.ParseJSON(req.TypeformJSON)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
		}
		return cfg, nil
	}

	doc := map[string]any{"title": req.Title}
	if req.Title == "" {
		doc["title"] = req.LawFirmName + " Intake"
	}
	if req.Description != "" {
		doc["description"] = req.Description
	}
	return questionnaire.Parse(doc), nil
}

func (s *questionnaireService) GetByID(id string) (*model.Questionnaire, error) {
	q, err := s.repo.FindByID(id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrQuestionnaireNotFound
	}
	return q, err
}

func (s *questionnaireService) GetBySubdomain(subdomain string) (*model.Questionnaire, error) {
	q, err := s.repo.FindActiveBySubdomain(subdomain)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrQuestionnaireNotFound
	}
	return q, err
}

func (s *questionnaireService) List() ([]model.Questionnaire, error) {
	return s.repo.ListActive()
}
