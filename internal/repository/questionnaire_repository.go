package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"workchat-intake-backend/internal/model"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

type QuestionnaireRepository interface {
	Create(q *model.Questionnaire) error
	FindByID(id string) (*model.Questionnaire, error)
	FindActiveBySubdomain(subdomain string) (*model.Questionnaire, error)
	ListActive() ([]model.Questionnaire, error)
	SubdomainExists(subdomain string) (bool, error)
}

type questionnaireRepository struct {
	db *gorm.DB
}

func NewQuestionnaireRepository(db *gorm.DB) QuestionnaireRepository {
	return &questionnaireRepository{db: db}
}

func (r *questionnaireRepository) Create(q *model.Questionnaire) error {
	if err := r.db.Create(q).Error; err != nil {
		return fmt.Errorf("create questionnaire: %w", err)
	}
	return nil
}

func (r *questionnaireRepository) FindByID(id string) (*model.Questionnaire, error) {
	var q model.Questionnaire
	if err := r.db.Where("id = ?", id).First(&q).Error; err != nil {
		return nil, notFound(err)
	}
	return &q, nil
}

func (r *questionnaireRepository) FindActiveBySubdomain(subdomain string) (*model.Questionnaire, error) {
	var q model.Questionnaire
	err := r.db.Where("subdomain = ? AND is_active = ?", subdomain, true).First(&q).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &q, nil
}

// ListActive omits the stored configuration; it is only needed when a
// single questionnaire is loaded.
func (r *questionnaireRepository) ListActive() ([]model.Questionnaire, error) {
	var qs []model.Questionnaire
	err := r.db.
		Select("id", "subdomain", "title", "law_firm_name", "is_active", "created_at", "updated_at").
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&qs).Error
	return qs, err
}

func (r *questionnaireRepository) SubdomainExists(subdomain string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Questionnaire{}).Where("subdomain = ?", subdomain).Count(&count).Error
	return count > 0, err
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
