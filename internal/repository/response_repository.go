package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"workchat-intake-backend/internal/model"
)

type ResponseRepository interface {
	Create(r *model.Response) error
	FindByID(id string) (*model.Response, error)
	// FindWithQuestionnaire also loads the questionnaire and the uploaded files.
	FindWithQuestionnaire(id string) (*model.Response, error)
	Update(r *model.Response) error
	// Complete marks r submitted and reports false if it already was.
	Complete(r *model.Response) (bool, error)
	SaveFile(f *model.ResponseFile) error
}

type responseRepository struct {
	db *gorm.DB
}

func NewResponseRepository(db *gorm.DB) ResponseRepository {
	return &responseRepository{db: db}
}

func (r *responseRepository) Create(resp *model.Response) error {
	if err := r.db.Create(resp).Error; err != nil {
		return fmt.Errorf("create response: %w", err)
	}
	return nil
}

func (r *responseRepository) FindByID(id string) (*model.Response, error) {
	var resp model.Response
	if err := r.db.Preload("Files").Where("id = ?", id).First(&resp).Error; err != nil {
		return nil, notFound(err)
	}
	return &resp, nil
}

func (r *responseRepository) FindWithQuestionnaire(id string) (*model.Response, error) {
	var resp model.Response
	err := r.db.Preload("Files").Preload("Questionnaire").Where("id = ?", id).First(&resp).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &resp, nil
}

// Update writes the mutable columns; associations are left untouched.
func (r *responseRepository) Update(resp *model.Response) error {
	err := r.db.Model(resp).
		Select("answers", "metadata", "status", "current_step", "history", "submitted_at", "updated_at").
		Updates(resp).Error
	if err != nil {
		return fmt.Errorf("update response: %w", err)
	}
	return nil
}

// Complete stores resp as submitted unless it already is. The status check
// and the write are one statement, so concurrent submits complete once.
func (r *responseRepository) Complete(resp *model.Response) (bool, error) {
	res := r.db.Model(&model.Response{}).
		Where("id = ? AND status <> ?", resp.ID, model.StatusCompleted).
		Updates(map[string]any{
			"answers":      resp.Answers,
			"metadata":     resp.Metadata,
			"status":       model.StatusCompleted,
			"current_step": resp.CurrentStep,
			"history":      resp.History,
			"submitted_at": resp.SubmittedAt,
			"updated_at":   time.Now().UTC(),
		})
	if res.Error != nil {
		return false, fmt.Errorf("complete response: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *responseRepository) SaveFile(f *model.ResponseFile) error {
	if err := r.db.Create(f).Error; err != nil {
		return fmt.Errorf("save response file: %w", err)
	}
	return nil
}
