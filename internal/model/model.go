package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"workchat-intake-backend/internal/questionnaire"
)

// Response statuses.
const (
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
)

type Questionnaire struct {
	ID           string                                          `json:"id" gorm:"primaryKey;type:uuid"`
	Subdomain    string                                          `json:"subdomain" gorm:"uniqueIndex;not null"`
	Title        string                                          `json:"title" gorm:"not null"`
	Description  string                                          `json:"description"`
	Config       datatypes.JSONType[questionnaire.Configuration] `json:"config" gorm:"not null"`
	LawFirmEmail string                                          `json:"law_firm_email" gorm:"not null"`
	LawFirmName  string                                          `json:"law_firm_name" gorm:"not null"`
	Branding     datatypes.JSONType[map[string]any]              `json:"branding"`
	IsActive     bool                                            `json:"is_active" gorm:"not null;index"`
	Responses    []Response                                      `json:"-" gorm:"foreignKey:QuestionnaireID"`
	CreatedAt    time.Time                                       `json:"created_at"`
	UpdatedAt    time.Time                                       `json:"updated_at"`
}

func (q *Questionnaire) BeforeCreate(*gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	return nil
}

// Response is one respondent session. CurrentStep holds a step key
// ("welcome", "field:<id>", "thankyou:<id>" or "done") and History the keys
// of the questions answered so far, most recent last.
type Response struct {
	ID              string                             `json:"id" gorm:"primaryKey;type:uuid"`
	QuestionnaireID string                             `json:"questionnaire_id" gorm:"type:uuid;not null;index"`
	Questionnaire   *Questionnaire                     `json:"questionnaire,omitempty" gorm:"foreignKey:QuestionnaireID"`
	SessionID       string                             `json:"session_id" gorm:"uniqueIndex;not null"`
	Answers         datatypes.JSONType[map[string]any] `json:"answers" gorm:"not null"`
	Metadata        datatypes.JSONType[map[string]any] `json:"metadata"`
	Status          string                             `json:"status" gorm:"not null;default:'IN_PROGRESS'"`
	CurrentStep     string                             `json:"current_step"`
	History         datatypes.JSONType[[]string]       `json:"history"`
	SubmittedAt     *time.Time                         `json:"submitted_at,omitempty"`
	Files           []ResponseFile                     `json:"files" gorm:"foreignKey:ResponseID"`
	CreatedAt       time.Time                          `json:"created_at"`
	UpdatedAt       time.Time                          `json:"updated_at"`
}

func (r *Response) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// Completed reports whether the response was submitted.
func (r *Response) Completed() bool {
	return r.Status == StatusCompleted
}

type ResponseFile struct {
	ID         string    `json:"id" gorm:"primaryKey;type:uuid"`
	ResponseID string    `json:"response_id" gorm:"type:uuid;not null;index"`
	FieldRef   string    `json:"field_ref" gorm:"not null"`
	FileName   string    `json:"file_name" gorm:"not null"`
	StoredName string    `json:"-"`
	FileURL    string    `json:"file_url" gorm:"not null"`
	FileSize   int64     `json:"file_size"`
	MimeType   string    `json:"mime_type"`
	CreatedAt  time.Time `json:"created_at"`
}

func (f *ResponseFile) BeforeCreate(*gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return nil
}
