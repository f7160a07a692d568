package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AlternativesPerQuestion is the fixed number of alternatives a question carries.
const AlternativesPerQuestion = 5

// Question is a multiple-choice question owned by its creator.
type Question struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Subject     string    `json:"subject" gorm:"size:255;not null;index"`
	UserID      uuid.UUID `json:"user_id" gorm:"type:char(36);not null;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Alternatives []Alternative `json:"alternatives" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// Alternative is one candidate answer of a question.
type Alternative struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	QuestionID  uuid.UUID `json:"question_id" gorm:"type:char(36);not null;index"`
	Description string    `json:"description" gorm:"type:text;not null"`
	IsCorrect   bool      `json:"is_correct" gorm:"not null;default:false"`
}

// BeforeCreate sets UUID before creating the record.
func (a *Alternative) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// CountCorrect returns how many alternatives are flagged as correct.
func CountCorrect(alternatives []Alternative) int {
	n := 0
	for _, a := range alternatives {
		if a.IsCorrect {
			n++
		}
	}
	return n
}
