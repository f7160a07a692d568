package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"quizhub/internal/model"
)

// ErrNotOwner is returned when a write is attempted by someone other than the question's creator.
var ErrNotOwner = errors.New("requester does not own the question")

// QuestionRepository defines question persistence operations.
type QuestionRepository interface {
	Create(ctx context.Context, question *model.Question) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Question, error)
	List(ctx context.Context) ([]model.Question, error)
	ListIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	// Update writes description and subject. Non-nil alternatives replace the existing ones.
	// A non-nil ownerID restricts the write to questions created by that user.
	Update(ctx context.Context, question *model.Question, ownerID uuid.UUID, alternatives []model.Alternative) error
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}

type questionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository creates a new question repository.
func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

// Create inserts the question and its alternatives in one transaction.
func (r *questionRepository) Create(ctx context.Context, question *model.Question) error {
	return r.db.WithContext(ctx).Create(question).Error
}

func (r *questionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	var question model.Question
	if err := r.db.WithContext(ctx).Preload("Alternatives").
		Where("id = ?", id).First(&question).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) List(ctx context.Context) ([]model.Question, error) {
	var questions []model.Question
	if err := r.db.WithContext(ctx).Preload("Alternatives").
		Order("created_at").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

// ListIDsByUser returns the ids of the questions created by userID.
func (r *questionRepository) ListIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&model.Question{}).
		Where("user_id = ?", userID).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Update locks the question row, re-checks ownership when ownerID is set and applies the change.
// Either everything is written or nothing is.
func (r *questionRepository) Update(ctx context.Context, question *model.Question, ownerID uuid.UUID, alternatives []model.Alternative) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockOwned(tx, question.ID, ownerID); err != nil {
			return err
		}

		if err := tx.Model(&model.Question{}).
			Where("id = ?", question.ID).
			Updates(map[string]interface{}{
				"description": question.Description,
				"subject":     question.Subject,
			}).Error; err != nil {
			return err
		}

		if alternatives == nil {
			return nil
		}

		if err := tx.Where("question_id = ?", question.ID).Delete(&model.Alternative{}).Error; err != nil {
			return err
		}
		for i := range alternatives {
			alternatives[i].ID = uuid.Nil
			alternatives[i].QuestionID = question.ID
		}
		if err := tx.Create(&alternatives).Error; err != nil {
			return err
		}
		question.Alternatives = alternatives
		return nil
	})
}

// Delete removes the question of ownerID together with its alternatives.
func (r *questionRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockOwned(tx, id, ownerID); err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", id).Delete(&model.Alternative{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Question{}).Error
	})
}

// lockOwned takes a row lock on the question and fails unless ownerID created it.
// uuid.Nil only locks.
func lockOwned(tx *gorm.DB, id, ownerID uuid.UUID) error {
	var existing model.Question
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "user_id").
		Where("id = ?", id).
		First(&existing).Error; err != nil {
		return err
	}
	if ownerID != uuid.Nil && existing.UserID != ownerID {
		return ErrNotOwner
	}
	return nil
}
