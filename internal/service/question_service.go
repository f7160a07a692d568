package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"quizhub/internal/errors"
	"quizhub/internal/model"
	"quizhub/internal/repository"
)

// DefaultQuestionCacheTTL applies when no TTL is configured.
const DefaultQuestionCacheTTL = 5 * time.Minute

// Cache is the read-through store used for single questions. Implementations fail safe.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// QuestionInput carries the fields of a new question.
type QuestionInput struct {
	Description  string
	Subject      string
	Alternatives []model.Alternative
}

// QuestionPatch carries a partial update. Nil fields are left untouched.
type QuestionPatch struct {
	Description  *string
	Subject      *string
	Alternatives []model.Alternative
}

// QuestionService manages questions and enforces their invariants.
type QuestionService interface {
	Create(ctx context.Context, userID uuid.UUID, in QuestionInput) (*model.Question, error)
	List(ctx context.Context) ([]model.Question, error)
	Get(ctx context.Context, id string) (*model.Question, error)
	Update(ctx context.Context, requesterID uuid.UUID, id string, patch QuestionPatch) (*model.Question, error)
	Delete(ctx context.Context, requesterID uuid.UUID, id string) (uuid.UUID, error)
}

type questionService struct {
	questions repository.QuestionRepository
	users     repository.UserRepository
	cache     Cache
	cacheTTL  time.Duration
	policy    *bluemonday.Policy
	log       logrus.FieldLogger
}

// NewQuestionService builds a QuestionService. cache may be nil.
func NewQuestionService(
	questions repository.QuestionRepository,
	users repository.UserRepository,
	cache Cache,
	cacheTTL time.Duration,
	log logrus.FieldLogger,
) QuestionService {
	if cacheTTL <= 0 {
		cacheTTL = DefaultQuestionCacheTTL
	}
	return &questionService{
		questions: questions,
		users:     users,
		cache:     cache,
		cacheTTL:  cacheTTL,
		policy:    bluemonday.StrictPolicy(),
		log:       log.WithField("component", "question_service"),
	}
}

// questionCacheKey names the cache entry of one question.
func questionCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("question:%s", id)
}

func (s *questionService) Create(ctx context.Context, userID uuid.UUID, in QuestionInput) (*model.Question, error) {
	alternatives, err := s.checkAlternatives(in.Alternatives)
	if err != nil {
		return nil, err
	}
	description, err := s.clean("description", in.Description)
	if err != nil {
		return nil, err
	}
	subject, err := s.clean("subject", in.Subject)
	if err != nil {
		return nil, err
	}

	_, err = s.users.FindByID(ctx, userID)
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.NotFound("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("find creator: %w", err)
	}

	question := &model.Question{
		Description:  description,
		Subject:      subject,
		UserID:       userID,
		Alternatives: alternatives,
	}
	if err := s.questions.Create(ctx, question); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}

	s.log.WithFields(logrus.Fields{"question_id": question.ID, "user_id": userID}).Info("question created")
	return question, nil
}

func (s *questionService) List(ctx context.Context) ([]model.Question, error) {
	questions, err := s.questions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return questions, nil
}

func (s *questionService) Get(ctx context.Context, id string) (*model.Question, error) {
	questionID, err := parseQuestionID(id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, _ := s.cache.Get(ctx, questionCacheKey(questionID)); data != nil {
			var cached model.Question
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	question, err := s.find(ctx, questionID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(question); err == nil {
			_ = s.cache.Set(ctx, questionCacheKey(questionID), payload, s.cacheTTL)
		}
	}
	return question, nil
}

// Update applies patch on behalf of requesterID. Replacing alternatives is
// reserved to the creator, checked before the alternatives themselves so a
// stranger is forbidden whatever they submit. Text-only edits are open to any
// authenticated user.
func (s *questionService) Update(ctx context.Context, requesterID uuid.UUID, id string, patch QuestionPatch) (*model.Question, error) {
	questionID, err := parseQuestionID(id)
	if err != nil {
		return nil, err
	}

	question, err := s.find(ctx, questionID)
	if err != nil {
		return nil, err
	}

	var alternatives []model.Alternative
	ownerID := uuid.Nil
	if patch.Alternatives != nil {
		if question.UserID != requesterID {
			return nil, errNotCreator()
		}
		ownerID = requesterID
		if alternatives, err = s.checkAlternatives(patch.Alternatives); err != nil {
			return nil, err
		}
	}
	if patch.Description != nil {
		if question.Description, err = s.clean("description", *patch.Description); err != nil {
			return nil, err
		}
	}
	if patch.Subject != nil {
		if question.Subject, err = s.clean("subject", *patch.Subject); err != nil {
			return nil, err
		}
	}

	if err := s.questions.Update(ctx, question, ownerID, alternatives); err != nil {
		return nil, writeError("update question", err, errNotCreator())
	}
	s.invalidate(ctx, questionID)

	s.log.WithField("question_id", questionID).Info("question updated")
	return question, nil
}

func (s *questionService) Delete(ctx context.Context, requesterID uuid.UUID, id string) (uuid.UUID, error) {
	questionID, err := parseQuestionID(id)
	if err != nil {
		return uuid.Nil, err
	}

	question, err := s.find(ctx, questionID)
	if err != nil {
		return uuid.Nil, err
	}
	if question.UserID != requesterID {
		return uuid.Nil, errNotDeleter()
	}

	if err := s.questions.Delete(ctx, questionID, requesterID); err != nil {
		return uuid.Nil, writeError("delete question", err, errNotDeleter())
	}
	s.invalidate(ctx, questionID)

	s.log.WithField("question_id", questionID).Info("question deleted")
	return questionID, nil
}

// checkAlternatives enforces exactly one correct alternative among exactly five.
func (s *questionService) checkAlternatives(in []model.Alternative) ([]model.Alternative, error) {
	if len(in) != model.AlternativesPerQuestion {
		return nil, errors.InvalidArgument("A question must have exactly %d alternatives", model.AlternativesPerQuestion)
	}
	if model.CountCorrect(in) != 1 {
		return nil, errors.InvalidArgument("There must be exactly one correct alternative")
	}

	out := make([]model.Alternative, 0, len(in))
	for _, alt := range in {
		description, err := s.clean("alternative description", alt.Description)
		if err != nil {
			return nil, err
		}
		out = append(out, model.Alternative{Description: description, IsCorrect: alt.IsCorrect})
	}
	return out, nil
}

// clean strips markup and rejects text that ends up empty.
func (s *questionService) clean(field, value string) (string, error) {
	cleaned := strings.TrimSpace(s.policy.Sanitize(value))
	if cleaned == "" {
		return "", errors.InvalidArgument("%s must not be empty", field)
	}
	return cleaned, nil
}

func (s *questionService) find(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	question, err := s.questions.FindByID(ctx, id)
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.NotFound("Question not found")
	}
	if err != nil {
		return nil, fmt.Errorf("find question: %w", err)
	}
	return question, nil
}

// writeError maps repository write failures. notOwner replaces repository.ErrNotOwner.
func writeError(op string, err, notOwner error) error {
	switch {
	case stderrors.Is(err, repository.ErrNotOwner):
		return notOwner
	case stderrors.Is(err, gorm.ErrRecordNotFound):
		return errors.NotFound("Question not found")
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func (s *questionService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, questionCacheKey(id))
	}
}

func errNotCreator() error {
	return errors.Forbidden("Only the creator of the question can update")
}

func errNotDeleter() error {
	return errors.Forbidden("Only the creator of the question can delete")
}

func parseQuestionID(id string) (uuid.UUID, error) {
	questionID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, errors.InvalidArgument("Invalid id")
	}
	return questionID, nil
}
