package service

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"quizhub/internal/auth"
	"quizhub/internal/errors"
	"quizhub/internal/model"
	"quizhub/internal/repository"
)

// EmailVerifier reports whether an address can receive mail.
type EmailVerifier func(email string) bool

// UserService exposes account operations.
type UserService interface {
	Register(ctx context.Context, name, email, password string) (*model.PublicUser, error)
	List(ctx context.Context) ([]model.PublicUser, error)
	Get(ctx context.Context, id string) (*model.PublicUser, error)
	ChangePassword(ctx context.Context, id uuid.UUID, password string) (*model.PublicUser, error)
	Delete(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

type userService struct {
	users     repository.UserRepository
	questions repository.QuestionRepository
	hasher    auth.PasswordHasher
	verifier  EmailVerifier
	cache     Cache
	log       logrus.FieldLogger
}

// NewUserService builds a UserService. verifier may be nil to skip deliverability
// checks; cache is the question cache and may be nil.
func NewUserService(
	users repository.UserRepository,
	questions repository.QuestionRepository,
	hasher auth.PasswordHasher,
	verifier EmailVerifier,
	cache Cache,
	log logrus.FieldLogger,
) UserService {
	return &userService{
		users:     users,
		questions: questions,
		hasher:    hasher,
		verifier:  verifier,
		cache:     cache,
		log:       log.WithField("component", "user_service"),
	}
}

func errEmailTaken() error {
	return errors.InvalidArgument("already exist a user with this email")
}

// Register creates a user. The unique index on email is the real guard; the lookup only exits early.
func (s *userService) Register(ctx context.Context, name, email, password string) (*model.PublicUser, error) {
	if s.verifier != nil && !s.verifier(email) {
		return nil, errors.InvalidArgument("email address %s cannot receive mail", email)
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, errEmailTaken()
	}
	if err != nil && !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: digest,
	}
	err = s.users.Create(ctx, user)
	if stderrors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, errEmailTaken()
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.WithField("user_id", user.ID).Info("user registered")
	public := user.Public()
	return &public, nil
}

func (s *userService) List(ctx context.Context) ([]model.PublicUser, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]model.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	return out, nil
}

func (s *userService) Get(ctx context.Context, id string) (*model.PublicUser, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.InvalidArgument("Invalid id")
	}
	user, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}
	public := user.Public()
	return &public, nil
}

func (s *userService) ChangePassword(ctx context.Context, id uuid.UUID, password string) (*model.PublicUser, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	err = s.users.UpdatePasswordHash(ctx, id, digest)
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.NotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("update password: %w", err)
	}

	user.PasswordHash = digest
	public := user.Public()
	return &public, nil
}

// Delete removes the account. Its questions go with it through the foreign key,
// so their ids are collected first to evict them from the question cache.
func (s *userService) Delete(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	owned, err := s.questions.ListIDsByUser(ctx, id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("list questions of user: %w", err)
	}

	err = s.users.Delete(ctx, id)
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, errors.NotFound("user not found")
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("delete user: %w", err)
	}

	if s.cache != nil && len(owned) > 0 {
		keys := make([]string, 0, len(owned))
		for _, questionID := range owned {
			keys = append(keys, questionCacheKey(questionID))
		}
		_ = s.cache.Delete(ctx, keys...)
	}

	s.log.WithFields(logrus.Fields{"user_id": id, "questions": len(owned)}).Info("user deleted")
	return id, nil
}

func (s *userService) find(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.NotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}
