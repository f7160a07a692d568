package main

import (
	"context"
	_ "embed"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"quizhub/internal/auth"
	"quizhub/internal/config"
	"quizhub/internal/db"
	"quizhub/internal/logging"
	"quizhub/internal/model"
	"quizhub/internal/repository"
	"quizhub/internal/service"
)

//go:embed seed.json
var defaultSeed []byte

// SeedUser is one author with the questions created on their behalf.
type SeedUser struct {
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Password  string         `json:"password"`
	Questions []SeedQuestion `json:"questions"`
}

// SeedQuestion mirrors the question payload of the API.
type SeedQuestion struct {
	Description  string              `json:"description"`
	Subject      string              `json:"subject"`
	Alternatives []model.Alternative `json:"alternatives"`
}

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	log.Info("starting seed script")

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	if err := db.Migrate(gormDB, false, log); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	data := defaultSeed
	if path := os.Getenv("SEED_FILE"); path != "" {
		if data, err = os.ReadFile(path); err != nil {
			log.WithError(err).Fatal("failed to read seed file")
		}
	}

	var seedUsers []SeedUser
	if err := json.Unmarshal(data, &seedUsers); err != nil {
		log.WithError(err).Fatal("failed to parse seed data")
	}

	userRepo := repository.NewUserRepository(gormDB)
	hasher := auth.NewBcryptHasher()
	questionRepo := repository.NewQuestionRepository(gormDB)
	users := service.NewUserService(userRepo, questionRepo, hasher, nil, nil, log)
	questions := service.NewQuestionService(questionRepo, userRepo, nil, 0, log)

	created, err := seed(context.Background(), userRepo, users, questions, seedUsers, log)
	if err != nil {
		logging.LogError(log, "seed failed", err)
		os.Exit(1)
	}
	log.WithFields(logrus.Fields{
		"users_created":     created,
		"users_processed":   len(seedUsers),
		"users_already_set": len(seedUsers) - created,
	}).Info("seed completed")
}

// seed registers each user once. Users that already exist are left untouched,
// together with their questions, so running it twice is harmless.
func seed(
	ctx context.Context,
	repo repository.UserRepository,
	users service.UserService,
	questions service.QuestionService,
	seedUsers []SeedUser,
	log logrus.FieldLogger,
) (int, error) {
	created := 0
	for _, su := range seedUsers {
		_, err := repo.FindByEmail(ctx, su.Email)
		if err == nil {
			log.WithField("email", su.Email).Info("user already seeded, skipping")
			continue
		}
		if !stderrors.Is(err, gorm.ErrRecordNotFound) {
			return created, fmt.Errorf("check user %s: %w", su.Email, err)
		}

		user, err := users.Register(ctx, su.Name, su.Email, su.Password)
		if err != nil {
			return created, fmt.Errorf("register %s: %w", su.Email, err)
		}
		created++

		if err := seedQuestions(ctx, questions, user.ID, su.Questions); err != nil {
			return created, fmt.Errorf("questions of %s: %w", su.Email, err)
		}
	}
	return created, nil
}

func seedQuestions(ctx context.Context, questions service.QuestionService, owner uuid.UUID, items []SeedQuestion) error {
	for _, q := range items {
		if _, err := questions.Create(ctx, owner, service.QuestionInput{
			Description:  q.Description,
			Subject:      q.Subject,
			Alternatives: q.Alternatives,
		}); err != nil {
			return err
		}
	}
	return nil
}
