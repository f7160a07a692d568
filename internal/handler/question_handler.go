package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"quizhub/internal/auth"
	"quizhub/internal/model"
	"quizhub/internal/service"
)

// QuestionHandler serves the question bank.
type QuestionHandler struct {
	svc service.QuestionService
	log logrus.FieldLogger
}

// NewQuestionHandler creates a question handler.
func NewQuestionHandler(svc service.QuestionService, log logrus.FieldLogger) *QuestionHandler {
	return &QuestionHandler{svc: svc, log: log.WithField("component", "question_handler")}
}

// AlternativeRequest is one candidate answer.
type AlternativeRequest struct {
	Description string `json:"description" validate:"required"`
	IsCorrect   *bool  `json:"is_correct" validate:"required"`
}

// CreateQuestionRequest represents a new question.
type CreateQuestionRequest struct {
	Description  string               `json:"description" validate:"required"`
	Subject      string               `json:"subject" validate:"required"`
	Alternatives []AlternativeRequest `json:"alternatives" validate:"required,len=5,dive"`
}

// UpdateQuestionRequest represents a partial update. Omitted fields are kept.
type UpdateQuestionRequest struct {
	Description  *string              `json:"description" validate:"omitempty,min=1"`
	Subject      *string              `json:"subject" validate:"omitempty,min=1"`
	Alternatives []AlternativeRequest `json:"alternatives" validate:"omitempty,len=5,dive"`
}

// DeletedQuestionResponse is returned after a question is removed.
type DeletedQuestionResponse struct {
	DeletedQuestionID uuid.UUID `json:"deleted_question_id"`
}

func toAlternatives(in []AlternativeRequest) []model.Alternative {
	if in == nil {
		return nil
	}
	out := make([]model.Alternative, 0, len(in))
	for _, a := range in {
		out = append(out, model.Alternative{Description: a.Description, IsCorrect: *a.IsCorrect})
	}
	return out
}

// Create godoc
// @Summary Create question
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateQuestionRequest true "Question payload"
// @Success 201 {object} model.Question
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /questions [post]
func (h *QuestionHandler) Create(c echo.Context, claims *auth.SessionClaims) error {
	var req CreateQuestionRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	question, err := h.svc.Create(c.Request().Context(), claims.UserUUID(), service.QuestionInput{
		Description:  req.Description,
		Subject:      req.Subject,
		Alternatives: toAlternatives(req.Alternatives),
	})
	if err != nil {
		return fail(h.log, "create question", err)
	}
	return c.JSON(http.StatusCreated, question)
}

// List godoc
// @Summary List questions
// @Tags questions
// @Produce json
// @Success 200 {array} model.Question
// @Failure 500 {object} errors.ErrorResponse
// @Router /questions [get]
func (h *QuestionHandler) List(c echo.Context) error {
	questions, err := h.svc.List(c.Request().Context())
	if err != nil {
		return fail(h.log, "list questions", err)
	}
	return c.JSON(http.StatusOK, questions)
}

// Get godoc
// @Summary Get question by id
// @Tags questions
// @Produce json
// @Param id path string true "Question ID"
// @Success 200 {object} model.Question
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /questions/{id} [get]
func (h *QuestionHandler) Get(c echo.Context) error {
	question, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(h.log, "get question", err)
	}
	return c.JSON(http.StatusOK, question)
}

// Update godoc
// @Summary Update question
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Question ID"
// @Param request body UpdateQuestionRequest true "Fields to change"
// @Success 200 {object} model.Question
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /questions/{id} [patch]
func (h *QuestionHandler) Update(c echo.Context, claims *auth.SessionClaims) error {
	var req UpdateQuestionRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	question, err := h.svc.Update(c.Request().Context(), claims.UserUUID(), c.Param("id"), service.QuestionPatch{
		Description:  req.Description,
		Subject:      req.Subject,
		Alternatives: toAlternatives(req.Alternatives),
	})
	if err != nil {
		return fail(h.log, "update question", err)
	}
	return c.JSON(http.StatusOK, question)
}

// Delete godoc
// @Summary Delete question
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Question ID"
// @Success 200 {object} DeletedQuestionResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /questions/{id} [delete]
func (h *QuestionHandler) Delete(c echo.Context, claims *auth.SessionClaims) error {
	id, err := h.svc.Delete(c.Request().Context(), claims.UserUUID(), c.Param("id"))
	if err != nil {
		return fail(h.log, "delete question", err)
	}
	return c.JSON(http.StatusOK, DeletedQuestionResponse{DeletedQuestionID: id})
}
