package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/prepdeck/qbank-admin/internal/entity"
	"github.com/prepdeck/qbank-admin/internal/pkg/logger"
	"github.com/prepdeck/qbank-admin/internal/pkg/response"
	"go.uber.org/zap"
)

type Handler struct {
	usecase CatalogUsecase
}

func NewHandler(usecase CatalogUsecase) *Handler {
	return &Handler{usecase: usecase}
}

// ListTopics handles GET /catalog/topics
func (h *Handler) ListTopics(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListTopics")

	topics, err := h.usecase.ListTopics(ctx)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, topics)
}

// CreateTopic handles POST /catalog/topics
func (h *Handler) CreateTopic(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CreateTopic")

	var req entity.CreateTopicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	topic, err := h.usecase.CreateTopic(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Created(w, topic)
}

// ListTags handles GET /catalog/tags
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListTags")

	tags, err := h.usecase.ListTags(ctx)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, tags)
}

// CreateTag handles POST /catalog/tags
func (h *Handler) CreateTag(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CreateTag")

	var req entity.CreateTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tag, err := h.usecase.CreateTag(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Created(w, tag)
}

// ListTemplates handles GET /catalog/templates?topic_id=
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListTemplates")

	templates, err := h.usecase.ListTemplates(ctx, r.URL.Query().Get("topic_id"))
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, templates)
}

// ListQuestions handles GET /catalog/questions?topic_id=
func (h *Handler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListQuestions")

	questions, err := h.usecase.ListQuestions(ctx, r.URL.Query().Get("topic_id"))
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, questions)
}

// ListTopicTags handles GET /catalog/topics/{id}/tags
func (h *Handler) ListTopicTags(w http.ResponseWriter, r *http.Request) {
	ctx := h.topicContext(r, "ListTopicTags")

	tags, err := h.usecase.ListTopicTags(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, tags)
}

// LinkTag handles PUT /catalog/topics/{id}/tags/{tag_id}
func (h *Handler) LinkTag(w http.ResponseWriter, r *http.Request) {
	ctx := h.topicContext(r, "LinkTagToTopic")

	if err := h.usecase.LinkTagToTopic(ctx, chi.URLParam(r, "id"), chi.URLParam(r, "tag_id")); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, map[string]string{"message": "tag linked"})
}

// UnlinkTag handles DELETE /catalog/topics/{id}/tags/{tag_id}
func (h *Handler) UnlinkTag(w http.ResponseWriter, r *http.Request) {
	ctx := h.topicContext(r, "UnlinkTagFromTopic")

	if err := h.usecase.UnlinkTagFromTopic(ctx, chi.URLParam(r, "id"), chi.URLParam(r, "tag_id")); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.NoContent(w)
}

// ExportQuestions handles GET /catalog/topics/{id}/questions/export?format=
func (h *Handler) ExportQuestions(w http.ResponseWriter, r *http.Request) {
	ctx := h.topicContext(r, "ExportQuestions")

	format := entity.ExportFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = entity.FormatMarkdown
	}

	file, err := h.usecase.ExportQuestionSheet(ctx, chi.URLParam(r, "id"), format)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Content); err != nil {
		ctxzap.Error(ctx, "failed to write export response", zap.Error(err))
	}
}

func (h *Handler) topicContext(r *http.Request, action string) context.Context {
	return logger.AddFields(r.Context(),
		zap.String("topic_id", chi.URLParam(r, "id")),
		zap.String("action", action),
	)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	ctxzap.Error(ctx, "catalog request failed", zap.Error(err))

	switch {
	case errors.Is(err, entity.ErrTopicNotFound),
		errors.Is(err, entity.ErrTagNotFound),
		errors.Is(err, entity.ErrTemplateNotFound):
		response.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, entity.ErrMissingField),
		errors.Is(err, entity.ErrInvalidParameter),
		errors.Is(err, entity.ErrInvalidFormat):
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, entity.ErrBackendRejected):
		response.Error(w, http.StatusBadGateway, err.Error())
	default:
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
