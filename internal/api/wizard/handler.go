package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/prepdeck/qbank-admin/internal/config"
	"github.com/prepdeck/qbank-admin/internal/entity"
	"github.com/prepdeck/qbank-admin/internal/pkg/logger"
	"github.com/prepdeck/qbank-admin/internal/pkg/response"
	"go.uber.org/zap"
)

type Handler struct {
	usecase   WizardUsecase
	uploadCfg config.FileUploadConfig
}

func NewHandler(usecase WizardUsecase, uploadCfg config.FileUploadConfig) *Handler {
	return &Handler{
		usecase:   usecase,
		uploadCfg: uploadCfg,
	}
}

// Open handles POST /wizard - start a new creation wizard
func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "OpenWizard")

	session, err := h.usecase.Open(ctx)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Created(w, toSessionDTO(session))
}

// Get handles GET /wizard/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := h.sessionContext(r, "GetWizard")

	session, err := h.usecase.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toSessionDTO(session))
}

// Cancel handles POST /wizard/{id}/cancel - discard the session
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	ctx := h.sessionContext(r, "CancelWizard")

	if err := h.usecase.Cancel(ctx, chi.URLParam(r, "id")); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.NoContent(w)
}

// ListTopics handles GET /wizard/{id}/topics - step one listing
func (h *Handler) ListTopics(w http.ResponseWriter, r *http.Request) {
	ctx := h.sessionContext(r, "WizardListTopics")

	topics, err := h.usecase.ListTopics(ctx)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, topics)
}

// ListTags handles GET /wizard/{id}/tags - step two listing
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	ctx := h.sessionContext(r, "WizardListTags")

	tags, err := h.usecase.ListTags(ctx)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, tags)
}

// ListTemplates handles GET /wizard/{id}/templates - step three listing,
// scoped to the session's resolved topic
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	ctx := h.sessionContext(r, "WizardListTemplates")

	templates, err := h.usecase.ListTemplates(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, templates)
}

// SelectTopic handles POST /wizard/{id}/topic - select or create-and-select
func (h *Handler) SelectTopic(w http.ResponseWriter, r *http.Request) {
	ctx := h.sessionContext(r, "WizardSelectTopic")

	var req entity.SelectTopicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.usecase.SelectTopic(ctx, chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toSessionDTO(session))
}

// AddTag handles POST /wizard/{id}/tags
func (h *Handler) AddTag(w http.ResponseWriter, r *http.Request) {
	ctx := h.sessionContext(r, "WizardAddTag")

	var req entity.AddTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.usecase.AddTag(ctx, chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toSessionDTO(session))
}

// RemoveTag handles DELETE /wizard/{id}/tags/{tag_id}
func (h *Handler) RemoveTag(w http.ResponseWriter, r *http.Request) {
	ctx := h.sessionContext(r, "WizardRemoveTag")

	session, err := h.usecase.RemoveTag(ctx, chi.URLParam(r, "id"), chi.URLParam(r, "tag_id"))
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toSessionDTO(session))
}

// SelectTemplate handles POST /wizard/{id}/template
func (h *Handler) SelectTemplate(w http.ResponseWriter, r *http.Request) {
	ctx := h.sessionContext(r, "WizardSelectTemplate")

	var req entity.SelectTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.usecase.SelectTemplate(ctx, chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toSessionDTO(session))
}

// Next handles POST /wizard/{id}/next
func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	ctx := h.sessionContext(r, "WizardNext")

	session, err := h.usecase.Next(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toSessionDTO(session))
}

// Back handles POST /wizard/{id}/back
func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	ctx := h.sessionContext(r, "WizardBack")

	session, err := h.usecase.Back(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toSessionDTO(session))
}

// SetMode handles POST /wizard/{id}/mode - switch between manual and CSV tabs
func (h *Handler) SetMode(w http.ResponseWriter, r *http.Request) {
	ctx := h.sessionContext(r, "WizardSetMode")

	var req entity.SetModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.usecase.SetMode(ctx, chi.URLParam(r, "id"), req.Mode)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toSessionDTO(session))
}

// UpdateDraft handles PUT /wizard/{id}/draft
func (h *Handler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	ctx := h.sessionContext(r, "WizardUpdateDraft")

	var draft entity.QuestionDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.usecase.UpdateDraft(ctx, chi.URLParam(r, "id"), &draft)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, toSessionDTO(session))
}

// Submit handles POST /wizard/{id}/submit - manual terminal path
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := h.sessionContext(r, "WizardSubmit")

	result, err := h.usecase.SubmitManual(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "question created through wizard",
		zap.String("question_id", result.Question.ID))

	response.Created(w, result)
}

// Import handles POST /wizard/{id}/import - CSV terminal path
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	ctx := h.sessionContext(r, "WizardImport")

	if err := r.ParseMultipartForm(h.uploadCfg.MaxUploadSize); err != nil {
		ctxzap.Error(ctx, "failed to parse multipart form", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	// A missing file is a legal call: the usecase answers with the specific
	// precondition error the admin needs to see.
	var file *multipart.FileHeader
	if files := r.MultipartForm.File["file"]; len(files) > 0 {
		file = files[0]
	}

	result, err := h.usecase.ImportCSV(ctx, chi.URLParam(r, "id"), file)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, result)
}

func (h *Handler) sessionContext(r *http.Request, action string) context.Context {
	return logger.AddFields(r.Context(),
		zap.String("session_id", chi.URLParam(r, "id")),
		zap.String("action", action),
	)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	ctxzap.Error(ctx, "wizard request failed", zap.Error(err))

	switch {
	case errors.Is(err, entity.ErrWizardNotFound),
		errors.Is(err, entity.ErrTopicNotFound),
		errors.Is(err, entity.ErrTagNotFound),
		errors.Is(err, entity.ErrTemplateNotFound):
		response.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, entity.ErrMissingField),
		errors.Is(err, entity.ErrInvalidParameter),
		errors.Is(err, entity.ErrInvalidFormat),
		errors.Is(err, entity.ErrInvalidExtension),
		errors.Is(err, entity.ErrFileTooLarge),
		errors.Is(err, entity.ErrImportNoFile),
		errors.Is(err, entity.ErrImportNoTags),
		errors.Is(err, entity.ErrImportNoTemplate):
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, entity.ErrWrongStep),
		errors.Is(err, entity.ErrStepIncomplete),
		errors.Is(err, entity.ErrAlreadyAtStart),
		errors.Is(err, entity.ErrWizardFinished):
		response.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, entity.ErrBackendRejected):
		response.Error(w, http.StatusBadGateway, err.Error())
	default:
		response.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
