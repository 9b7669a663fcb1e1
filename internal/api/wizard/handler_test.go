package wizard

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prepdeck/qbank-admin/internal/config"
	"github.com/prepdeck/qbank-admin/internal/entity"
)

// fakeUsecase scripts only the methods a test needs; the rest panic so an
// unexpected call fails loudly.
type fakeUsecase struct {
	WizardUsecase
	getFn    func(ctx context.Context, sessionID string) (*entity.WizardSession, error)
	nextFn   func(ctx context.Context, sessionID string) (*entity.WizardSession, error)
	submitFn func(ctx context.Context, sessionID string) (*entity.SubmitResult, error)
	openFn   func(ctx context.Context) (*entity.WizardSession, error)
}

func (f *fakeUsecase) Get(ctx context.Context, sessionID string) (*entity.WizardSession, error) {
	return f.getFn(ctx, sessionID)
}

func (f *fakeUsecase) Next(ctx context.Context, sessionID string) (*entity.WizardSession, error) {
	return f.nextFn(ctx, sessionID)
}

func (f *fakeUsecase) SubmitManual(ctx context.Context, sessionID string) (*entity.SubmitResult, error) {
	return f.submitFn(ctx, sessionID)
}

func (f *fakeUsecase) Open(ctx context.Context) (*entity.WizardSession, error) {
	return f.openFn(ctx)
}

func newTestRouter(uc WizardUsecase) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(uc, config.FileUploadConfig{MaxUploadSize: 32 << 20}))
	return r
}

func TestHandlerStatusMapping(t *testing.T) {
	session := &entity.WizardSession{ID: "s1", Step: entity.WizardStepTopic, Mode: entity.ComposeModeManual}

	tests := []struct {
		name       string
		method     string
		path       string
		usecase    *fakeUsecase
		wantStatus int
	}{
		{
			name:   "unknown session is 404",
			method: http.MethodGet,
			path:   "/wizard/s1",
			usecase: &fakeUsecase{getFn: func(ctx context.Context, id string) (*entity.WizardSession, error) {
				return nil, entity.ErrWizardNotFound
			}},
			wantStatus: http.StatusNotFound,
		},
		{
			name:   "incomplete step is 409",
			method: http.MethodPost,
			path:   "/wizard/s1/next",
			usecase: &fakeUsecase{nextFn: func(ctx context.Context, id string) (*entity.WizardSession, error) {
				return nil, entity.ErrStepIncomplete
			}},
			wantStatus: http.StatusConflict,
		},
		{
			name:   "backend rejection is 502",
			method: http.MethodPost,
			path:   "/wizard/s1/submit",
			usecase: &fakeUsecase{submitFn: func(ctx context.Context, id string) (*entity.SubmitResult, error) {
				return nil, entity.ErrBackendRejected
			}},
			wantStatus: http.StatusBadGateway,
		},
		{
			name:   "invalid draft is 400",
			method: http.MethodPost,
			path:   "/wizard/s1/submit",
			usecase: &fakeUsecase{submitFn: func(ctx context.Context, id string) (*entity.SubmitResult, error) {
				return nil, entity.ErrMissingField
			}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "open returns 201",
			method: http.MethodPost,
			path:   "/wizard",
			usecase: &fakeUsecase{openFn: func(ctx context.Context) (*entity.WizardSession, error) {
				return session, nil
			}},
			wantStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			newTestRouter(tt.usecase).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body: %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestHandlerGetReturnsSessionDTO(t *testing.T) {
	session := &entity.WizardSession{
		ID:    "s1",
		Step:  entity.WizardStepTags,
		Mode:  entity.ComposeModeManual,
		Topic: &entity.SelectedRef{ID: "topic-1", Title: "Go"},
	}
	uc := &fakeUsecase{getFn: func(ctx context.Context, id string) (*entity.WizardSession, error) {
		if id != "s1" {
			t.Errorf("session id = %s, want s1", id)
		}
		return session, nil
	}}

	req := httptest.NewRequest(http.MethodGet, "/wizard/s1", nil)
	rec := httptest.NewRecorder()
	newTestRouter(uc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var dto entity.WizardSessionDTO
	if err := json.NewDecoder(rec.Body).Decode(&dto); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if dto.ID != "s1" || dto.Step != entity.WizardStepTags {
		t.Errorf("dto = %+v", dto)
	}
	if dto.Topic == nil || dto.Topic.ID != "topic-1" {
		t.Errorf("dto topic = %+v, want topic-1", dto.Topic)
	}
}

func TestHandlerRejectsMalformedBody(t *testing.T) {
	uc := &fakeUsecase{}

	req := httptest.NewRequest(http.MethodPost, "/wizard/s1/topic", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	newTestRouter(uc).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandlerImportWithoutFilePart(t *testing.T) {
	called := false
	uc := &importFake{importFn: func(ctx context.Context, sessionID string, file *multipart.FileHeader) (*entity.ImportResult, error) {
		called = true
		if file != nil {
			t.Error("file should be nil when the form has no file part")
		}
		return nil, entity.ErrImportNoFile
	}}

	var body strings.Builder
	w := multipart.NewWriter(&body)
	_ = w.WriteField("unrelated", "value")
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/wizard/s1/import", strings.NewReader(body.String()))
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	newTestRouter(uc).ServeHTTP(rec, req)

	if !called {
		t.Fatal("usecase was not called")
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

type importFake struct {
	WizardUsecase
	importFn func(ctx context.Context, sessionID string, file *multipart.FileHeader) (*entity.ImportResult, error)
}

func (f *importFake) ImportCSV(ctx context.Context, sessionID string, file *multipart.FileHeader) (*entity.ImportResult, error) {
	return f.importFn(ctx, sessionID, file)
}
