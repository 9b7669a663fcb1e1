package wizard

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/prepdeck/qbank-admin/internal/entity"
)

// csvFileHeader builds a real multipart.FileHeader by writing and re-parsing
// a multipart body, the same way the HTTP layer produces one.
func csvFileHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("parse multipart form: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })

	files := form.File["file"]
	if len(files) != 1 {
		t.Fatalf("file parts = %d, want 1", len(files))
	}
	return files[0]
}

type recordingQuestions struct {
	importFn func(ctx context.Context, req *entity.CSVImportRequest) (string, error)
	lastReq  *entity.CSVImportRequest
}

func (r *recordingQuestions) CreateQuestion(ctx context.Context, req *entity.CreateQuestionRequest) (*entity.Question, error) {
	return nil, errors.New("not implemented")
}

func (r *recordingQuestions) ImportCSV(ctx context.Context, req *entity.CSVImportRequest) (string, error) {
	r.lastReq = req
	if r.importFn != nil {
		return r.importFn(ctx, req)
	}
	return "import accepted", nil
}

func composeSession() *entity.WizardSession {
	return &entity.WizardSession{
		ID:       "session-1",
		Step:     entity.WizardStepCompose,
		Mode:     entity.ComposeModeCSV,
		Topic:    &entity.SelectedRef{ID: "topic-1", Title: "Go"},
		Tags:     []entity.SelectedRef{{ID: "tag-1", Title: "basics"}},
		Template: &entity.SelectedRef{ID: "template-1", Title: "Screening"},
	}
}

func TestImportPreconditionPrecedence(t *testing.T) {
	importer := NewImporter(&recordingQuestions{}, testValidator())
	file := csvFileHeader(t, "batch.csv", "title\nrow\n")

	tests := []struct {
		name    string
		session func() *entity.WizardSession
		file    *multipart.FileHeader
		wantErr error
	}{
		{
			// The file check outranks everything, even with tags and
			// template missing too.
			name: "no file",
			session: func() *entity.WizardSession {
				s := composeSession()
				s.Tags = nil
				s.Template = nil
				return s
			},
			file:    nil,
			wantErr: entity.ErrImportNoFile,
		},
		{
			name: "no tags",
			session: func() *entity.WizardSession {
				s := composeSession()
				s.Tags = nil
				s.Template = nil
				return s
			},
			file:    file,
			wantErr: entity.ErrImportNoTags,
		},
		{
			name: "no template",
			session: func() *entity.WizardSession {
				s := composeSession()
				s.Template = nil
				return s
			},
			file:    file,
			wantErr: entity.ErrImportNoTemplate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := importer.checkPreconditions(tt.session(), tt.file)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestImportRejectsNonCSVExtension(t *testing.T) {
	importer := NewImporter(&recordingQuestions{}, testValidator())
	file := csvFileHeader(t, "batch.xlsx", "not a csv")

	err := importer.checkPreconditions(composeSession(), file)
	if !errors.Is(err, entity.ErrInvalidExtension) {
		t.Errorf("err = %v, want ErrInvalidExtension", err)
	}
}

func TestImportSendsResolvedDependencies(t *testing.T) {
	questions := &recordingQuestions{}
	importer := NewImporter(questions, testValidator())
	file := csvFileHeader(t, "batch.csv", "title\nWhat is a channel?\n")

	message, err := importer.Import(context.Background(), composeSession(), file)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if message != "import accepted" {
		t.Errorf("message = %q, want %q", message, "import accepted")
	}

	req := questions.lastReq
	if req == nil {
		t.Fatal("backend was not called")
	}
	if len(req.TagIDs) != 1 || req.TagIDs[0] != "tag-1" {
		t.Errorf("tag ids = %v, want [tag-1]", req.TagIDs)
	}
	if req.TemplateID != "template-1" {
		t.Errorf("template id = %s, want template-1", req.TemplateID)
	}
	if req.Filename != "batch.csv" {
		t.Errorf("filename = %s, want batch.csv", req.Filename)
	}
}

func TestImportPropagatesBackendError(t *testing.T) {
	questions := &recordingQuestions{
		importFn: func(ctx context.Context, req *entity.CSVImportRequest) (string, error) {
			return "", entity.ErrBackendRejected
		},
	}
	importer := NewImporter(questions, testValidator())
	file := csvFileHeader(t, "batch.csv", "title\nrow\n")

	if _, err := importer.Import(context.Background(), composeSession(), file); !errors.Is(err, entity.ErrBackendRejected) {
		t.Errorf("err = %v, want ErrBackendRejected", err)
	}
}
