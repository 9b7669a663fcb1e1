package wizard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prepdeck/qbank-admin/internal/config"
	"github.com/prepdeck/qbank-admin/internal/entity"
	"github.com/prepdeck/qbank-admin/internal/integration/qbank"
	"github.com/prepdeck/qbank-admin/internal/pkg/validator"
	"github.com/prepdeck/qbank-admin/internal/repository"
	"go.uber.org/zap"
)

func testValidator() *validator.Validator {
	return validator.NewValidator(config.FileUploadConfig{
		MaxCSVFileSize: 1 << 20,
		MaxUploadSize:  32 << 20,
	})
}

func newTestUsecase(t *testing.T) (*Usecase, *qbank.MockConnector) {
	t.Helper()
	backend := qbank.NewMockConnector(zap.NewNop())
	storage := repository.NewWizardMemoryRepository(time.Hour)
	return NewUsecase(storage, backend, backend, backend, backend, testValidator(), zap.NewNop()), backend
}

// seedBackend creates one topic, one tag and one template and returns their ids.
func seedBackend(t *testing.T, backend *qbank.MockConnector) (topicID, tagID, templateID string) {
	t.Helper()
	ctx := context.Background()

	topic, err := backend.CreateTopic(ctx, &entity.CreateTopicRequest{Title: "Go", Description: "Go language"})
	if err != nil {
		t.Fatalf("seed topic: %v", err)
	}
	tag, err := backend.CreateTag(ctx, &entity.CreateTagRequest{Title: "concurrency", Description: "goroutines and channels"})
	if err != nil {
		t.Fatalf("seed tag: %v", err)
	}
	template, err := backend.CreateTemplate(ctx, &entity.CreateTemplateRequest{
		Title: "Screening", Description: "First round", TopicID: topic.ID,
	})
	if err != nil {
		t.Fatalf("seed template: %v", err)
	}
	return topic.ID, tag.ID, template.ID
}

// advanceToCompose walks a fresh session through all three selection steps.
func advanceToCompose(t *testing.T, uc *Usecase, topicID, tagID, templateID string) *entity.WizardSession {
	t.Helper()
	ctx := context.Background()

	session, err := uc.Open(ctx)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if _, err := uc.SelectTopic(ctx, session.ID, &entity.SelectTopicRequest{TopicID: topicID}); err != nil {
		t.Fatalf("select topic: %v", err)
	}
	if _, err := uc.Next(ctx, session.ID); err != nil {
		t.Fatalf("next to tags: %v", err)
	}
	if _, err := uc.AddTag(ctx, session.ID, &entity.AddTagRequest{TagID: tagID}); err != nil {
		t.Fatalf("add tag: %v", err)
	}
	if _, err := uc.Next(ctx, session.ID); err != nil {
		t.Fatalf("next to template: %v", err)
	}
	if _, err := uc.SelectTemplate(ctx, session.ID, &entity.SelectTemplateRequest{TemplateID: templateID}); err != nil {
		t.Fatalf("select template: %v", err)
	}
	result, err := uc.Next(ctx, session.ID)
	if err != nil {
		t.Fatalf("next to compose: %v", err)
	}
	return result
}

func TestOpenStartsAtTopicStep(t *testing.T) {
	uc, _ := newTestUsecase(t)

	session, err := uc.Open(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if session.Step != entity.WizardStepTopic {
		t.Errorf("step = %s, want %s", session.Step, entity.WizardStepTopic)
	}
	if session.Mode != entity.ComposeModeManual {
		t.Errorf("mode = %s, want %s", session.Mode, entity.ComposeModeManual)
	}
	if session.ID == "" {
		t.Error("session id is empty")
	}
}

func TestNextRefusedUntilStepComplete(t *testing.T) {
	uc, backend := newTestUsecase(t)
	topicID, tagID, templateID := seedBackend(t, backend)
	ctx := context.Background()

	session, err := uc.Open(ctx)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	// No topic selected yet.
	if _, err := uc.Next(ctx, session.ID); !errors.Is(err, entity.ErrStepIncomplete) {
		t.Errorf("next without topic: err = %v, want ErrStepIncomplete", err)
	}

	if _, err := uc.SelectTopic(ctx, session.ID, &entity.SelectTopicRequest{TopicID: topicID}); err != nil {
		t.Fatalf("select topic: %v", err)
	}
	if _, err := uc.Next(ctx, session.ID); err != nil {
		t.Fatalf("next to tags: %v", err)
	}

	// No tags selected yet.
	if _, err := uc.Next(ctx, session.ID); !errors.Is(err, entity.ErrStepIncomplete) {
		t.Errorf("next without tags: err = %v, want ErrStepIncomplete", err)
	}

	if _, err := uc.AddTag(ctx, session.ID, &entity.AddTagRequest{TagID: tagID}); err != nil {
		t.Fatalf("add tag: %v", err)
	}
	if _, err := uc.Next(ctx, session.ID); err != nil {
		t.Fatalf("next to template: %v", err)
	}

	// No template selected yet.
	if _, err := uc.Next(ctx, session.ID); !errors.Is(err, entity.ErrStepIncomplete) {
		t.Errorf("next without template: err = %v, want ErrStepIncomplete", err)
	}

	if _, err := uc.SelectTemplate(ctx, session.ID, &entity.SelectTemplateRequest{TemplateID: templateID}); err != nil {
		t.Fatalf("select template: %v", err)
	}
	result, err := uc.Next(ctx, session.ID)
	if err != nil {
		t.Fatalf("next to compose: %v", err)
	}
	if result.Step != entity.WizardStepCompose {
		t.Errorf("step = %s, want %s", result.Step, entity.WizardStepCompose)
	}

	// Compose is the last step; it finishes by submit or import.
	if _, err := uc.Next(ctx, session.ID); !errors.Is(err, entity.ErrWrongStep) {
		t.Errorf("next past compose: err = %v, want ErrWrongStep", err)
	}
}

func TestSelectTopicRefusedOutsideTopicStep(t *testing.T) {
	uc, backend := newTestUsecase(t)
	topicID, _, _ := seedBackend(t, backend)
	ctx := context.Background()

	session, _ := uc.Open(ctx)
	if _, err := uc.SelectTopic(ctx, session.ID, &entity.SelectTopicRequest{TopicID: topicID}); err != nil {
		t.Fatalf("select topic: %v", err)
	}
	if _, err := uc.Next(ctx, session.ID); err != nil {
		t.Fatalf("next: %v", err)
	}

	if _, err := uc.SelectTopic(ctx, session.ID, &entity.SelectTopicRequest{TopicID: topicID}); !errors.Is(err, entity.ErrWrongStep) {
		t.Errorf("select topic at tags step: err = %v, want ErrWrongStep", err)
	}
}

func TestBackStopsAtTopicStep(t *testing.T) {
	uc, _ := newTestUsecase(t)
	ctx := context.Background()

	session, _ := uc.Open(ctx)
	if _, err := uc.Back(ctx, session.ID); !errors.Is(err, entity.ErrAlreadyAtStart) {
		t.Errorf("back at first step: err = %v, want ErrAlreadyAtStart", err)
	}
}

func TestTopicChangeResetsDependentSelections(t *testing.T) {
	uc, backend := newTestUsecase(t)
	topicID, tagID, templateID := seedBackend(t, backend)
	ctx := context.Background()

	other, err := backend.CreateTopic(ctx, &entity.CreateTopicRequest{Title: "SQL", Description: "Databases"})
	if err != nil {
		t.Fatalf("seed second topic: %v", err)
	}

	session := advanceToCompose(t, uc, topicID, tagID, templateID)

	// Walk back to the first step. Selections survive backward navigation.
	for i := 0; i < 3; i++ {
		if session, err = uc.Back(ctx, session.ID); err != nil {
			t.Fatalf("back: %v", err)
		}
	}
	if len(session.Tags) != 1 || session.Template == nil {
		t.Fatal("selections were lost on backward navigation")
	}

	// Re-selecting the same topic keeps everything.
	session, err = uc.SelectTopic(ctx, session.ID, &entity.SelectTopicRequest{TopicID: topicID})
	if err != nil {
		t.Fatalf("reselect same topic: %v", err)
	}
	if len(session.Tags) != 1 || session.Template == nil {
		t.Error("re-selecting the same topic must not reset selections")
	}

	// A different topic invalidates everything scoped to the old one.
	session, err = uc.SelectTopic(ctx, session.ID, &entity.SelectTopicRequest{TopicID: other.ID})
	if err != nil {
		t.Fatalf("select other topic: %v", err)
	}
	if len(session.Tags) != 0 {
		t.Errorf("tags not reset after topic change: %v", session.Tags)
	}
	if session.Template != nil {
		t.Errorf("template not reset after topic change: %v", session.Template)
	}
	if session.Draft.Title != "" {
		t.Errorf("draft not reset after topic change: %q", session.Draft.Title)
	}
}

func TestAddTagIsIdempotent(t *testing.T) {
	uc, backend := newTestUsecase(t)
	topicID, tagID, _ := seedBackend(t, backend)
	ctx := context.Background()

	session, _ := uc.Open(ctx)
	if _, err := uc.SelectTopic(ctx, session.ID, &entity.SelectTopicRequest{TopicID: topicID}); err != nil {
		t.Fatalf("select topic: %v", err)
	}
	if _, err := uc.Next(ctx, session.ID); err != nil {
		t.Fatalf("next: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := uc.AddTag(ctx, session.ID, &entity.AddTagRequest{TagID: tagID}); err != nil {
			t.Fatalf("add tag: %v", err)
		}
	}

	result, err := uc.Get(ctx, session.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(result.Tags) != 1 {
		t.Errorf("tag count = %d, want 1 (duplicate select must be a no-op)", len(result.Tags))
	}
}

func TestCancelDiscardsAllState(t *testing.T) {
	uc, backend := newTestUsecase(t)
	topicID, tagID, templateID := seedBackend(t, backend)
	ctx := context.Background()

	session := advanceToCompose(t, uc, topicID, tagID, templateID)

	if err := uc.Cancel(ctx, session.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if _, err := uc.Get(ctx, session.ID); !errors.Is(err, entity.ErrWizardNotFound) {
		t.Errorf("get after cancel: err = %v, want ErrWizardNotFound", err)
	}

	// A new session starts from defaults, nothing of the old flow survives.
	fresh, err := uc.Open(ctx)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if fresh.Topic != nil || len(fresh.Tags) != 0 || fresh.Template != nil {
		t.Error("reopened session carries state from the canceled one")
	}
}

func TestManualSubmitEndToEnd(t *testing.T) {
	uc, backend := newTestUsecase(t)
	topicID, tagID, templateID := seedBackend(t, backend)
	ctx := context.Background()

	session := advanceToCompose(t, uc, topicID, tagID, templateID)

	draft := entity.QuestionDraft{
		Title:           "Explain goroutine scheduling",
		Content:         "How does the Go runtime schedule goroutines onto OS threads?",
		Difficulty:      entity.DifficultyMedium,
		SuitableAnswer1: "GMP model, work stealing",
	}
	if _, err := uc.UpdateDraft(ctx, session.ID, &draft); err != nil {
		t.Fatalf("update draft: %v", err)
	}

	result, err := uc.SubmitManual(ctx, session.ID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Question == nil || result.Question.ID == "" {
		t.Fatal("submit returned no question")
	}
	if result.Question.TopicID != topicID {
		t.Errorf("question topic = %s, want %s", result.Question.TopicID, topicID)
	}
	if result.Question.TemplateID != templateID {
		t.Errorf("question template = %s, want %s", result.Question.TemplateID, templateID)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected link warnings: %v", result.Warnings)
	}

	// Completion deletes the session, same as cancel.
	if _, err := uc.Get(ctx, session.ID); !errors.Is(err, entity.ErrWizardNotFound) {
		t.Errorf("get after submit: err = %v, want ErrWizardNotFound", err)
	}

	// The selected tag ended up linked to the topic.
	links := backend.TopicTagLinks(topicID)
	if len(links) != 1 || links[0] != tagID {
		t.Errorf("topic tag links = %v, want [%s]", links, tagID)
	}
}

func TestSubmitValidatesDraftBeforeBackendCall(t *testing.T) {
	uc, backend := newTestUsecase(t)
	topicID, tagID, templateID := seedBackend(t, backend)
	ctx := context.Background()

	session := advanceToCompose(t, uc, topicID, tagID, templateID)

	if _, err := uc.SubmitManual(ctx, session.ID); !errors.Is(err, entity.ErrMissingField) {
		t.Errorf("submit with empty draft: err = %v, want ErrMissingField", err)
	}

	// Nothing was created and the session is still at compose.
	questions, _ := backend.ListQuestions(ctx, topicID)
	if len(questions) != 0 {
		t.Errorf("question count = %d, want 0", len(questions))
	}
	current, err := uc.Get(ctx, session.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if current.Step != entity.WizardStepCompose {
		t.Errorf("step = %s, want %s", current.Step, entity.WizardStepCompose)
	}
}

type failingQuestions struct {
	createErr error
}

func (f *failingQuestions) CreateQuestion(ctx context.Context, req *entity.CreateQuestionRequest) (*entity.Question, error) {
	return nil, f.createErr
}

func (f *failingQuestions) ImportCSV(ctx context.Context, req *entity.CSVImportRequest) (string, error) {
	return "", f.createErr
}

func TestSubmitFailureRestoresComposeWithDraftIntact(t *testing.T) {
	backend := qbank.NewMockConnector(zap.NewNop())
	storage := repository.NewWizardMemoryRepository(time.Hour)
	questions := &failingQuestions{createErr: entity.ErrBackendRejected}
	uc := NewUsecase(storage, backend, backend, backend, questions, testValidator(), zap.NewNop())

	topicID, tagID, templateID := seedBackend(t, backend)
	ctx := context.Background()

	session := advanceToCompose(t, uc, topicID, tagID, templateID)

	draft := entity.QuestionDraft{
		Title:           "Explain interfaces",
		Content:         "What is an interface value made of?",
		Difficulty:      entity.DifficultyEasy,
		SuitableAnswer1: "Type descriptor and data pointer",
	}
	if _, err := uc.UpdateDraft(ctx, session.ID, &draft); err != nil {
		t.Fatalf("update draft: %v", err)
	}

	if _, err := uc.SubmitManual(ctx, session.ID); !errors.Is(err, entity.ErrBackendRejected) {
		t.Fatalf("submit: err = %v, want ErrBackendRejected", err)
	}

	current, err := uc.Get(ctx, session.ID)
	if err != nil {
		t.Fatalf("get after failed submit: %v", err)
	}
	if current.Step != entity.WizardStepCompose {
		t.Errorf("step = %s, want %s", current.Step, entity.WizardStepCompose)
	}
	if current.Draft.Title != draft.Title {
		t.Errorf("draft title = %q, want %q (draft must survive failed submit)", current.Draft.Title, draft.Title)
	}
	if current.LastError == nil {
		t.Error("last error not recorded on failed submit")
	}
}

func TestImportCSVEndToEnd(t *testing.T) {
	uc, backend := newTestUsecase(t)
	topicID, tagID, templateID := seedBackend(t, backend)
	ctx := context.Background()

	session := advanceToCompose(t, uc, topicID, tagID, templateID)

	file := csvFileHeader(t, "batch.csv", "title,content\nWhat is a slice?,internals\nWhat is a map?,internals\n")
	result, err := uc.ImportCSV(ctx, session.ID, file)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Message == "" {
		t.Error("import returned empty message")
	}

	questions, _ := backend.ListQuestions(ctx, topicID)
	if len(questions) != 2 {
		t.Errorf("question count = %d, want 2", len(questions))
	}

	// Import links tags exactly like the manual path.
	links := backend.TopicTagLinks(topicID)
	if len(links) != 1 || links[0] != tagID {
		t.Errorf("topic tag links = %v, want [%s]", links, tagID)
	}

	// Session gone after the terminal step.
	if _, err := uc.Get(ctx, session.ID); !errors.Is(err, entity.ErrWizardNotFound) {
		t.Errorf("get after import: err = %v, want ErrWizardNotFound", err)
	}
}

func TestGetUnknownSession(t *testing.T) {
	uc, _ := newTestUsecase(t)

	if _, err := uc.Get(context.Background(), "b6d7c3de-0000-0000-0000-000000000000"); !errors.Is(err, entity.ErrWizardNotFound) {
		t.Errorf("err = %v, want ErrWizardNotFound", err)
	}
}
