package wizard

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/prepdeck/qbank-admin/internal/entity"
	"github.com/prepdeck/qbank-admin/internal/pkg/validator"
	"go.uber.org/zap"
)

// Usecase drives the four-step creation flow: topic, tags, template, then
// question content or CSV import. A step cannot be entered until its
// predecessor produced a valid selection, and a finished or canceled wizard
// leaves no state behind.
type Usecase struct {
	storage   SessionStorage
	resolver  *Resolver
	linker    *Linker
	importer  *Importer
	questions QuestionService
	validator *validator.Validator
	logger    *zap.Logger
}

func NewUsecase(
	storage SessionStorage,
	topics TopicService,
	tags TagService,
	templates TemplateService,
	questions QuestionService,
	validator *validator.Validator,
	logger *zap.Logger,
) *Usecase {
	return &Usecase{
		storage:   storage,
		resolver:  NewResolver(topics, tags, templates, validator),
		linker:    NewLinker(topics),
		importer:  NewImporter(questions, validator),
		questions: questions,
		validator: validator,
		logger:    logger,
	}
}

// Open starts a fresh wizard session with every selection at its zero value.
func (uc *Usecase) Open(ctx context.Context) (*entity.WizardSession, error) {
	now := time.Now()
	session := &entity.WizardSession{
		ID:        uuid.New().String(),
		Step:      entity.WizardStepTopic,
		Mode:      entity.ComposeModeManual,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.storage.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save wizard session: %w", err)
	}

	ctxzap.Info(ctx, "wizard session opened", zap.String("session_id", session.ID))
	return session, nil
}

func (uc *Usecase) Get(ctx context.Context, sessionID string) (*entity.WizardSession, error) {
	return uc.storage.Get(ctx, sessionID)
}

// Cancel discards the session unconditionally. Reopening after cancel always
// starts from defaults; nothing of the previous flow survives.
func (uc *Usecase) Cancel(ctx context.Context, sessionID string) error {
	if err := uc.storage.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete wizard session: %w", err)
	}

	ctxzap.Info(ctx, "wizard session canceled", zap.String("session_id", sessionID))
	return nil
}

// ListTopics returns the freshly fetched topic listing for step one.
func (uc *Usecase) ListTopics(ctx context.Context) ([]entity.Topic, error) {
	return uc.resolver.ListTopics(ctx)
}

// ListTags returns the global tag listing for step two.
func (uc *Usecase) ListTags(ctx context.Context) ([]entity.Tag, error) {
	return uc.resolver.ListTags(ctx)
}

// ListTemplates returns the non-deleted templates scoped to the session's topic.
func (uc *Usecase) ListTemplates(ctx context.Context, sessionID string) ([]entity.InterviewTemplate, error) {
	session, err := uc.storage.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	topicID := ""
	if session.Topic != nil {
		topicID = session.Topic.ID
	}
	return uc.resolver.ListTemplates(ctx, topicID)
}

// SelectTopic resolves step one. Changing the topic cascades: tags, template
// and draft of deeper steps are reset, because they were scoped to the
// previous topic. Re-selecting the same topic leaves them untouched.
func (uc *Usecase) SelectTopic(ctx context.Context, sessionID string, req *entity.SelectTopicRequest) (*entity.WizardSession, error) {
	session, err := uc.storage.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Step != entity.WizardStepTopic {
		return nil, fmt.Errorf("%w: expected %s, got %s", entity.ErrWrongStep, entity.WizardStepTopic, session.Step)
	}

	selected, err := uc.resolver.ResolveTopic(ctx, req)
	if err != nil {
		return nil, err
	}

	if session.Topic != nil && session.Topic.ID != selected.ID {
		ctxzap.Info(ctx, "topic changed, resetting dependent selections",
			zap.String("session_id", sessionID),
			zap.String("previous_topic_id", session.Topic.ID),
			zap.String("topic_id", selected.ID),
		)
		session.Tags = nil
		session.Template = nil
		session.Draft = entity.QuestionDraft{}
	}
	session.Topic = selected

	if err := uc.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// AddTag resolves one tag for step two and adds it to the selection.
// Selecting an already selected tag is a no-op.
func (uc *Usecase) AddTag(ctx context.Context, sessionID string, req *entity.AddTagRequest) (*entity.WizardSession, error) {
	session, err := uc.storage.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Step != entity.WizardStepTags {
		return nil, fmt.Errorf("%w: expected %s, got %s", entity.ErrWrongStep, entity.WizardStepTags, session.Step)
	}

	selected, err := uc.resolver.ResolveTag(ctx, req)
	if err != nil {
		return nil, err
	}

	if !session.HasTag(selected.ID) {
		session.Tags = append(session.Tags, *selected)
	}

	if err := uc.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (uc *Usecase) RemoveTag(ctx context.Context, sessionID, tagID string) (*entity.WizardSession, error) {
	session, err := uc.storage.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Step != entity.WizardStepTags {
		return nil, fmt.Errorf("%w: expected %s, got %s", entity.ErrWrongStep, entity.WizardStepTags, session.Step)
	}

	tags := session.Tags[:0]
	for _, t := range session.Tags {
		if t.ID != tagID {
			tags = append(tags, t)
		}
	}
	session.Tags = tags

	if err := uc.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SelectTemplate resolves step three, scoped to the session's topic.
func (uc *Usecase) SelectTemplate(ctx context.Context, sessionID string, req *entity.SelectTemplateRequest) (*entity.WizardSession, error) {
	session, err := uc.storage.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Step != entity.WizardStepTemplate {
		return nil, fmt.Errorf("%w: expected %s, got %s", entity.ErrWrongStep, entity.WizardStepTemplate, session.Step)
	}
	if session.Topic == nil {
		return nil, fmt.Errorf("%w: topic", entity.ErrStepIncomplete)
	}

	selected, err := uc.resolver.ResolveTemplate(ctx, session.Topic.ID, req)
	if err != nil {
		return nil, err
	}
	session.Template = selected

	if err := uc.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Next advances the wizard one step. The transition is refused, with no
// state change, while the current step's required selection is missing.
func (uc *Usecase) Next(ctx context.Context, sessionID string) (*entity.WizardSession, error) {
	session, err := uc.storage.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var next entity.WizardStep
	switch session.Step {
	case entity.WizardStepTopic:
		next = entity.WizardStepTags
	case entity.WizardStepTags:
		next = entity.WizardStepTemplate
	case entity.WizardStepTemplate:
		next = entity.WizardStepCompose
	case entity.WizardStepCompose:
		return nil, fmt.Errorf("%w: submit or import to finish", entity.ErrWrongStep)
	default:
		return nil, entity.ErrWizardFinished
	}

	if !session.StepComplete(session.Step) {
		return nil, fmt.Errorf("%w: %s", entity.ErrStepIncomplete, session.Step)
	}

	session.Step = next
	if err := uc.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Back moves one step backward without clearing the step being left, so the
// selections are still there if the admin returns forward again.
func (uc *Usecase) Back(ctx context.Context, sessionID string) (*entity.WizardSession, error) {
	session, err := uc.storage.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch session.Step {
	case entity.WizardStepTopic:
		return nil, entity.ErrAlreadyAtStart
	case entity.WizardStepTags:
		session.Step = entity.WizardStepTopic
	case entity.WizardStepTemplate:
		session.Step = entity.WizardStepTags
	case entity.WizardStepCompose:
		session.Step = entity.WizardStepTemplate
	default:
		return nil, entity.ErrWizardFinished
	}

	if err := uc.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SetMode switches the terminal step between manual composition and CSV import.
func (uc *Usecase) SetMode(ctx context.Context, sessionID string, mode entity.ComposeMode) (*entity.WizardSession, error) {
	session, err := uc.storage.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Step != entity.WizardStepCompose {
		return nil, fmt.Errorf("%w: expected %s, got %s", entity.ErrWrongStep, entity.WizardStepCompose, session.Step)
	}
	if err := mode.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidParameter, err)
	}

	session.Mode = mode
	if err := uc.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// UpdateDraft stores the manual-path form fields. The draft is not validated
// here: partial drafts are legal until submit.
func (uc *Usecase) UpdateDraft(ctx context.Context, sessionID string, draft *entity.QuestionDraft) (*entity.WizardSession, error) {
	session, err := uc.storage.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Step != entity.WizardStepCompose {
		return nil, fmt.Errorf("%w: expected %s, got %s", entity.ErrWrongStep, entity.WizardStepCompose, session.Step)
	}

	session.Draft = *draft
	if err := uc.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SubmitManual creates the question from the session's draft, then links
// every selected tag to the topic. On success the session is gone; on
// failure it returns to the compose step with the draft intact.
func (uc *Usecase) SubmitManual(ctx context.Context, sessionID string) (*entity.SubmitResult, error) {
	session, err := uc.storage.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Step != entity.WizardStepCompose {
		return nil, fmt.Errorf("%w: expected %s, got %s", entity.ErrWrongStep, entity.WizardStepCompose, session.Step)
	}
	if session.Mode != entity.ComposeModeManual {
		return nil, fmt.Errorf("%w: compose mode is %s", entity.ErrWrongStep, session.Mode)
	}

	if err := uc.validator.ValidateQuestionDraft(&session.Draft); err != nil {
		return nil, err
	}

	if err := uc.beginSubmit(ctx, session); err != nil {
		return nil, err
	}

	question, err := uc.questions.CreateQuestion(ctx, &entity.CreateQuestionRequest{
		Title:           session.Draft.Title,
		Content:         session.Draft.Content,
		Difficulty:      session.Draft.Difficulty,
		SuitableAnswer1: session.Draft.SuitableAnswer1,
		SuitableAnswer2: session.Draft.SuitableAnswer2,
		TagIDs:          session.TagIDs(),
		TopicID:         session.Topic.ID,
		TemplateID:      session.Template.ID,
	})
	if err != nil {
		uc.failSubmit(ctx, session, err)
		return nil, err
	}

	warnings := uc.linker.LinkTagsToTopic(ctx, session.Topic.ID, session.TagIDs())

	uc.finishSubmit(ctx, session)
	ctxzap.Info(ctx, "wizard completed",
		zap.String("session_id", session.ID),
		zap.String("question_id", question.ID),
		zap.Int("link_warnings", len(warnings)),
	)

	return &entity.SubmitResult{Question: question, Warnings: warnings}, nil
}

// ImportCSV runs the bulk terminal path. Invoking it switches the session to
// CSV mode, mirroring the compose tab the admin is on.
func (uc *Usecase) ImportCSV(ctx context.Context, sessionID string, file *multipart.FileHeader) (*entity.ImportResult, error) {
	session, err := uc.storage.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Step != entity.WizardStepCompose {
		return nil, fmt.Errorf("%w: expected %s, got %s", entity.ErrWrongStep, entity.WizardStepCompose, session.Step)
	}
	session.Mode = entity.ComposeModeCSV

	if err := uc.importer.checkPreconditions(session, file); err != nil {
		return nil, err
	}

	if err := uc.beginSubmit(ctx, session); err != nil {
		return nil, err
	}

	message, err := uc.importer.Import(ctx, session, file)
	if err != nil {
		uc.failSubmit(ctx, session, err)
		return nil, err
	}

	// Imported questions carry the same resolved tags, so the tag-to-topic
	// links are reconciled on this path as well.
	warnings := uc.linker.LinkTagsToTopic(ctx, session.Topic.ID, session.TagIDs())

	uc.finishSubmit(ctx, session)
	ctxzap.Info(ctx, "wizard completed via CSV import",
		zap.String("session_id", session.ID),
		zap.Int("link_warnings", len(warnings)),
	)

	return &entity.ImportResult{Message: message, Warnings: warnings}, nil
}

func (uc *Usecase) beginSubmit(ctx context.Context, session *entity.WizardSession) error {
	session.Step = entity.WizardStepSubmitting
	session.LastError = nil
	return uc.save(ctx, session)
}

// failSubmit returns the session to the compose step with the error
// recorded and all selections and draft fields preserved for retry.
func (uc *Usecase) failSubmit(ctx context.Context, session *entity.WizardSession, cause error) {
	session.Step = entity.WizardStepCompose
	msg := cause.Error()
	session.LastError = &msg

	if err := uc.save(ctx, session); err != nil {
		ctxzap.Error(ctx, "failed to restore session after submit failure",
			zap.Error(err), zap.String("session_id", session.ID))
	}
}

// finishSubmit deletes the session record: completion and close are the same
// reset, so a reopened wizard can never leak prior state.
func (uc *Usecase) finishSubmit(ctx context.Context, session *entity.WizardSession) {
	if err := uc.storage.Delete(ctx, session.ID); err != nil {
		ctxzap.Warn(ctx, "failed to delete completed session",
			zap.Error(err), zap.String("session_id", session.ID))
	}
}

func (uc *Usecase) save(ctx context.Context, session *entity.WizardSession) error {
	session.UpdatedAt = time.Now()
	if err := uc.storage.Save(ctx, session); err != nil {
		return fmt.Errorf("save wizard session: %w", err)
	}
	return nil
}
