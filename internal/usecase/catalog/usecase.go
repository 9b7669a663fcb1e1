package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/prepdeck/qbank-admin/internal/entity"
	"github.com/prepdeck/qbank-admin/internal/pkg/formatter"
	"github.com/prepdeck/qbank-admin/internal/pkg/validator"
	"go.uber.org/zap"
)

// Usecase backs the admin pages around the wizard: plain collection reads,
// standalone topic/tag creation, and the topic detail screen's tag manager
// where best-effort links from a finished wizard run can be retried.
type Usecase struct {
	backend   BackendService
	formats   *formatter.Factory
	validator *validator.Validator
	logger    *zap.Logger
}

func NewUsecase(backend BackendService, validator *validator.Validator, logger *zap.Logger) *Usecase {
	return &Usecase{
		backend:   backend,
		formats:   formatter.NewFactory(),
		validator: validator,
		logger:    logger,
	}
}

func (uc *Usecase) ListTopics(ctx context.Context) ([]entity.Topic, error) {
	return uc.backend.ListTopics(ctx)
}

func (uc *Usecase) CreateTopic(ctx context.Context, req *entity.CreateTopicRequest) (*entity.Topic, error) {
	if err := uc.validator.ValidateCreateTopic(req); err != nil {
		return nil, err
	}
	return uc.backend.CreateTopic(ctx, req)
}

func (uc *Usecase) ListTags(ctx context.Context) ([]entity.Tag, error) {
	return uc.backend.ListTags(ctx)
}

func (uc *Usecase) CreateTag(ctx context.Context, req *entity.CreateTagRequest) (*entity.Tag, error) {
	if err := uc.validator.ValidateCreateTag(req); err != nil {
		return nil, err
	}
	return uc.backend.CreateTag(ctx, req)
}

func (uc *Usecase) ListTemplates(ctx context.Context, topicID string) ([]entity.InterviewTemplate, error) {
	return uc.backend.ListTemplates(ctx, topicID)
}

func (uc *Usecase) ListQuestions(ctx context.Context, topicID string) ([]entity.Question, error) {
	return uc.backend.ListQuestions(ctx, topicID)
}

func (uc *Usecase) ListTopicTags(ctx context.Context, topicID string) ([]entity.Tag, error) {
	return uc.backend.ListTopicTags(ctx, topicID)
}

// LinkTagToTopic is the manual retry path for links a wizard run could not
// establish. The backend upserts the pair, so repeating it is safe.
func (uc *Usecase) LinkTagToTopic(ctx context.Context, topicID, tagID string) error {
	return uc.backend.LinkTagToTopic(ctx, topicID, tagID)
}

func (uc *Usecase) UnlinkTagFromTopic(ctx context.Context, topicID, tagID string) error {
	return uc.backend.UnlinkTagFromTopic(ctx, topicID, tagID)
}

// ExportFile is a rendered question sheet ready to be served as a download.
type ExportFile struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportQuestionSheet renders every question of a topic into a printable
// sheet in the requested format.
func (uc *Usecase) ExportQuestionSheet(ctx context.Context, topicID string, format entity.ExportFormat) (*ExportFile, error) {
	topics, err := uc.backend.ListTopics(ctx)
	if err != nil {
		return nil, err
	}

	var topic *entity.Topic
	for i := range topics {
		if topics[i].ID == topicID {
			topic = &topics[i]
			break
		}
	}
	if topic == nil {
		return nil, entity.ErrTopicNotFound
	}

	questions, err := uc.backend.ListQuestions(ctx, topicID)
	if err != nil {
		return nil, err
	}

	f, err := uc.formats.Create(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidParameter, err)
	}

	content, err := f.Format(topic.Title, buildSheetBody(questions))
	if err != nil {
		return nil, fmt.Errorf("render question sheet: %w", err)
	}

	ctxzap.Info(ctx, "question sheet exported",
		zap.String("topic_id", topicID),
		zap.String("format", string(format)),
		zap.Int("question_count", len(questions)),
	)

	return &ExportFile{
		Content:     content,
		ContentType: f.ContentType(),
		Filename:    sheetFilename(topic.Title) + f.FileExtension(),
	}, nil
}

func buildSheetBody(questions []entity.Question) string {
	if len(questions) == 0 {
		return "No questions yet."
	}

	var b strings.Builder
	for i, q := range questions {
		fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, q.Difficulty, q.Title)
		if q.Content != "" {
			fmt.Fprintf(&b, "%s\n", q.Content)
		}
		if q.SuitableAnswer1 != "" {
			fmt.Fprintf(&b, "Suggested answer: %s\n", q.SuitableAnswer1)
		}
		if q.SuitableAnswer2 != nil && *q.SuitableAnswer2 != "" {
			fmt.Fprintf(&b, "Alternative answer: %s\n", *q.SuitableAnswer2)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func sheetFilename(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '-'
		default:
			return -1
		}
	}, slug)
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "questions"
	}
	return slug + "-questions"
}
