package wizard

import (
	"context"

	"github.com/prepdeck/qbank-admin/internal/entity"
)

// Narrow capability interfaces per dependency kind, so each resolver step can
// be exercised against a fake in isolation. The qbank connector (and its
// mock) implement all of them.

type TopicService interface {
	ListTopics(ctx context.Context) ([]entity.Topic, error)
	CreateTopic(ctx context.Context, req *entity.CreateTopicRequest) (*entity.Topic, error)
	ListTopicTags(ctx context.Context, topicID string) ([]entity.Tag, error)
	LinkTagToTopic(ctx context.Context, topicID, tagID string) error
}

type TagService interface {
	ListTags(ctx context.Context) ([]entity.Tag, error)
	CreateTag(ctx context.Context, req *entity.CreateTagRequest) (*entity.Tag, error)
}

type TemplateService interface {
	ListTemplates(ctx context.Context, topicID string) ([]entity.InterviewTemplate, error)
	CreateTemplate(ctx context.Context, req *entity.CreateTemplateRequest) (*entity.InterviewTemplate, error)
}

type QuestionService interface {
	CreateQuestion(ctx context.Context, req *entity.CreateQuestionRequest) (*entity.Question, error)
	ImportCSV(ctx context.Context, req *entity.CSVImportRequest) (string, error)
}

// SessionStorage persists wizard sessions between requests. Implementations
// must return entity.ErrWizardNotFound for unknown or expired sessions.
type SessionStorage interface {
	Get(ctx context.Context, sessionID string) (*entity.WizardSession, error)
	Save(ctx context.Context, session *entity.WizardSession) error
	Delete(ctx context.Context, sessionID string) error
}
