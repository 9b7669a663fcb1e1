package qbank

import (
	"context"
	"mime/multipart"

	"github.com/prepdeck/qbank-admin/internal/entity"
)

// Service is the full question-bank backend surface. Both the real connector
// and the mock implement it; the builder picks one for all use cases.
type Service interface {
	ListTopics(ctx context.Context) ([]entity.Topic, error)
	CreateTopic(ctx context.Context, req *entity.CreateTopicRequest) (*entity.Topic, error)
	ListTopicTags(ctx context.Context, topicID string) ([]entity.Tag, error)
	LinkTagToTopic(ctx context.Context, topicID, tagID string) error
	UnlinkTagFromTopic(ctx context.Context, topicID, tagID string) error

	ListTags(ctx context.Context) ([]entity.Tag, error)
	CreateTag(ctx context.Context, req *entity.CreateTagRequest) (*entity.Tag, error)

	ListTemplates(ctx context.Context, topicID string) ([]entity.InterviewTemplate, error)
	CreateTemplate(ctx context.Context, req *entity.CreateTemplateRequest) (*entity.InterviewTemplate, error)

	ListQuestions(ctx context.Context, topicID string) ([]entity.Question, error)
	CreateQuestion(ctx context.Context, req *entity.CreateQuestionRequest) (*entity.Question, error)
	ImportCSV(ctx context.Context, req *entity.CSVImportRequest) (string, error)
}

var (
	_ Service = (*Connector)(nil)
	_ Service = (*MockConnector)(nil)
)
