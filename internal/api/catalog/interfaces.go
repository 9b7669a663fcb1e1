package catalog

import (
	"context"

	"github.com/prepdeck/qbank-admin/internal/entity"
	"github.com/prepdeck/qbank-admin/internal/usecase/catalog"
)

type CatalogUsecase interface {
	ListTopics(ctx context.Context) ([]entity.Topic, error)
	CreateTopic(ctx context.Context, req *entity.CreateTopicRequest) (*entity.Topic, error)
	ListTags(ctx context.Context) ([]entity.Tag, error)
	CreateTag(ctx context.Context, req *entity.CreateTagRequest) (*entity.Tag, error)
	ListTemplates(ctx context.Context, topicID string) ([]entity.InterviewTemplate, error)
	ListQuestions(ctx context.Context, topicID string) ([]entity.Question, error)
	ListTopicTags(ctx context.Context, topicID string) ([]entity.Tag, error)
	LinkTagToTopic(ctx context.Context, topicID, tagID string) error
	UnlinkTagFromTopic(ctx context.Context, topicID, tagID string) error
	ExportQuestionSheet(ctx context.Context, topicID string, format entity.ExportFormat) (*catalog.ExportFile, error)
}
