package catalog

import (
	"context"

	"github.com/prepdeck/qbank-admin/internal/entity"
)

// BackendService is the slice of the question-bank backend the catalog
// screens need: collection reads, standalone creates and the tag manager.
type BackendService interface {
	ListTopics(ctx context.Context) ([]entity.Topic, error)
	CreateTopic(ctx context.Context, req *entity.CreateTopicRequest) (*entity.Topic, error)
	ListTopicTags(ctx context.Context, topicID string) ([]entity.Tag, error)
	LinkTagToTopic(ctx context.Context, topicID, tagID string) error
	UnlinkTagFromTopic(ctx context.Context, topicID, tagID string) error
	ListTags(ctx context.Context) ([]entity.Tag, error)
	CreateTag(ctx context.Context, req *entity.CreateTagRequest) (*entity.Tag, error)
	ListTemplates(ctx context.Context, topicID string) ([]entity.InterviewTemplate, error)
	ListQuestions(ctx context.Context, topicID string) ([]entity.Question, error)
}
