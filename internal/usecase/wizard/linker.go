package wizard

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/prepdeck/qbank-admin/internal/entity"
	"go.uber.org/zap"
)

// Linker reconciles tag-to-topic associations after a question is created.
// Links are established sequentially and best-effort: a failed link never
// rolls back the created question, it only produces a warning the admin can
// act on through the topic's tag manager.
type Linker struct {
	topics TopicService
}

func NewLinker(topics TopicService) *Linker {
	return &Linker{topics: topics}
}

// LinkTagsToTopic links every tag id to the topic unless the pair already
// exists. The existing-links read makes the operation idempotent under
// retry: re-running after a partial failure re-issues only the missing
// pairs. When the read itself fails, every link is attempted; the backend
// treats the call as an upsert, so duplicates are harmless.
func (l *Linker) LinkTagsToTopic(ctx context.Context, topicID string, tagIDs []string) []entity.LinkWarning {
	linked := make(map[string]bool)

	existing, err := l.topics.ListTopicTags(ctx, topicID)
	if err != nil {
		ctxzap.Warn(ctx, "could not read existing topic tags, linking all",
			zap.Error(err), zap.String("topic_id", topicID))
	} else {
		for _, tag := range existing {
			linked[tag.ID] = true
		}
	}

	var warnings []entity.LinkWarning
	for _, tagID := range tagIDs {
		if linked[tagID] {
			continue
		}

		if err := l.topics.LinkTagToTopic(ctx, topicID, tagID); err != nil {
			ctxzap.Warn(ctx, "failed to link tag to topic",
				zap.Error(err), zap.String("topic_id", topicID), zap.String("tag_id", tagID))
			warnings = append(warnings, entity.LinkWarning{
				TopicID: topicID,
				TagID:   tagID,
				Message: err.Error(),
			})
		}
	}

	return warnings
}
