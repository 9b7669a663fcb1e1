package wizard

import (
	"context"
	"errors"
	"testing"

	"github.com/prepdeck/qbank-admin/internal/entity"
)

// fakeTopics lets each test script the topic service's behavior per call.
type fakeTopics struct {
	listTopicTagsFn  func(ctx context.Context, topicID string) ([]entity.Tag, error)
	linkTagToTopicFn func(ctx context.Context, topicID, tagID string) error
	linkedPairs      [][2]string
}

func (f *fakeTopics) ListTopics(ctx context.Context) ([]entity.Topic, error) {
	return nil, nil
}

func (f *fakeTopics) CreateTopic(ctx context.Context, req *entity.CreateTopicRequest) (*entity.Topic, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeTopics) ListTopicTags(ctx context.Context, topicID string) ([]entity.Tag, error) {
	return f.listTopicTagsFn(ctx, topicID)
}

func (f *fakeTopics) LinkTagToTopic(ctx context.Context, topicID, tagID string) error {
	f.linkedPairs = append(f.linkedPairs, [2]string{topicID, tagID})
	if f.linkTagToTopicFn != nil {
		return f.linkTagToTopicFn(ctx, topicID, tagID)
	}
	return nil
}

func TestLinkerSkipsAlreadyLinkedTags(t *testing.T) {
	topics := &fakeTopics{
		listTopicTagsFn: func(ctx context.Context, topicID string) ([]entity.Tag, error) {
			return []entity.Tag{{ID: "tag-1"}}, nil
		},
	}
	linker := NewLinker(topics)

	warnings := linker.LinkTagsToTopic(context.Background(), "topic-1", []string{"tag-1", "tag-2"})

	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	if len(topics.linkedPairs) != 1 {
		t.Fatalf("link calls = %d, want 1 (existing pair must be skipped)", len(topics.linkedPairs))
	}
	if topics.linkedPairs[0] != [2]string{"topic-1", "tag-2"} {
		t.Errorf("linked pair = %v, want [topic-1 tag-2]", topics.linkedPairs[0])
	}
}

func TestLinkerIsIdempotentAcrossRuns(t *testing.T) {
	linked := map[string]bool{}
	topics := &fakeTopics{
		listTopicTagsFn: func(ctx context.Context, topicID string) ([]entity.Tag, error) {
			tags := make([]entity.Tag, 0, len(linked))
			for id := range linked {
				tags = append(tags, entity.Tag{ID: id})
			}
			return tags, nil
		},
		linkTagToTopicFn: func(ctx context.Context, topicID, tagID string) error {
			linked[tagID] = true
			return nil
		},
	}
	linker := NewLinker(topics)
	ctx := context.Background()

	linker.LinkTagsToTopic(ctx, "topic-1", []string{"tag-1", "tag-2"})
	linker.LinkTagsToTopic(ctx, "topic-1", []string{"tag-1", "tag-2"})

	if len(topics.linkedPairs) != 2 {
		t.Errorf("link calls = %d, want 2 (second run must issue nothing)", len(topics.linkedPairs))
	}
}

func TestLinkerCollectsWarningsWithoutAborting(t *testing.T) {
	topics := &fakeTopics{
		listTopicTagsFn: func(ctx context.Context, topicID string) ([]entity.Tag, error) {
			return nil, nil
		},
		linkTagToTopicFn: func(ctx context.Context, topicID, tagID string) error {
			if tagID == "tag-2" {
				return errors.New("backend unavailable")
			}
			return nil
		},
	}
	linker := NewLinker(topics)

	warnings := linker.LinkTagsToTopic(context.Background(), "topic-1", []string{"tag-1", "tag-2", "tag-3"})

	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", warnings)
	}
	if warnings[0].TagID != "tag-2" || warnings[0].TopicID != "topic-1" {
		t.Errorf("warning = %+v, want topic-1/tag-2", warnings[0])
	}
	// tag-3 must still be attempted after tag-2 failed.
	if len(topics.linkedPairs) != 3 {
		t.Errorf("link calls = %d, want 3", len(topics.linkedPairs))
	}
}

func TestLinkerLinksAllWhenExistingReadFails(t *testing.T) {
	topics := &fakeTopics{
		listTopicTagsFn: func(ctx context.Context, topicID string) ([]entity.Tag, error) {
			return nil, errors.New("timeout")
		},
	}
	linker := NewLinker(topics)

	warnings := linker.LinkTagsToTopic(context.Background(), "topic-1", []string{"tag-1", "tag-2"})

	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none (the link upsert still succeeded)", warnings)
	}
	if len(topics.linkedPairs) != 2 {
		t.Errorf("link calls = %d, want 2 (all links attempted when read fails)", len(topics.linkedPairs))
	}
}
