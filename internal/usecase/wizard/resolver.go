package wizard

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/prepdeck/qbank-admin/internal/entity"
	"github.com/prepdeck/qbank-admin/internal/pkg/validator"
	"go.uber.org/zap"
)

// Resolver materializes one dependency per wizard step: either an existing
// entity picked from a fresh listing, or a newly created one which is
// immediately selected. Draft fields are never cleared on failure; the
// caller keeps them for retry.
type Resolver struct {
	topics    TopicService
	tags      TagService
	templates TemplateService
	validator *validator.Validator
}

func NewResolver(
	topics TopicService,
	tags TagService,
	templates TemplateService,
	validator *validator.Validator,
) *Resolver {
	return &Resolver{
		topics:    topics,
		tags:      tags,
		templates: templates,
		validator: validator,
	}
}

func (r *Resolver) ListTopics(ctx context.Context) ([]entity.Topic, error) {
	return r.topics.ListTopics(ctx)
}

func (r *Resolver) ListTags(ctx context.Context) ([]entity.Tag, error) {
	return r.tags.ListTags(ctx)
}

func (r *Resolver) ListTemplates(ctx context.Context, topicID string) ([]entity.InterviewTemplate, error) {
	return r.templates.ListTemplates(ctx, topicID)
}

// ResolveTopic resolves the wizard's first dependency. "Create" wins over
// "select existing" when both are present.
func (r *Resolver) ResolveTopic(ctx context.Context, req *entity.SelectTopicRequest) (*entity.SelectedRef, error) {
	if req.Create != nil {
		if err := r.validator.ValidateCreateTopic(req.Create); err != nil {
			return nil, err
		}

		topic, err := r.topics.CreateTopic(ctx, req.Create)
		if err != nil {
			return nil, err
		}
		return &entity.SelectedRef{ID: topic.ID, Title: topic.Title}, nil
	}

	if req.TopicID == "" {
		return nil, fmt.Errorf("%w: topic_id", entity.ErrMissingField)
	}

	topics, err := r.topics.ListTopics(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range topics {
		if t.ID == req.TopicID {
			return &entity.SelectedRef{ID: t.ID, Title: t.Title}, nil
		}
	}

	ctxzap.Warn(ctx, "selected topic not in listing", zap.String("topic_id", req.TopicID))
	return nil, entity.ErrTopicNotFound
}

// ResolveTag resolves a single tag selection. Creating a tag never links it
// to the active topic; the association is a separate explicit step owned by
// the linker, because a tag may be reused across many topics.
func (r *Resolver) ResolveTag(ctx context.Context, req *entity.AddTagRequest) (*entity.SelectedRef, error) {
	if req.Create != nil {
		if err := r.validator.ValidateCreateTag(req.Create); err != nil {
			return nil, err
		}

		tag, err := r.tags.CreateTag(ctx, req.Create)
		if err != nil {
			return nil, err
		}
		return &entity.SelectedRef{ID: tag.ID, Title: tag.Title}, nil
	}

	if req.TagID == "" {
		return nil, fmt.Errorf("%w: tag_id", entity.ErrMissingField)
	}

	tags, err := r.tags.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range tags {
		if t.ID == req.TagID {
			return &entity.SelectedRef{ID: t.ID, Title: t.Title}, nil
		}
	}

	ctxzap.Warn(ctx, "selected tag not in listing", zap.String("tag_id", req.TagID))
	return nil, entity.ErrTagNotFound
}

// ResolveTemplate resolves the template dependency, scoped to the already
// resolved topic.
func (r *Resolver) ResolveTemplate(ctx context.Context, topicID string, req *entity.SelectTemplateRequest) (*entity.SelectedRef, error) {
	if req.Create != nil {
		createReq := &entity.CreateTemplateRequest{
			Title:       req.Create.Title,
			Description: req.Create.Description,
			TopicID:     topicID,
		}
		if err := r.validator.ValidateCreateTemplate(createReq); err != nil {
			return nil, err
		}

		template, err := r.templates.CreateTemplate(ctx, createReq)
		if err != nil {
			return nil, err
		}
		return &entity.SelectedRef{ID: template.ID, Title: template.Title}, nil
	}

	if req.TemplateID == "" {
		return nil, fmt.Errorf("%w: template_id", entity.ErrMissingField)
	}

	templates, err := r.templates.ListTemplates(ctx, topicID)
	if err != nil {
		return nil, err
	}
	for _, t := range templates {
		if t.ID == req.TemplateID {
			return &entity.SelectedRef{ID: t.ID, Title: t.Title}, nil
		}
	}

	ctxzap.Warn(ctx, "selected template not in listing", zap.String("template_id", req.TemplateID))
	return nil, entity.ErrTemplateNotFound
}
