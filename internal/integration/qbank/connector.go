package qbank

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/prepdeck/qbank-admin/internal/config"
	"github.com/prepdeck/qbank-admin/internal/entity"
	"github.com/prepdeck/qbank-admin/internal/integration/common"
	pkgRetry "github.com/prepdeck/qbank-admin/internal/pkg/retry"
	pkghttp "github.com/prepdeck/qbank-admin/pkg/http"
	"go.uber.org/zap"
)

// Connector is the typed client for the question-bank backend. Idempotent
// calls (reads and link upserts) are retried with backoff; creates and the
// CSV import are issued exactly once.
type Connector struct {
	config    config.BackendConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.BackendConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// getList fetches an endpoint with retry and decodes the normalized payload.
func (c *Connector) getList(ctx context.Context, endpoint string, out any) error {
	var raw json.RawMessage
	err := pkgRetry.Do(ctx, &c.config.Retry, func() error {
		raw = nil
		return c.connector.DoRequest(ctx, http.MethodGet, endpoint, nil, &raw)
	})
	if err != nil {
		return err
	}
	return decodeInto(raw, out)
}

// ListTopics fetches all topics.
// GET {topic_endpoint}
func (c *Connector) ListTopics(ctx context.Context) ([]entity.Topic, error) {
	var topics []entity.Topic
	if err := c.getList(ctx, c.config.TopicEndpoint, &topics); err != nil {
		ctxzap.Error(ctx, "failed to list topics", zap.Error(err))
		return nil, fmt.Errorf("list topics: %w", err)
	}
	return topics, nil
}

// CreateTopic creates a topic.
// POST {topic_endpoint}
func (c *Connector) CreateTopic(ctx context.Context, req *entity.CreateTopicRequest) (*entity.Topic, error) {
	var raw json.RawMessage
	if err := c.connector.DoRequest(ctx, http.MethodPost, c.config.TopicEndpoint, req, &raw); err != nil {
		ctxzap.Error(ctx, "failed to create topic", zap.Error(err))
		return nil, fmt.Errorf("create topic: %w", err)
	}

	var topic entity.Topic
	if err := decodeInto(raw, &topic); err != nil {
		return nil, fmt.Errorf("create topic: %w", err)
	}

	ctxzap.Info(ctx, "topic created", zap.String("topic_id", topic.ID))
	return &topic, nil
}

// ListTopicTags fetches the tags currently linked to a topic.
// GET {topic_endpoint}/{id}/tags
func (c *Connector) ListTopicTags(ctx context.Context, topicID string) ([]entity.Tag, error) {
	endpoint := fmt.Sprintf("%s/%s/tags", c.config.TopicEndpoint, topicID)

	var tags []entity.Tag
	if err := c.getList(ctx, endpoint, &tags); err != nil {
		ctxzap.Error(ctx, "failed to list topic tags", zap.Error(err), zap.String("topic_id", topicID))
		return nil, fmt.Errorf("list topic tags: %w", err)
	}
	return tags, nil
}

// LinkTagToTopic associates a tag with a topic. The backend treats the link
// as an upsert, so the call is retried on transient failures.
// PUT {topic_endpoint}/{id}/tags/{tagId}
func (c *Connector) LinkTagToTopic(ctx context.Context, topicID, tagID string) error {
	endpoint := fmt.Sprintf("%s/%s/tags/%s", c.config.TopicEndpoint, topicID, tagID)

	err := pkgRetry.Do(ctx, &c.config.Retry, func() error {
		return c.connector.DoRequest(ctx, http.MethodPut, endpoint, nil, nil)
	})
	if err != nil {
		ctxzap.Error(ctx, "failed to link tag to topic", zap.Error(err),
			zap.String("topic_id", topicID), zap.String("tag_id", tagID))
		return fmt.Errorf("link tag %s to topic %s: %w", tagID, topicID, err)
	}

	ctxzap.Info(ctx, "tag linked to topic", zap.String("topic_id", topicID), zap.String("tag_id", tagID))
	return nil
}

// UnlinkTagFromTopic removes a tag-to-topic association.
// DELETE {topic_endpoint}/{id}/tags/{tagId}
func (c *Connector) UnlinkTagFromTopic(ctx context.Context, topicID, tagID string) error {
	endpoint := fmt.Sprintf("%s/%s/tags/%s", c.config.TopicEndpoint, topicID, tagID)

	if err := c.connector.DoRequest(ctx, http.MethodDelete, endpoint, nil, nil); err != nil {
		ctxzap.Error(ctx, "failed to unlink tag from topic", zap.Error(err),
			zap.String("topic_id", topicID), zap.String("tag_id", tagID))
		return fmt.Errorf("unlink tag %s from topic %s: %w", tagID, topicID, err)
	}
	return nil
}

// ListTags fetches all tags.
// GET {tag_endpoint}
func (c *Connector) ListTags(ctx context.Context) ([]entity.Tag, error) {
	var tags []entity.Tag
	if err := c.getList(ctx, c.config.TagEndpoint, &tags); err != nil {
		ctxzap.Error(ctx, "failed to list tags", zap.Error(err))
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// CreateTag creates a tag. Creating a tag does not associate it with any
// topic; linking is a separate explicit call.
// POST {tag_endpoint}
func (c *Connector) CreateTag(ctx context.Context, req *entity.CreateTagRequest) (*entity.Tag, error) {
	var raw json.RawMessage
	if err := c.connector.DoRequest(ctx, http.MethodPost, c.config.TagEndpoint, req, &raw); err != nil {
		ctxzap.Error(ctx, "failed to create tag", zap.Error(err))
		return nil, fmt.Errorf("create tag: %w", err)
	}

	var tag entity.Tag
	if err := decodeInto(raw, &tag); err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}

	ctxzap.Info(ctx, "tag created", zap.String("tag_id", tag.ID))
	return &tag, nil
}

// ListTemplates fetches interview templates, dropping soft-deleted entries.
// When topicID is non-empty the listing is narrowed to that topic.
// GET {template_endpoint}
func (c *Connector) ListTemplates(ctx context.Context, topicID string) ([]entity.InterviewTemplate, error) {
	var all []entity.InterviewTemplate
	if err := c.getList(ctx, c.config.TemplateEndpoint, &all); err != nil {
		ctxzap.Error(ctx, "failed to list templates", zap.Error(err))
		return nil, fmt.Errorf("list templates: %w", err)
	}

	templates := make([]entity.InterviewTemplate, 0, len(all))
	for _, t := range all {
		if t.IsDeleted {
			continue
		}
		if topicID != "" && t.TopicID != topicID {
			continue
		}
		templates = append(templates, t)
	}
	return templates, nil
}

// CreateTemplate creates an interview template under a topic.
// POST {template_endpoint}
func (c *Connector) CreateTemplate(ctx context.Context, req *entity.CreateTemplateRequest) (*entity.InterviewTemplate, error) {
	var raw json.RawMessage
	if err := c.connector.DoRequest(ctx, http.MethodPost, c.config.TemplateEndpoint, req, &raw); err != nil {
		ctxzap.Error(ctx, "failed to create template", zap.Error(err))
		return nil, fmt.Errorf("create template: %w", err)
	}

	var template entity.InterviewTemplate
	if err := decodeInto(raw, &template); err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}

	ctxzap.Info(ctx, "template created",
		zap.String("template_id", template.ID),
		zap.String("topic_id", req.TopicID),
	)
	return &template, nil
}

// ListQuestions fetches questions, optionally narrowed to a topic.
// GET {question_endpoint}
func (c *Connector) ListQuestions(ctx context.Context, topicID string) ([]entity.Question, error) {
	var all []entity.Question
	if err := c.getList(ctx, c.config.QuestionEndpoint, &all); err != nil {
		ctxzap.Error(ctx, "failed to list questions", zap.Error(err))
		return nil, fmt.Errorf("list questions: %w", err)
	}

	if topicID == "" {
		return all, nil
	}

	questions := make([]entity.Question, 0, len(all))
	for _, q := range all {
		if q.TopicID == topicID {
			questions = append(questions, q)
		}
	}
	return questions, nil
}

// CreateQuestion creates a question.
// POST {question_endpoint}
func (c *Connector) CreateQuestion(ctx context.Context, req *entity.CreateQuestionRequest) (*entity.Question, error) {
	var raw json.RawMessage
	if err := c.connector.DoRequest(ctx, http.MethodPost, c.config.QuestionEndpoint, req, &raw); err != nil {
		ctxzap.Error(ctx, "failed to create question", zap.Error(err))
		return nil, fmt.Errorf("create question: %w", err)
	}

	var question entity.Question
	if err := decodeInto(raw, &question); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}

	ctxzap.Info(ctx, "question created", zap.String("question_id", question.ID))
	return &question, nil
}

// ImportCSV uploads a CSV batch together with the resolved dependency ids.
// The backend owns row-level validation; the call is atomic from our side
// and is never retried.
// POST {csv_import_endpoint} with multipart/form-data
func (c *Connector) ImportCSV(ctx context.Context, req *entity.CSVImportRequest) (string, error) {
	ctxzap.Info(ctx, "importing questions from CSV",
		zap.String("filename", req.Filename),
		zap.Int("tag_count", len(req.TagIDs)),
		zap.String("template_id", req.TemplateID),
	)

	prepareBody := func(writer *multipart.Writer) error {
		for _, tagID := range req.TagIDs {
			if err := writer.WriteField("tagIds", tagID); err != nil {
				return fmt.Errorf("write tag field: %w", err)
			}
		}
		if err := writer.WriteField("interviewSessionId", req.TemplateID); err != nil {
			return fmt.Errorf("write template field: %w", err)
		}

		part, err := writer.CreateFormFile("file", req.Filename)
		if err != nil {
			return fmt.Errorf("create form file: %w", err)
		}
		if _, err := io.Copy(part, req.File); err != nil {
			return fmt.Errorf("write file content: %w", err)
		}
		return nil
	}

	var raw json.RawMessage
	err := c.connector.DoMultipartRequest(ctx, http.MethodPost, c.config.CSVImportEndpoint, prepareBody, &raw)
	if err != nil {
		ctxzap.Error(ctx, "CSV import failed", zap.Error(err))
		// Surface the backend's own message verbatim when it reported one.
		var httpErr *pkghttp.HTTPError
		if errors.As(err, &httpErr) && httpErr.Message != "" {
			return "", fmt.Errorf("%w: %s", entity.ErrBackendRejected, backendMessage(httpErr.Message))
		}
		return "", fmt.Errorf("import csv: %w", err)
	}

	message := responseMessage(raw)
	ctxzap.Info(ctx, "CSV import succeeded", zap.String("message", message))
	return message, nil
}

// responseMessage extracts the human-readable message of a success envelope,
// falling back to a generic acknowledgment.
func responseMessage(raw json.RawMessage) string {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Message != "" {
		return env.Message
	}
	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil && plain != "" {
		return plain
	}
	return "import accepted"
}

// backendMessage pulls the message out of an error envelope body, or returns
// the body itself when it is not an envelope.
func backendMessage(body string) string {
	var env envelope
	if err := json.Unmarshal([]byte(body), &env); err == nil && env.Message != "" {
		return env.Message
	}
	return body
}
