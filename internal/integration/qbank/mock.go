package qbank

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/prepdeck/qbank-admin/internal/entity"
	"go.uber.org/zap"
)

// MockConnector is an in-memory stand-in for the question-bank backend,
// used with ENABLE_MOCKS and by the end-to-end tests. It keeps the same
// semantics the real backend guarantees: entities owned server-side,
// tag-to-topic links stored as a set, soft deletes respected.
type MockConnector struct {
	logger *zap.Logger

	mu        sync.Mutex
	topics    map[string]*entity.Topic
	tags      map[string]*entity.Tag
	templates map[string]*entity.InterviewTemplate
	questions map[string]*entity.Question
	topicTags map[string]map[string]bool // topicID -> set of tagIDs
	linkCalls int
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger:    logger,
		topics:    make(map[string]*entity.Topic),
		tags:      make(map[string]*entity.Tag),
		templates: make(map[string]*entity.InterviewTemplate),
		questions: make(map[string]*entity.Question),
		topicTags: make(map[string]map[string]bool),
	}
}

func (m *MockConnector) ListTopics(ctx context.Context) ([]entity.Topic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	topics := make([]entity.Topic, 0, len(m.topics))
	for _, t := range m.topics {
		if !t.IsDeleted {
			topics = append(topics, *t)
		}
	}
	return topics, nil
}

func (m *MockConnector) CreateTopic(ctx context.Context, req *entity.CreateTopicRequest) (*entity.Topic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	topic := &entity.Topic{
		ID:              uuid.New().String(),
		Title:           req.Title,
		Description:     req.Description,
		LongDescription: req.LongDescription,
	}
	m.topics[topic.ID] = topic

	ctxzap.Info(ctx, "[MOCK] topic created", zap.String("topic_id", topic.ID))
	return topic, nil
}

func (m *MockConnector) ListTopicTags(ctx context.Context, topicID string) ([]entity.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.topics[topicID]; !ok {
		return nil, entity.ErrTopicNotFound
	}

	tags := make([]entity.Tag, 0)
	for tagID := range m.topicTags[topicID] {
		if tag, ok := m.tags[tagID]; ok {
			tags = append(tags, *tag)
		}
	}
	return tags, nil
}

func (m *MockConnector) LinkTagToTopic(ctx context.Context, topicID, tagID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.topics[topicID]; !ok {
		return entity.ErrTopicNotFound
	}
	if _, ok := m.tags[tagID]; !ok {
		return entity.ErrTagNotFound
	}

	if m.topicTags[topicID] == nil {
		m.topicTags[topicID] = make(map[string]bool)
	}
	m.topicTags[topicID][tagID] = true
	m.linkCalls++

	ctxzap.Info(ctx, "[MOCK] tag linked to topic",
		zap.String("topic_id", topicID), zap.String("tag_id", tagID))
	return nil
}

func (m *MockConnector) UnlinkTagFromTopic(ctx context.Context, topicID, tagID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.topicTags[topicID]; !ok {
		return entity.ErrTopicNotFound
	}
	delete(m.topicTags[topicID], tagID)
	return nil
}

func (m *MockConnector) ListTags(ctx context.Context) ([]entity.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tags := make([]entity.Tag, 0, len(m.tags))
	for _, t := range m.tags {
		if !t.IsDeleted {
			tags = append(tags, *t)
		}
	}
	return tags, nil
}

func (m *MockConnector) CreateTag(ctx context.Context, req *entity.CreateTagRequest) (*entity.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tag := &entity.Tag{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
	}
	m.tags[tag.ID] = tag

	ctxzap.Info(ctx, "[MOCK] tag created", zap.String("tag_id", tag.ID))
	return tag, nil
}

func (m *MockConnector) ListTemplates(ctx context.Context, topicID string) ([]entity.InterviewTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	templates := make([]entity.InterviewTemplate, 0, len(m.templates))
	for _, t := range m.templates {
		if t.IsDeleted {
			continue
		}
		if topicID != "" && t.TopicID != topicID {
			continue
		}
		templates = append(templates, *t)
	}
	return templates, nil
}

func (m *MockConnector) CreateTemplate(ctx context.Context, req *entity.CreateTemplateRequest) (*entity.InterviewTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.topics[req.TopicID]; !ok {
		return nil, entity.ErrTopicNotFound
	}

	template := &entity.InterviewTemplate{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		TopicID:     req.TopicID,
	}
	m.templates[template.ID] = template

	ctxzap.Info(ctx, "[MOCK] template created", zap.String("template_id", template.ID))
	return template, nil
}

func (m *MockConnector) ListQuestions(ctx context.Context, topicID string) ([]entity.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	questions := make([]entity.Question, 0, len(m.questions))
	for _, q := range m.questions {
		if topicID != "" && q.TopicID != topicID {
			continue
		}
		questions = append(questions, *q)
	}
	return questions, nil
}

func (m *MockConnector) CreateQuestion(ctx context.Context, req *entity.CreateQuestionRequest) (*entity.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	question := &entity.Question{
		ID:              uuid.New().String(),
		Title:           req.Title,
		Content:         req.Content,
		Difficulty:      req.Difficulty,
		SuitableAnswer1: req.SuitableAnswer1,
		SuitableAnswer2: req.SuitableAnswer2,
		TagIDs:          append([]string(nil), req.TagIDs...),
		TopicID:         req.TopicID,
		TemplateID:      req.TemplateID,
	}
	m.questions[question.ID] = question

	ctxzap.Info(ctx, "[MOCK] question created", zap.String("question_id", question.ID))
	return question, nil
}

// ImportCSV simulates the backend's batch import: one question per data row,
// first column used as the title. Row parsing lives here because the real
// parsing is the backend's responsibility, not the gateway's.
func (m *MockConnector) ImportCSV(ctx context.Context, req *entity.CSVImportRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.templates[req.TemplateID]; !ok {
		return "", entity.ErrTemplateNotFound
	}

	scanner := bufio.NewScanner(req.File)
	imported := 0
	first := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if first {
			// header row
			first = false
			continue
		}

		title := line
		if idx := strings.Index(line, ","); idx >= 0 {
			title = line[:idx]
		}

		question := &entity.Question{
			ID:         uuid.New().String(),
			Title:      title,
			Difficulty: entity.DifficultyMedium,
			TagIDs:     append([]string(nil), req.TagIDs...),
			TopicID:    m.templates[req.TemplateID].TopicID,
			TemplateID: req.TemplateID,
		}
		m.questions[question.ID] = question
		imported++
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", entity.ErrBackendRejected, err)
	}

	if imported == 0 {
		return "", fmt.Errorf("%w: CSV file contains no data rows", entity.ErrBackendRejected)
	}

	message := fmt.Sprintf("imported %d questions", imported)
	ctxzap.Info(ctx, "[MOCK] CSV import finished", zap.Int("imported", imported))
	return message, nil
}

// LinkCallCount reports how many link calls were issued, for idempotency checks.
func (m *MockConnector) LinkCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.linkCalls
}

// TopicTagLinks returns the linked tag ids of a topic, for assertions.
func (m *MockConnector) TopicTagLinks(topicID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.topicTags[topicID]))
	for tagID := range m.topicTags[topicID] {
		ids = append(ids, tagID)
	}
	return ids
}
