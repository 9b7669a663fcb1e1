package entity

import (
	"io"
	"time"
)

// ExportFormat selects the question-sheet export rendering.
type ExportFormat string

const (
	FormatMarkdown ExportFormat = "md"
	FormatPDF      ExportFormat = "pdf"
	FormatDOCX     ExportFormat = "docx"
)

// CreateTopicRequest is the payload for creating a topic, both through the
// wizard's first step and the standalone catalog endpoint.
type CreateTopicRequest struct {
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	LongDescription *string `json:"longDescription,omitempty"`
}

type CreateTagRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type CreateTemplateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	TopicID     string `json:"topicId"`
}

type CreateQuestionRequest struct {
	Title           string     `json:"title"`
	Content         string     `json:"content"`
	Difficulty      Difficulty `json:"difficulty"`
	SuitableAnswer1 string     `json:"suitableAnswer1"`
	SuitableAnswer2 *string    `json:"suitableAnswer2,omitempty"`
	TagIDs          []string   `json:"tagIds"`
	TopicID         string     `json:"topicId"`
	TemplateID      string     `json:"interviewSessionId"`
}

// SelectTopicRequest selects an existing topic or, when Create is set,
// creates a new one and selects it in a single call.
type SelectTopicRequest struct {
	TopicID string              `json:"topic_id,omitempty"`
	Create  *CreateTopicRequest `json:"create,omitempty"`
}

type AddTagRequest struct {
	TagID  string            `json:"tag_id,omitempty"`
	Create *CreateTagRequest `json:"create,omitempty"`
}

// SelectTemplateRequest selects or creates a template. TopicID on the create
// payload is filled from the session's resolved topic, never from the client.
type SelectTemplateRequest struct {
	TemplateID string `json:"template_id,omitempty"`
	Create     *struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"create,omitempty"`
}

type SetModeRequest struct {
	Mode ComposeMode `json:"mode"`
}

// SubmitResult is returned by the manual path: the created question plus any
// best-effort link warnings that the admin may want to retry.
type SubmitResult struct {
	Question *Question     `json:"question"`
	Warnings []LinkWarning `json:"warnings,omitempty"`
}

// CSVImportRequest carries an opaque CSV blob plus the resolved dependency
// ids. Rows are never parsed client-side; validation belongs to the backend.
type CSVImportRequest struct {
	TagIDs     []string
	TemplateID string
	Filename   string
	File       io.Reader
}

// ImportResult is the aggregate outcome of a CSV import.
type ImportResult struct {
	Message  string        `json:"message"`
	Warnings []LinkWarning `json:"warnings,omitempty"`
}

// WizardSessionDTO is the API representation of a wizard session.
type WizardSessionDTO struct {
	ID        string        `json:"session_id"`
	Step      WizardStep    `json:"step"`
	Mode      ComposeMode   `json:"mode"`
	Topic     *SelectedRef  `json:"topic,omitempty"`
	Tags      []SelectedRef `json:"tags,omitempty"`
	Template  *SelectedRef  `json:"template,omitempty"`
	Draft     QuestionDraft `json:"draft"`
	LastError *string       `json:"last_error,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
