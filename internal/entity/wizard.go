package entity

import (
	"fmt"
	"time"
)

type WizardStep string

// Wizard steps follow the dependency chain of question creation:
// a topic must be resolved before tags, tags before a template, and
// the template before the question itself is composed or imported.
const (
	WizardStepTopic    WizardStep = "STEP_TOPIC"
	WizardStepTags     WizardStep = "STEP_TAGS"
	WizardStepTemplate WizardStep = "STEP_TEMPLATE"
	WizardStepCompose  WizardStep = "STEP_COMPOSE"

	// Terminal states
	WizardStepSubmitting WizardStep = "SUBMITTING"
	WizardStepDone       WizardStep = "DONE"
	WizardStepCanceled   WizardStep = "CANCELED"
)

type ComposeMode string

const (
	ComposeModeManual ComposeMode = "MANUAL"
	ComposeModeCSV    ComposeMode = "CSV"
)

func (m *ComposeMode) Validate() error {
	switch *m {
	case ComposeModeManual, ComposeModeCSV:
		return nil
	default:
		return fmt.Errorf("unknown compose mode: %s", *m)
	}
}

// SelectedRef is the ephemeral reference the wizard keeps for a resolved
// dependency. Only the id is authoritative; the title is kept for display.
type SelectedRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// QuestionDraft holds the manual-path form fields. Preserved across failed
// submits so the admin can retry without re-entering data.
type QuestionDraft struct {
	Title           string     `json:"title"`
	Content         string     `json:"content"`
	Difficulty      Difficulty `json:"difficulty"`
	SuitableAnswer1 string     `json:"suitable_answer_1"`
	SuitableAnswer2 *string    `json:"suitable_answer_2,omitempty"`
}

// WizardSession is the transient state of one creation flow. It owns nothing:
// all referenced entities live in the backend, and the session record is
// deleted on cancel or completion.
type WizardSession struct {
	ID        string         `json:"session_id"`
	Step      WizardStep     `json:"step"`
	Mode      ComposeMode    `json:"mode"`
	Topic     *SelectedRef   `json:"topic,omitempty"`
	Tags      []SelectedRef  `json:"tags,omitempty"`
	Template  *SelectedRef   `json:"template,omitempty"`
	Draft     QuestionDraft  `json:"draft"`
	LastError *string        `json:"last_error,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// HasTag reports whether the tag id is already selected.
func (s *WizardSession) HasTag(tagID string) bool {
	for _, t := range s.Tags {
		if t.ID == tagID {
			return true
		}
	}
	return false
}

// TagIDs returns the ids of the selected tags in selection order.
func (s *WizardSession) TagIDs() []string {
	ids := make([]string, 0, len(s.Tags))
	for _, t := range s.Tags {
		ids = append(ids, t.ID)
	}
	return ids
}

// StepComplete reports whether the required selection of the given step is
// present, i.e. whether the wizard may advance past it.
func (s *WizardSession) StepComplete(step WizardStep) bool {
	switch step {
	case WizardStepTopic:
		return s.Topic != nil && s.Topic.ID != ""
	case WizardStepTags:
		return len(s.Tags) > 0
	case WizardStepTemplate:
		return s.Template != nil && s.Template.ID != ""
	default:
		return false
	}
}

// LinkWarning records a best-effort tag-to-topic link that could not be
// established after question creation. The question itself is persisted;
// the link can be retried through the topic's tag manager.
type LinkWarning struct {
	TopicID string `json:"topic_id"`
	TagID   string `json:"tag_id"`
	Message string `json:"message"`
}
