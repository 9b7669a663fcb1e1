package entity

import (
	"fmt"
	"time"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

func (d *Difficulty) Validate() error {
	switch *d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return nil
	default:
		return fmt.Errorf("unknown difficulty: %s", *d)
	}
}

// Topic is the top-level subject category grouping tags, templates and questions.
type Topic struct {
	ID              string    `json:"topicId"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	LongDescription *string   `json:"longDescription,omitempty"`
	Thumbnail       *string   `json:"thumbnail,omitempty"`
	IsDeleted       bool      `json:"isDeleted"`
	CreatedAt       time.Time `json:"createdAt,omitempty"`
}

// Tag is a fine-grained label, many-to-many with topics and questions.
type Tag struct {
	ID          string `json:"tagId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IsDeleted   bool   `json:"isDeleted"`
}

// InterviewTemplate is a named bundle of questions scoped to a topic.
type InterviewTemplate struct {
	ID            string `json:"interviewSessionId"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	TopicID       string `json:"topicId"`
	TotalQuestion int    `json:"totalQuestion"`
	IsDeleted     bool   `json:"isDeleted"`
}

// Question is the terminal entity of the creation wizard.
type Question struct {
	ID              string     `json:"questionId"`
	Title           string     `json:"title"`
	Content         string     `json:"content"`
	Difficulty      Difficulty `json:"difficulty"`
	SuitableAnswer1 string     `json:"suitableAnswer1"`
	SuitableAnswer2 *string    `json:"suitableAnswer2,omitempty"`
	TagIDs          []string   `json:"tagIds"`
	TopicID         string     `json:"topicId"`
	TemplateID      string     `json:"interviewSessionId"`
}
