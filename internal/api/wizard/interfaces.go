package wizard

import (
	"context"
	"mime/multipart"

	"github.com/prepdeck/qbank-admin/internal/entity"
)

type WizardUsecase interface {
	Open(ctx context.Context) (*entity.WizardSession, error)
	Get(ctx context.Context, sessionID string) (*entity.WizardSession, error)
	Cancel(ctx context.Context, sessionID string) error

	ListTopics(ctx context.Context) ([]entity.Topic, error)
	ListTags(ctx context.Context) ([]entity.Tag, error)
	ListTemplates(ctx context.Context, sessionID string) ([]entity.InterviewTemplate, error)

	SelectTopic(ctx context.Context, sessionID string, req *entity.SelectTopicRequest) (*entity.WizardSession, error)
	AddTag(ctx context.Context, sessionID string, req *entity.AddTagRequest) (*entity.WizardSession, error)
	RemoveTag(ctx context.Context, sessionID, tagID string) (*entity.WizardSession, error)
	SelectTemplate(ctx context.Context, sessionID string, req *entity.SelectTemplateRequest) (*entity.WizardSession, error)

	Next(ctx context.Context, sessionID string) (*entity.WizardSession, error)
	Back(ctx context.Context, sessionID string) (*entity.WizardSession, error)
	SetMode(ctx context.Context, sessionID string, mode entity.ComposeMode) (*entity.WizardSession, error)
	UpdateDraft(ctx context.Context, sessionID string, draft *entity.QuestionDraft) (*entity.WizardSession, error)

	SubmitManual(ctx context.Context, sessionID string) (*entity.SubmitResult, error)
	ImportCSV(ctx context.Context, sessionID string, file *multipart.FileHeader) (*entity.ImportResult, error)
}
