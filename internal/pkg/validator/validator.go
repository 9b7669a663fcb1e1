package validator

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/prepdeck/qbank-admin/internal/config"
	"github.com/prepdeck/qbank-admin/internal/entity"
)

// Validator validates wizard drafts and file uploads before any backend call
// is issued. A request that fails here is never sent over the wire.
type Validator struct {
	cfg config.FileUploadConfig
}

func NewValidator(cfg config.FileUploadConfig) *Validator {
	return &Validator{cfg: cfg}
}

func (v *Validator) ValidateCreateTopic(req *entity.CreateTopicRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("%w: title", entity.ErrMissingField)
	}
	if strings.TrimSpace(req.Description) == "" {
		return fmt.Errorf("%w: description", entity.ErrMissingField)
	}
	return nil
}

func (v *Validator) ValidateCreateTag(req *entity.CreateTagRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("%w: title", entity.ErrMissingField)
	}
	if strings.TrimSpace(req.Description) == "" {
		return fmt.Errorf("%w: description", entity.ErrMissingField)
	}
	return nil
}

func (v *Validator) ValidateCreateTemplate(req *entity.CreateTemplateRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("%w: title", entity.ErrMissingField)
	}
	if strings.TrimSpace(req.Description) == "" {
		return fmt.Errorf("%w: description", entity.ErrMissingField)
	}
	if req.TopicID == "" {
		return fmt.Errorf("%w: topicId", entity.ErrMissingField)
	}
	return nil
}

func (v *Validator) ValidateQuestionDraft(draft *entity.QuestionDraft) error {
	if strings.TrimSpace(draft.Title) == "" {
		return fmt.Errorf("%w: title", entity.ErrMissingField)
	}
	if strings.TrimSpace(draft.Content) == "" {
		return fmt.Errorf("%w: content", entity.ErrMissingField)
	}
	if err := draft.Difficulty.Validate(); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrInvalidParameter, err)
	}
	if strings.TrimSpace(draft.SuitableAnswer1) == "" {
		return fmt.Errorf("%w: suitable_answer_1", entity.ErrMissingField)
	}
	return nil
}

// ValidateCSVFile checks extension, size and content type of an import file.
func (v *Validator) ValidateCSVFile(file *multipart.FileHeader) error {
	if file == nil {
		return entity.ErrImportNoFile
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".csv" {
		return fmt.Errorf("%w: %s (only .csv files are allowed)", entity.ErrInvalidExtension, ext)
	}

	if file.Size > v.cfg.MaxCSVFileSize {
		return fmt.Errorf("%w: file '%s' is %d bytes (max %d)", entity.ErrFileTooLarge, file.Filename, file.Size, v.cfg.MaxCSVFileSize)
	}

	contentType := file.Header.Get("Content-Type")
	if contentType != "" &&
		contentType != "text/csv" &&
		contentType != "application/vnd.ms-excel" &&
		contentType != "application/octet-stream" {
		return fmt.Errorf("%w: content type '%s' (expected text/csv or application/octet-stream)", entity.ErrInvalidExtension, contentType)
	}

	return nil
}
