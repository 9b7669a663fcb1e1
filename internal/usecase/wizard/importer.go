package wizard

import (
	"context"
	"mime/multipart"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/prepdeck/qbank-admin/internal/entity"
	"github.com/prepdeck/qbank-admin/internal/pkg/validator"
	"go.uber.org/zap"
)

// Importer is the bulk terminal step of the wizard: one multipart upload of
// an opaque CSV blob plus the resolved dependency ids. The backend owns row
// validation and the result is atomic success or failure; a failed import is
// simply re-invoked by the admin.
type Importer struct {
	questions QuestionService
	validator *validator.Validator
}

func NewImporter(questions QuestionService, validator *validator.Validator) *Importer {
	return &Importer{
		questions: questions,
		validator: validator,
	}
}

// checkPreconditions enforces the import prerequisites in precedence order,
// each with its own distinguishable error so the admin knows which step to
// revisit: file first, then tags, then template.
func (i *Importer) checkPreconditions(session *entity.WizardSession, file *multipart.FileHeader) error {
	if file == nil {
		return entity.ErrImportNoFile
	}
	if len(session.Tags) == 0 {
		return entity.ErrImportNoTags
	}
	if session.Template == nil || session.Template.ID == "" {
		return entity.ErrImportNoTemplate
	}
	return i.validator.ValidateCSVFile(file)
}

// Import uploads the CSV batch. No client-side retry or chunking.
func (i *Importer) Import(ctx context.Context, session *entity.WizardSession, file *multipart.FileHeader) (string, error) {
	if err := i.checkPreconditions(session, file); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	ctxzap.Info(ctx, "starting CSV import",
		zap.String("filename", file.Filename),
		zap.Int64("size", file.Size),
		zap.Int("tag_count", len(session.Tags)),
	)

	return i.questions.ImportCSV(ctx, &entity.CSVImportRequest{
		TagIDs:     session.TagIDs(),
		TemplateID: session.Template.ID,
		Filename:   file.Filename,
		File:       src,
	})
}
