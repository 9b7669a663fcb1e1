package wizard

import "github.com/prepdeck/qbank-admin/internal/entity"

// toSessionDTO converts WizardSession entity to its API representation
func toSessionDTO(session *entity.WizardSession) *entity.WizardSessionDTO {
	return &entity.WizardSessionDTO{
		ID:        session.ID,
		Step:      session.Step,
		Mode:      session.Mode,
		Topic:     session.Topic,
		Tags:      session.Tags,
		Template:  session.Template,
		Draft:     session.Draft,
		LastError: session.LastError,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
}
