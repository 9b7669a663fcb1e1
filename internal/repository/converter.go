package repository

import "github.com/prepdeck/qbank-admin/internal/entity"

// cloneSession deep-copies a wizard session so storage and callers never
// share mutable state.
func cloneSession(s *entity.WizardSession) *entity.WizardSession {
	clone := *s

	if s.Topic != nil {
		topic := *s.Topic
		clone.Topic = &topic
	}
	if s.Template != nil {
		template := *s.Template
		clone.Template = &template
	}
	if s.Tags != nil {
		clone.Tags = append([]entity.SelectedRef(nil), s.Tags...)
	}
	if s.LastError != nil {
		lastError := *s.LastError
		clone.LastError = &lastError
	}
	if s.Draft.SuitableAnswer2 != nil {
		answer := *s.Draft.SuitableAnswer2
		clone.Draft.SuitableAnswer2 = &answer
	}

	return &clone
}
