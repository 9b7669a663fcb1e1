package entity

import "errors"

// Domain errors
var (
	// Wizard session errors
	ErrWizardNotFound  = errors.New("wizard session not found")
	ErrWizardFinished  = errors.New("wizard session is already finished")
	ErrWrongStep       = errors.New("action not allowed on current step")
	ErrStepIncomplete  = errors.New("current step selection is incomplete")
	ErrAlreadyAtStart  = errors.New("already at the first step")

	// Catalog errors
	ErrTopicNotFound    = errors.New("topic not found")
	ErrTagNotFound      = errors.New("tag not found")
	ErrTemplateNotFound = errors.New("template not found")

	// Bulk import precondition errors, checked in this precedence order
	ErrImportNoFile     = errors.New("select a CSV file before importing")
	ErrImportNoTags     = errors.New("select at least one tag before importing")
	ErrImportNoTemplate = errors.New("select a template before importing")

	// File errors
	ErrInvalidExtension = errors.New("invalid file extension")
	ErrFileTooLarge     = errors.New("file too large")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")

	// Backend errors
	ErrBackendRejected = errors.New("backend rejected the request")
)
