package service

import (
	"errors"

	"iajuridica-backend/models"
)

var (
	// ErrInvalidInput is the same sentinel the models package wraps validation failures with
	ErrInvalidInput     = models.ErrInvalid
	ErrCaseNotFound     = errors.New("case not found")
	ErrDocumentNotFound = errors.New("document not found")
	ErrGenerationFailed = errors.New("failed to generate content")
	ErrArchiveFailed    = errors.New("failed to archive document")
)
