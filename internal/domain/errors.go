package domain

import "errors"

var (
	// ErrSourceUnavailable signals a rule source that could not be fetched or parsed.
	ErrSourceUnavailable = errors.New("rule source unavailable")
	// ErrSchemaMismatch signals a rule source whose shape matched no known pattern.
	ErrSchemaMismatch = errors.New("rule source schema mismatch")
	// ErrNoConfidentMatch signals that ranking produced no record above the score floor.
	ErrNoConfidentMatch = errors.New("no confident match")
	// ErrCatalogEmpty signals a catalog with no records for the requested modality.
	ErrCatalogEmpty = errors.New("catalog has no records")
	// ErrModalityUnknown signals a modality absent from the catalog.
	ErrModalityUnknown = errors.New("unknown modality")
	// ErrJustifyUnavailable signals that no chat provider is configured.
	ErrJustifyUnavailable = errors.New("justification provider not configured")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
)
