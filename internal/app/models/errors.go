package models

import "errors"

// Domain specific errors for the guide generation flow.
var (
	ErrMissingAPIKey        = errors.New("GEMINI_API_KEY is not set")
	ErrAllModelsExhausted   = errors.New("all models exhausted")
	ErrEmptyCompletion      = errors.New("model returned an empty completion")
	ErrValidation           = errors.New("validation failed")
	ErrUnknownInterest      = errors.New("unknown interest")
	ErrGenerationInProgress = errors.New("a guide is already being generated for this session")
	ErrNoPlan               = errors.New("no itinerary has been generated yet")
	ErrNoImage              = errors.New("image response contained no image")
)
