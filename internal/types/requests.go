package types

import (
	"github.com/go-playground/validator/v10"
)

// LoginRequest is the operator login request for the control server.
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token string `json:"token"`
}

// PageOpRequest targets one of the engine operations (fill/apply/submit)
// at a URL. Answers, when present, pre-seed the prompt responder so the
// HTTP surface never blocks on a human.
type PageOpRequest struct {
	URL     string            `json:"url" validate:"required,url"`
	Answers map[string]string `json:"answers,omitempty"`
}

// MemoryImportRequest carries a mapping to merge into the memory store.
// Imported keys overwrite existing keys with the same name.
type MemoryImportRequest struct {
	Entries map[string]string `json:"entries" validate:"required"`
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the PageOpRequest using the validator.
func (r *PageOpRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the MemoryImportRequest using the validator.
func (r *MemoryImportRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
