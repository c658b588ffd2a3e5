package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/prathamesh/auto-apply/internal/types"
)

// handleLogin verifies the operator password and issues a bearer token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.loginLimiter.allow(clientID(r)) {
		s.errorResponse(w, http.StatusTooManyRequests, "too many login attempts")
		return
	}

	var req types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	if !s.passwordCfg.VerifyPassword(req.Password, s.passwordHash) {
		s.errorResponse(w, http.StatusUnauthorized, "invalid password")
		return
	}

	token, err := s.jwtService.GenerateToken()
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	s.jsonResponse(w, http.StatusOK, types.LoginResponse{Token: token})
}

// handleOpen navigates the shared browser session to a URL.
func (s *Server) handleOpen(w http.ResponseWriter, r *http.Request) {
	var req types.PageOpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	if !s.beginOp(w) {
		return
	}
	defer s.opMu.Unlock()

	if err := s.ops.Open(r.Context(), req.URL); err != nil {
		s.errorResponse(w, http.StatusBadGateway, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleFill runs a fill pass over the session's current page. The optional
// answers map pre-seeds the prompt responder so the HTTP surface never
// blocks waiting for a human at a terminal.
func (s *Server) handleFill(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Answers map[string]string `json:"answers,omitempty"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	if !s.beginOp(w) {
		return
	}
	defer s.opMu.Unlock()

	result, err := s.ops.Fill(r.Context(), req.Answers)
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleApply clicks the apply control on the session's current page.
func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	if !s.beginOp(w) {
		return
	}
	defer s.opMu.Unlock()

	result, err := s.ops.Apply(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleSubmit submits the session's current page.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if !s.beginOp(w) {
		return
	}
	defer s.opMu.Unlock()

	result, err := s.ops.Submit(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleExportMemory returns the full question/answer mapping.
func (s *Server) handleExportMemory(w http.ResponseWriter, r *http.Request) {
	entries, err := s.memory.Export(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"entries": entries,
		"count":   len(entries),
	})
}

// handleImportMemory merges entries into the memory store; imported keys win.
func (s *Server) handleImportMemory(w http.ResponseWriter, r *http.Request) {
	var req types.MemoryImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	if err := s.memory.Import(r.Context(), req.Entries); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]int{"imported": len(req.Entries)})
}

// handleGetState returns the shared run state.
func (s *Server) handleGetState(w http.ResponseWriter, _ *http.Request) {
	if s.state == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "run state not configured")
		return
	}

	state, err := s.state.Load()
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, state)
}

// handlePutState replaces the shared run state as a whole object.
func (s *Server) handlePutState(w http.ResponseWriter, r *http.Request) {
	if s.state == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "run state not configured")
		return
	}

	var state types.RunState
	if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.state.Save(&state); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, &state)
}

// beginOp takes the page-operation lock, or reports a conflict when another
// operation is already driving the session.
func (s *Server) beginOp(w http.ResponseWriter) bool {
	if s.ops == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "no browser session attached")
		return false
	}
	if !s.opMu.TryLock() {
		s.errorResponse(w, http.StatusConflict, "another page operation is in progress")
		return false
	}
	return true
}

// extractValidationErrors extracts validation error messages from validator errors.
func extractValidationErrors(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrors) > 0 {
			// Return first validation error for simplicity
			ve := validationErrors[0]
			return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
		}
	}
	return "validation error: invalid request"
}
