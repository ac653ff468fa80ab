package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/team-builder/internal/team"
)

const (
	codeBadRequest       = "bad_request"
	codeInvalidQuota     = "invalid_quota"
	codeMethodNotAllowed = "method_not_allowed"
	codeInternal         = "internal"

	contentTypeCSV = "text/csv"
)

type healthResponse struct {
	Status     string `json:"status"`
	Candidates int    `json:"candidates"`
}

type skillsResponse struct {
	Skills []string `json:"skills"`
}

type allocateRequest struct {
	Team team.Quotas `json:"team"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, nil)
		return
	}

	s.writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Candidates: len(s.pool)})
}

func (s *Server) handleSkills(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, nil)
		return
	}

	s.writeJSON(w, http.StatusOK, skillsResponse{Skills: s.vocabulary})
}

func (s *Server) handleAllocate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, nil)
		return
	}

	var req allocateRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, codeBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}

	if len(req.Team) == 0 {
		s.writeError(w, http.StatusBadRequest, codeInvalidQuota, errors.New("team must list at least one skill"))
		return
	}

	if err := req.Team.Validate(s.cfg.MaxPerSkill); err != nil {
		s.writeError(w, http.StatusBadRequest, codeInvalidQuota, err)
		return
	}

	result, err := s.allocator.Allocate(r.Context(), s.pool, req.Team)
	if err != nil {
		s.logger.Error("allocation failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, codeInternal, err)
		return
	}

	if wantsCSV(r) {
		w.Header().Set("Content-Type", contentTypeCSV+"; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="team.csv"`)
		w.WriteHeader(http.StatusOK)
		if err := result.WriteRosterCSV(w); err != nil {
			s.logger.Warn("writing csv response", zap.Error(err))
		}
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func wantsCSV(r *http.Request) bool {
	if strings.EqualFold(r.URL.Query().Get("format"), "csv") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), contentTypeCSV)
}

// writeJSON encodes v before any header is sent, so an unencodable value
// becomes a 500 instead of an empty 200.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("encoding response", zap.Error(err))
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{
			Code:    codeInternal,
			Message: fmt.Sprintf("encoding response: %v", err),
		})
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func (s *Server) writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	s.writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
