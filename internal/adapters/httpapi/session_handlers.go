package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"vacciprofile/internal/session"
	"vacciprofile/pkg/domain"
)

// actionRequest carries the arguments of every session action; each action
// reads only the fields it needs.
type actionRequest struct {
	Keyword        string `json:"keyword"`
	Letter         string `json:"letter"`
	VirusID        string `json:"virusId"`
	VaccineID      string `json:"vaccineId"`
	Name           string `json:"name"`
	ManufacturerID string `json:"manufacturerId"`
	Toggle         bool   `json:"toggle"`
	Tag            string `json:"tag"`
}

type sessionPayload struct {
	ID   string       `json:"id"`
	View session.View `json:"view"`
}

func (h *Handler) handleSessionCreate(w http.ResponseWriter, r *http.Request) {
	id := h.Sessions.Create(h.Source.Catalog())
	var view session.View
	h.Sessions.Do(id, func(s *session.Session) { view = s.Snapshot() })
	trace.SpanFromContext(r.Context()).SetAttributes(attribute.String("session.id", id))
	writeJSON(w, http.StatusCreated, map[string]any{"session": sessionPayload{ID: id, View: view}})
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request, parts []string) {
	if len(parts) == 0 || len(parts) > 2 || parts[0] == "" {
		writeError(w, http.StatusNotFound, "endpoint not found")
		return
	}
	id := parts[0]
	trace.SpanFromContext(r.Context()).SetAttributes(attribute.String("session.id", id))

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			var view session.View
			if !h.Sessions.Do(id, func(s *session.Session) { view = s.Snapshot() }) {
				writeError(w, http.StatusNotFound, "session not found")
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"session": sessionPayload{ID: id, View: view}})
		case http.MethodDelete:
			if !h.Sessions.Delete(id) {
				writeError(w, http.StatusNotFound, "session not found")
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return
	}

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	action := parts[1]
	trace.SpanFromContext(r.Context()).SetAttributes(attribute.String("session.action", action))

	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var (
		view      session.View
		actionErr error
		known     = true
	)
	found := h.Sessions.Do(id, func(s *session.Session) {
		known, actionErr = apply(s, action, req)
		view = s.Snapshot()
	})
	switch {
	case !found:
		writeError(w, http.StatusNotFound, "session not found")
	case !known:
		writeError(w, http.StatusNotFound, "unknown session action")
	case errors.Is(actionErr, errPartial):
		trace.SpanFromContext(r.Context()).RecordError(actionErr)
		writeJSON(w, http.StatusOK, map[string]any{"session": sessionPayload{ID: id, View: view}})
	case actionErr != nil:
		trace.SpanFromContext(r.Context()).RecordError(actionErr)
		writeActionError(w, actionErr)
	default:
		writeJSON(w, http.StatusOK, map[string]any{"session": sessionPayload{ID: id, View: view}})
	}
}

var (
	errMissingField = errors.New("missing required field")
	// errPartial marks an action that changed the session even though one of
	// its lookups failed; the view reports the gap as unavailable.
	errPartial = errors.New("action applied with unavailable data")
)

// apply runs one named action against s. The first result is false for an
// unknown action name.
func apply(s *session.Session, action string, req actionRequest) (bool, error) {
	c := s.Catalog()
	switch action {
	case "search":
		s.Search(req.Keyword)
	case "letter":
		return true, s.ToggleLetter(req.Letter)
	case "clear":
		s.ClearFilters()
	case "virus":
		if req.VirusID == "" {
			return true, fieldError("virusId")
		}
		v, err := c.VirusByID(req.VirusID)
		if err != nil {
			return true, err
		}
		if err := s.SelectVirus(v); err != nil {
			return true, fmt.Errorf("%w: %w", errPartial, err)
		}
	case "vaccine":
		ref := domain.VaccineRef{VaccineID: req.VaccineID, Name: req.Name}
		if ref.Name == "" {
			if ref.VaccineID == "" {
				return true, fieldError("name")
			}
			vx, err := c.VaccineByID(ref.VaccineID)
			if err != nil {
				return true, err
			}
			ref = vx.Ref()
		}
		return true, s.SelectVaccine(ref)
	case "manufacturer":
		if req.ManufacturerID == "" {
			return true, fieldError("manufacturerId")
		}
		m, err := c.ManufacturerByID(req.ManufacturerID)
		if err != nil {
			return true, err
		}
		if req.Toggle {
			s.ToggleManufacturer(m)
		} else {
			s.SelectManufacturer(m)
		}
	case "accreditation":
		if req.Tag == "" {
			return true, fieldError("tag")
		}
		s.SelectAccreditation(req.Tag)
	default:
		return false, nil
	}
	return true, nil
}

func fieldError(name string) error {
	return fmt.Errorf("%w: %s", errMissingField, name)
}

func writeActionError(w http.ResponseWriter, err error) {
	if errors.Is(err, errMissingField) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeDomainError(w, err)
}
