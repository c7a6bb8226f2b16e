// Package httpapi exposes catalogue lookups and browsing sessions over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"vacciprofile/docs/schema/openapi"
	"vacciprofile/internal/catalog"
	"vacciprofile/internal/filter"
	"vacciprofile/pkg/domain"
)

// CatalogSource returns the catalogue new sessions and lookups should use.
type CatalogSource interface {
	Catalog() *catalog.Catalog
}

// Handler provides HTTP access to the catalogue and to browsing sessions.
type Handler struct {
	Source   CatalogSource
	Sessions *Registry
	logger   *zap.Logger
	tracer   trace.Tracer
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHandler constructs a handler over src and sessions.
func NewHandler(src CatalogSource, sessions *Registry, opts ...Option) *Handler {
	h := &Handler{
		Source:   src,
		Sessions: sessions,
		logger:   zap.NewNop(),
		tracer:   otel.Tracer("vacciprofile/httpapi"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes mounts the handler next to the health and metrics endpoints.
func Routes(h *Handler, gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /api/v1/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(openapi.Document)
	})
	mux.Handle("/", h)
	return mux
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.Source == nil || h.Source.Catalog() == nil || h.Sessions == nil {
		writeError(w, http.StatusInternalServerError, "catalogue not loaded")
		return
	}

	path := strings.TrimSuffix(r.URL.EscapedPath(), "/")
	ctx, span := h.tracer.Start(r.Context(), r.Method+" "+route(path))
	defer span.End()
	r = r.WithContext(ctx)
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

	switch {
	case path == "/healthz":
		h.handleHealth(rec, r)
	case path == "/api/v1/sessions":
		if r.Method != http.MethodPost {
			writeError(rec, http.StatusMethodNotAllowed, "method not allowed")
			break
		}
		h.handleSessionCreate(rec, r)
	case strings.HasPrefix(path, "/api/v1/sessions/"):
		h.handleSession(rec, r, segments(strings.TrimPrefix(path, "/api/v1/sessions/")))
	case strings.HasPrefix(path, "/api/v1/vaccines/"):
		h.handleVaccine(rec, r, segments(strings.TrimPrefix(path, "/api/v1/vaccines/")))
	case path == "/api/v1/manufacturers":
		h.handleManufacturerList(rec, r)
	case strings.HasPrefix(path, "/api/v1/manufacturers/"):
		h.handleManufacturer(rec, r, segments(strings.TrimPrefix(path, "/api/v1/manufacturers/")))
	case path == "/api/v1/accreditations":
		h.handleAccreditationList(rec, r)
	case strings.HasPrefix(path, "/api/v1/accreditations/"):
		h.handleAccreditation(rec, r, segments(strings.TrimPrefix(path, "/api/v1/accreditations/")))
	default:
		writeError(rec, http.StatusNotFound, "endpoint not found")
	}

	span.SetAttributes(attribute.Int("http.status_code", rec.status))
	if rec.status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, http.StatusText(rec.status))
	}
	h.logger.Debug("http request",
		zap.String("method", r.Method),
		zap.String("path", path),
		zap.Int("status", rec.status),
	)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	manufacturers, viruses, vaccines := h.Source.Catalog().Counts()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"manufacturers": manufacturers,
		"viruses":       viruses,
		"vaccines":      vaccines,
		"sessions":      h.Sessions.Len(),
	})
}

func (h *Handler) handleVaccine(w http.ResponseWriter, r *http.Request, parts []string) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if len(parts) == 0 || len(parts) > 2 || parts[0] == "" {
		writeError(w, http.StatusNotFound, "endpoint not found")
		return
	}
	c := h.Source.Catalog()
	vx, err := c.VaccineByID(parts[0])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if len(parts) == 1 {
		writeJSON(w, http.StatusOK, map[string]any{"vaccine": vx})
		return
	}
	switch parts[1] {
	case "virus":
		virus, err := c.VirusByVaccine(vx)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"virus": virus})
	case "countries":
		countries, err := c.CountriesByVaccine(vx.Ref())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"countries": countries})
	default:
		writeError(w, http.StatusNotFound, "endpoint not found")
	}
}

func (h *Handler) handleManufacturerList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	q := r.URL.Query()
	st := filter.State{Keyword: q.Get("keyword"), Letter: q.Get("letter")}
	if st.Letter != "" && !filter.ValidLetter(st.Letter) {
		writeError(w, http.StatusBadRequest, domain.ErrInvalidLetter.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"manufacturers": filter.Apply(h.Source.Catalog().Manufacturers(), st),
	})
}

func (h *Handler) handleManufacturer(w http.ResponseWriter, r *http.Request, parts []string) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if len(parts) == 0 || len(parts) > 2 || parts[0] == "" {
		writeError(w, http.StatusNotFound, "endpoint not found")
		return
	}
	c := h.Source.Catalog()
	m, err := c.ManufacturerByID(parts[0])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if len(parts) == 1 {
		writeJSON(w, http.StatusOK, map[string]any{"manufacturer": m})
		return
	}
	if parts[1] != "vaccines" {
		writeError(w, http.StatusNotFound, "endpoint not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"vaccines": c.VaccinesByManufacturer(m.ManufacturerID)})
}

func (h *Handler) handleAccreditationList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"accreditations": h.Source.Catalog().Accreditations()})
}

func (h *Handler) handleAccreditation(w http.ResponseWriter, r *http.Request, parts []string) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if len(parts) != 2 || parts[0] == "" || parts[1] != "vaccines" {
		writeError(w, http.StatusNotFound, "endpoint not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"vaccines": h.Source.Catalog().VaccinesByAccreditation(parts[0])})
}

// segments splits an escaped path remainder and unescapes each part, so tags
// may carry an encoded slash.
func segments(remainder string) []string {
	raw := strings.Split(remainder, "/")
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if u, err := url.PathUnescape(s); err == nil {
			s = u
		}
		out = append(out, s)
	}
	return out
}

// route collapses identifiers out of path so span names stay low-cardinality.
func route(path string) string {
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if len(parts) >= 4 && parts[0] == "api" {
		parts[3] = "{id}"
	}
	return "/" + strings.Join(parts, "/")
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidLetter):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
