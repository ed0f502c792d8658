// Package chi exposes the HTTP API: account signup and login, document
// CRUD, and the per-owner table-view session.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/studyshelf/studyshelf/internal/domain"
	domdoc "github.com/studyshelf/studyshelf/internal/domain/document"
	domview "github.com/studyshelf/studyshelf/internal/domain/view"
	authuc "github.com/studyshelf/studyshelf/internal/usecase/auth"
	documentuc "github.com/studyshelf/studyshelf/internal/usecase/document"
	healthuc "github.com/studyshelf/studyshelf/internal/usecase/health"
	tagsuc "github.com/studyshelf/studyshelf/internal/usecase/tags"
	viewuc "github.com/studyshelf/studyshelf/internal/usecase/view"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server wires the usecase services to HTTP handlers.
type Server struct {
	auth          *authuc.Service
	documents     *documentuc.Service
	tags          *tagsuc.Service
	views         *viewuc.Registry
	health        *healthuc.Service
	logger        *zap.Logger
	maxPageSize   int
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	auth *authuc.Service,
	documents *documentuc.Service,
	tags *tagsuc.Service,
	views *viewuc.Registry,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		auth:      auth,
		documents: documents,
		tags:      tags,
		views:     views,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		validationHandler,
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, codeDocumentNotFound),
		sentinelHandler(domain.ErrInvalidCredentials, http.StatusUnauthorized, codeInvalidCredentials),
		sentinelHandler(domain.ErrEmailTaken, http.StatusConflict, codeEmailTaken),
		sentinelHandler(domain.ErrWeakPassword, http.StatusBadRequest, codeWeakPassword),
		sentinelHandler(domain.ErrUnauthorized, http.StatusUnauthorized, codeUnauthorized),
	}
	return s
}

// WithMaxPageSize caps the page size a client may request. Zero disables
// the cap.
func (s *Server) WithMaxPageSize(max int) *Server {
	s.maxPageSize = max
	return s
}

// Routes mounts every handler on a fresh router. Authentication is applied
// by the caller so tests can mount the routes bare.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/user/signup", s.handleSignup)
		r.Post("/user/login", s.handleLogin)

		r.Route("/materials", func(r chi.Router) {
			r.Get("/", s.handleListDocuments)
			r.Post("/", s.handleCreateDocument)
			r.Get("/{id}", s.handleGetDocument)
			r.Patch("/{id}", s.handleUpdateDocument)
			r.Delete("/{id}", s.handleDeleteDocument)
		})

		r.Route("/view", func(r chi.Router) {
			r.Get("/", s.handleViewSnapshot)
			r.Post("/filter", s.handleViewFilter)
			r.Post("/global", s.handleViewGlobalFilter)
			r.Post("/sort", s.handleViewSort)
			r.Post("/page", s.handleViewPage)
			r.Post("/reset", s.handleViewReset)
		})

		r.Get("/tags", s.handleTags)
	})

	return r
}

// --- Auth ---

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}

	sess, err := s.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{
		UserID: sess.UserID, Email: sess.Email, Token: sess.Token,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}

	sess, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		UserID: sess.UserID, Email: sess.Email, Token: sess.Token,
	})
}

// --- Documents ---

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.owner(w, r)
	if !ok {
		return
	}

	docs, err := s.documents.ListByOwner(r.Context(), ownerID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]documentResponse, len(docs))
	for i := range docs {
		items[i] = documentToResponse(&docs[i])
	}
	writeJSON(w, http.StatusOK, documentListResponse{Items: items, Total: len(items)})
}

func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.owner(w, r)
	if !ok {
		return
	}

	var req documentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}

	doc, err := s.documents.Create(r.Context(), ownerID, domdoc.Fields{
		Title: req.Title, Content: req.Content, Tags: req.Tags,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	s.views.For(ownerID).ApplyCreate(doc)
	for _, tag := range doc.Tags() {
		s.tags.RecordUsed(r.Context(), ownerID, tag)
	}

	writeJSON(w, http.StatusCreated, documentToResponse(&doc))
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.owner(w, r)
	if !ok {
		return
	}

	doc, err := s.documents.Get(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, documentToResponse(&doc))
}

func (s *Server) handleUpdateDocument(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.owner(w, r)
	if !ok {
		return
	}

	var req documentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}

	doc, err := s.documents.Update(r.Context(), ownerID, chi.URLParam(r, "id"), domdoc.Fields{
		Title: req.Title, Content: req.Content, Tags: req.Tags,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	s.views.For(ownerID).ApplyUpdate(doc)
	for _, tag := range doc.Tags() {
		s.tags.RecordUsed(r.Context(), ownerID, tag)
	}

	writeJSON(w, http.StatusOK, documentToResponse(&doc))
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.owner(w, r)
	if !ok {
		return
	}

	doc, err := s.documents.Delete(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	s.views.For(ownerID).ApplyDelete(doc.ID())

	writeJSON(w, http.StatusOK, documentToResponse(&doc))
}

// --- Table view session ---

func (s *Server) handleViewSnapshot(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.view(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snapshotToResponse(ctrl.Snapshot()))
}

func (s *Server) handleViewFilter(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.view(w, r)
	if !ok {
		return
	}

	var req filterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}
	col := domview.Column(req.Column)
	if !col.Filterable() {
		writeError(w, http.StatusBadRequest, codeBadRequest, "column is not filterable")
		return
	}
	arg, err := argumentFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	if req.Debounce {
		ctrl.SetFilterDebounced(col, arg)
	} else {
		ctrl.SetFilter(col, arg)
	}
	writeJSON(w, http.StatusOK, snapshotToResponse(ctrl.Snapshot()))
}

func (s *Server) handleViewGlobalFilter(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.view(w, r)
	if !ok {
		return
	}

	var req globalFilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}

	if req.Debounce {
		ctrl.SetGlobalFilterDebounced(req.Query)
	} else {
		ctrl.SetGlobalFilter(req.Query)
	}
	writeJSON(w, http.StatusOK, snapshotToResponse(ctrl.Snapshot()))
}

func (s *Server) handleViewSort(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.view(w, r)
	if !ok {
		return
	}

	var req sortRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}
	col := domview.Column(req.Column)
	if !col.Sortable() {
		writeError(w, http.StatusBadRequest, codeBadRequest, "column is not sortable")
		return
	}

	ctrl.ToggleSort(col)
	writeJSON(w, http.StatusOK, snapshotToResponse(ctrl.Snapshot()))
}

func (s *Server) handleViewPage(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.view(w, r)
	if !ok {
		return
	}

	var req pageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}

	switch req.Action {
	case "next":
		ctrl.NextPage()
	case "previous":
		ctrl.PreviousPage()
	case "first":
		ctrl.FirstPage()
	case "last":
		ctrl.LastPage()
	case "goto":
		ctrl.GoToPage(req.Index)
	case "size":
		size := req.Size
		if s.maxPageSize > 0 && size > s.maxPageSize {
			size = s.maxPageSize
		}
		ctrl.SetPageSize(size)
	default:
		writeError(w, http.StatusBadRequest, codeBadRequest, "unknown page action")
		return
	}
	writeJSON(w, http.StatusOK, snapshotToResponse(ctrl.Snapshot()))
}

func (s *Server) handleViewReset(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := s.view(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, resetResponse{Message: ctrl.Reset()})
}

// --- Tags ---

func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.owner(w, r)
	if !ok {
		return
	}

	tags := s.tags.Tags(r.Context(), ownerID)
	if tags == nil {
		tags = []string{}
	}
	writeJSON(w, http.StatusOK, tagsResponse{Tags: tags})
}

// --- Health ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// --- Helpers ---

// owner extracts the authenticated owner ID set by the auth middleware.
func (s *Server) owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	ownerID := OwnerIDFromContext(r.Context())
	if ownerID == "" {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, domain.ErrUnauthorized.Error())
		return "", false
	}
	return ownerID, true
}

// view returns the owner's view controller, loading it on first use.
func (s *Server) view(w http.ResponseWriter, r *http.Request) (*viewuc.Controller, bool) {
	ownerID, ok := s.owner(w, r)
	if !ok {
		return nil, false
	}
	ctrl := s.views.For(ownerID)
	if snap := ctrl.Snapshot(); snap.State == viewuc.StateIdle || snap.State == viewuc.StateError {
		if err := ctrl.Load(r.Context()); err != nil {
			s.handleDomainError(w, err)
			return nil, false
		}
	}
	return ctrl, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrDocumentNotFound,
		domain.ErrValidation,
		domain.ErrInvalidCredentials,
		domain.ErrEmailTaken,
		domain.ErrWeakPassword,
		domain.ErrUnauthorized,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// validationHandler handles ValidationError with the offending field names.
func validationHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrValidation) {
		return false
	}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Code:        codeValidationFailed,
			Message:     msg,
			EmptyFields: verr.Fields,
		})
		return true
	}
	writeError(w, http.StatusBadRequest, codeValidationFailed, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
