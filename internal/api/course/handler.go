package course

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/futig/course-backend/internal/entity"
	"github.com/futig/course-backend/internal/pkg/logger"
	"github.com/futig/course-backend/internal/pkg/response"
	"github.com/futig/course-backend/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase CourseUsecase
}

func NewHandler(usecase CourseUsecase) *Handler {
	return &Handler{
		usecase: usecase,
	}
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, entity.HealthResponse{
		Status:               "healthy",
		CredentialConfigured: h.usecase.HasCredential(),
	})
}

// SetCredential handles PUT /credentials - Set the model API key at runtime
func (h *Handler) SetCredential(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "SetCredential")

	var req entity.SetCredentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.usecase.SetCredential(ctx, req.APIKey); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.NoContent(w)
}

// StartSession handles POST /sessions - Start new session
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "StartSession")

	s, err := h.usecase.StartSession(ctx)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, entity.CreateSessionResponse{
		ID:             s.ID,
		Status:         s.Status(),
		HistoryEntries: len(s.History()),
	})
}

// GetSession handles GET /sessions/{id} - Get session state
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, s, ok := h.loadSession(w, r, "GetSession")
	if !ok {
		return
	}

	ctxzap.Debug(ctx, "session fetched")
	h.respondJSON(w, http.StatusOK, s.ToDTO())
}

// EndSession handles DELETE /sessions/{id} - Drop session state
func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "EndSession"),
	)

	if err := h.usecase.EndSession(ctx, sessionID); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.NoContent(w)
}

// GenerateOutline handles POST /sessions/{id}/outline - Generate course outline
func (h *Handler) GenerateOutline(w http.ResponseWriter, r *http.Request) {
	ctx, s, ok := h.loadSession(w, r, "GenerateOutline")
	if !ok {
		return
	}

	var spec entity.CourseSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	outline, err := h.usecase.GenerateOutline(ctx, s, spec)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	resp := entity.OutlineResponse{
		SessionID: s.ID,
		Status:    s.Status(),
		Outline:   outline,
	}
	if a, ok := s.Artifact(session.KeyPlanArtifact); ok {
		resp.Artifact = a
	}
	h.respondJSON(w, http.StatusOK, resp)
}

// GenerateCourse handles POST /sessions/{id}/course - Generate chapters, quizzes and the document
func (h *Handler) GenerateCourse(w http.ResponseWriter, r *http.Request) {
	ctx, s, ok := h.loadSession(w, r, "GenerateCourse")
	if !ok {
		return
	}

	doc, err := h.usecase.GenerateCourse(ctx, s)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	resp := entity.GenerateCourseResponse{
		SessionID: s.ID,
		Status:    s.Status(),
		Chapters:  doc.Chapters,
		Artifacts: []entity.Artifact{},
	}
	for _, key := range []string{session.KeyPlanArtifact, session.KeyCourseArtifact} {
		if a, ok := s.Artifact(key); ok {
			resp.Artifacts = append(resp.Artifacts, *a)
		}
	}
	h.respondJSON(w, http.StatusOK, resp)
}

// ResetCourse handles POST /sessions/{id}/reset - Start a new course in the same session
func (h *Handler) ResetCourse(w http.ResponseWriter, r *http.Request) {
	ctx, s, ok := h.loadSession(w, r, "ResetCourse")
	if !ok {
		return
	}

	if err := h.usecase.ResetCourse(ctx, s); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, s.ToDTO())
}

// Export handles GET /sessions/{id}/export/{target}?format=&chapter= - Download an artifact
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	ctx, s, ok := h.loadSession(w, r, "Export")
	if !ok {
		return
	}

	target := entity.ExportTarget(chi.URLParam(r, "target"))
	format := entity.ResultFormat(r.URL.Query().Get("format"))

	var chapter int
	if raw := r.URL.Query().Get("chapter"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.respondError(ctx, w, http.StatusBadRequest, "chapter must be a number", err)
			return
		}
		chapter = n
	}

	artifact, err := h.usecase.Export(ctx, s, target, format, chapter)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "artifact sent", zap.String("name", artifact.Name))
	response.Attachment(w, artifact)
}

// GetHistory handles GET /history
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GetHistory")

	messages, err := h.usecase.History(ctx)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, entity.HistoryResponse{Messages: messages})
}

// DeleteHistory handles DELETE /history
func (h *Handler) DeleteHistory(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "DeleteHistory")

	if err := h.usecase.DeleteHistory(ctx); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.NoContent(w)
}

func (h *Handler) loadSession(w http.ResponseWriter, r *http.Request, action string) (context.Context, *session.Session, bool) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", action),
	)

	s, err := h.usecase.GetSession(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return ctx, nil, false
	}
	return ctx, s, true
}

// Helper methods
func (h *Handler) respondJSON(w http.ResponseWriter, status int, data any) {
	response.JSON(w, status, data)
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	ctxzap.Error(ctx, message, zap.Error(err))
	if status < http.StatusInternalServerError {
		message += ": " + err.Error()
	}
	response.Error(w, status, entity.ErrorResponse{
		Message: message,
	})
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	var genErr *entity.GenerationError

	switch {
	case errors.Is(err, entity.ErrMissingCredential):
		h.respondError(ctx, w, http.StatusServiceUnavailable, "model credential is not configured", err)
	case errors.Is(err, entity.ErrMalformedOutline):
		h.respondError(ctx, w, http.StatusUnprocessableEntity, "outline has no chapters", err)
	case errors.As(err, &genErr):
		ctxzap.Error(ctx, "generation failed", zap.String("stage", string(genErr.Stage)), zap.Error(err))
		response.Error(w, http.StatusBadGateway, entity.ErrorResponse{
			Message: err.Error(),
			Stage:   string(genErr.Stage),
			Chapter: genErr.ChapterIndex,
		})
	case errors.Is(err, entity.ErrGenerationFailed):
		h.respondError(ctx, w, http.StatusBadGateway, "generation failed", err)
	case errors.Is(err, entity.ErrSessionNotFound) || errors.Is(err, entity.ErrNoArtifact):
		h.respondError(ctx, w, http.StatusNotFound, "resource not found", err)
	case errors.Is(err, entity.ErrInvalidParameter) || errors.Is(err, entity.ErrInvalidFormat) || errors.Is(err, entity.ErrMissingField):
		h.respondError(ctx, w, http.StatusBadRequest, "invalid parameter", err)
	case errors.Is(err, entity.ErrInvalidTransition) || errors.Is(err, entity.ErrPipelineBusy):
		h.respondError(ctx, w, http.StatusConflict, "invalid pipeline state", err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
