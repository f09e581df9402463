package course

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/futig/course-backend/internal/entity"
	"github.com/futig/course-backend/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUsecase struct {
	mock.Mock
}

func (m *mockUsecase) StartSession(ctx context.Context) (*session.Session, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(*session.Session)
	return s, args.Error(1)
}

func (m *mockUsecase) GetSession(ctx context.Context, id string) (*session.Session, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*session.Session)
	return s, args.Error(1)
}

func (m *mockUsecase) EndSession(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUsecase) GenerateOutline(ctx context.Context, s *session.Session, spec entity.CourseSpec) (*entity.CourseOutline, error) {
	args := m.Called(ctx, s, spec)
	o, _ := args.Get(0).(*entity.CourseOutline)
	return o, args.Error(1)
}

func (m *mockUsecase) GenerateCourse(ctx context.Context, s *session.Session) (*entity.CourseDocument, error) {
	args := m.Called(ctx, s)
	d, _ := args.Get(0).(*entity.CourseDocument)
	return d, args.Error(1)
}

func (m *mockUsecase) ResetCourse(ctx context.Context, s *session.Session) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockUsecase) Export(ctx context.Context, s *session.Session, target entity.ExportTarget, format entity.ResultFormat, chapter int) (*entity.Artifact, error) {
	args := m.Called(ctx, s, target, format, chapter)
	a, _ := args.Get(0).(*entity.Artifact)
	return a, args.Error(1)
}

func (m *mockUsecase) History(ctx context.Context) ([]entity.Message, error) {
	args := m.Called(ctx)
	msgs, _ := args.Get(0).([]entity.Message)
	return msgs, args.Error(1)
}

func (m *mockUsecase) DeleteHistory(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockUsecase) SetCredential(ctx context.Context, apiKey string) error {
	return m.Called(ctx, apiKey).Error(0)
}

func (m *mockUsecase) HasCredential() bool {
	return m.Called().Bool(0)
}

func newTestRouter(uc *mockUsecase) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(uc))
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) entity.ErrorResponse {
	t.Helper()
	var resp entity.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestHealth(t *testing.T) {
	uc := &mockUsecase{}
	uc.On("HasCredential").Return(false)

	rec := do(t, newTestRouter(uc), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp entity.HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.False(t, resp.CredentialConfigured)
}

func TestStartSession(t *testing.T) {
	uc := &mockUsecase{}
	s := session.New("s1", entity.PipelineModePlan, []entity.Message{{Role: entity.RoleUser, Content: "hi"}})
	uc.On("StartSession", mock.Anything).Return(s, nil)

	rec := do(t, newTestRouter(uc), http.MethodPost, "/sessions", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp entity.CreateSessionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "s1", resp.ID)
	assert.Equal(t, entity.PipelineStatusIdle, resp.Status)
	assert.Equal(t, 1, resp.HistoryEntries)
}

func TestGetSession_NotFound(t *testing.T) {
	uc := &mockUsecase{}
	uc.On("GetSession", mock.Anything, "missing").Return(nil, fmt.Errorf("%w: missing", entity.ErrSessionNotFound))

	rec := do(t, newTestRouter(uc), http.MethodGet, "/sessions/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGenerateOutline_Success(t *testing.T) {
	uc := &mockUsecase{}
	s := session.New("s1", entity.PipelineModePlan, nil)
	spec := entity.CourseSpec{Title: "Intro to SQL", Audience: "Developers", Duration: "10h", ChapterCount: 2}
	outline := &entity.CourseOutline{Text: "Chapitre 1: A", ChapterTitles: []string{"Chapitre 1: A"}}

	uc.On("GetSession", mock.Anything, "s1").Return(s, nil)
	uc.On("GenerateOutline", mock.Anything, s, spec).Return(outline, nil)

	body := `{"title":"Intro to SQL","audience":"Developers","duration":"10h","chapter_count":2}`
	rec := do(t, newTestRouter(uc), http.MethodPost, "/sessions/s1/outline", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp entity.OutlineResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, []string{"Chapitre 1: A"}, resp.Outline.ChapterTitles)
	uc.AssertExpectations(t)
}

func TestGenerateOutline_BadBody(t *testing.T) {
	uc := &mockUsecase{}
	uc.On("GetSession", mock.Anything, "s1").Return(session.New("s1", entity.PipelineModePlan, nil), nil)

	rec := do(t, newTestRouter(uc), http.MethodPost, "/sessions/s1/outline", "{")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	uc.AssertNotCalled(t, "GenerateOutline", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateCourse_ErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantStage   string
		wantChapter int
	}{
		{
			name: "quiz failure",
			err: &entity.GenerationError{
				Stage:        entity.StageQuiz,
				ChapterIndex: 1,
				ChapterTitle: "Chapitre 1: Basics",
				Err:          fmt.Errorf("%w: status 500", entity.ErrGenerationFailed),
			},
			wantStatus:  http.StatusBadGateway,
			wantStage:   "quiz",
			wantChapter: 1,
		},
		{
			name:       "missing credential",
			err:        &entity.GenerationError{Stage: entity.StageChapter, ChapterIndex: 1, Err: entity.ErrMissingCredential},
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "malformed outline",
			err:        entity.ErrMalformedOutline,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "busy",
			err:        entity.ErrPipelineBusy,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "wrong state",
			err:        fmt.Errorf("%w: IDLE", entity.ErrInvalidTransition),
			wantStatus: http.StatusConflict,
		},
		{
			name:       "unexpected",
			err:        fmt.Errorf("disk full"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUsecase{}
			s := session.New("s1", entity.PipelineModePlan, nil)
			uc.On("GetSession", mock.Anything, "s1").Return(s, nil)
			uc.On("GenerateCourse", mock.Anything, s).Return(nil, tt.err)

			rec := do(t, newTestRouter(uc), http.MethodPost, "/sessions/s1/course", "")
			require.Equal(t, tt.wantStatus, rec.Code)

			resp := decodeError(t, rec)
			assert.Equal(t, http.StatusText(tt.wantStatus), resp.Error)
			assert.Equal(t, tt.wantStage, resp.Stage)
			assert.Equal(t, tt.wantChapter, resp.Chapter)
		})
	}
}

func TestGenerateCourse_Success(t *testing.T) {
	uc := &mockUsecase{}
	s := session.New("s1", entity.PipelineModePlan, nil)
	s.State.Set(session.KeyCourseArtifact, &entity.Artifact{Name: "Intro_to_SQL.pdf"})
	doc := &entity.CourseDocument{Title: "Intro to SQL", Chapters: []entity.Chapter{{Index: 1, Title: "Chapitre 1: A"}}}

	uc.On("GetSession", mock.Anything, "s1").Return(s, nil)
	uc.On("GenerateCourse", mock.Anything, s).Return(doc, nil)

	rec := do(t, newTestRouter(uc), http.MethodPost, "/sessions/s1/course", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp entity.GenerateCourseResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Artifacts, 1)
	assert.Equal(t, "Intro_to_SQL.pdf", resp.Artifacts[0].Name)
	assert.Len(t, resp.Chapters, 1)
}

func TestExport(t *testing.T) {
	uc := &mockUsecase{}
	s := session.New("s1", entity.PipelineModePlan, nil)
	artifact := &entity.Artifact{Name: "Chapitre_2.md", ContentType: "text/markdown; charset=utf-8", Data: []byte("# Chapitre 2")}

	uc.On("GetSession", mock.Anything, "s1").Return(s, nil)
	uc.On("Export", mock.Anything, s, entity.ExportChapter, entity.FormatMarkdown, 2).Return(artifact, nil)

	rec := do(t, newTestRouter(uc), http.MethodGet, "/sessions/s1/export/chapter?format=md&chapter=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/markdown; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Chapitre_2.md"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "# Chapitre 2", rec.Body.String())
}

func TestExport_BadChapter(t *testing.T) {
	uc := &mockUsecase{}
	uc.On("GetSession", mock.Anything, "s1").Return(session.New("s1", entity.PipelineModePlan, nil), nil)

	rec := do(t, newTestRouter(uc), http.MethodGet, "/sessions/s1/export/chapter?chapter=two", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExport_NotAvailable(t *testing.T) {
	uc := &mockUsecase{}
	s := session.New("s1", entity.PipelineModePlan, nil)
	uc.On("GetSession", mock.Anything, "s1").Return(s, nil)
	uc.On("Export", mock.Anything, s, entity.ExportCourse, entity.ResultFormat(""), 0).Return(nil, entity.ErrNoArtifact)

	rec := do(t, newTestRouter(uc), http.MethodGet, "/sessions/s1/export/course", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetCredential(t *testing.T) {
	uc := &mockUsecase{}
	uc.On("SetCredential", mock.Anything, "sk-test").Return(nil)

	rec := do(t, newTestRouter(uc), http.MethodPut, "/credentials", `{"api_key":"sk-test"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	uc.AssertExpectations(t)
}

func TestSetCredential_Empty(t *testing.T) {
	uc := &mockUsecase{}
	uc.On("SetCredential", mock.Anything, "").Return(fmt.Errorf("%w: api_key", entity.ErrMissingField))

	rec := do(t, newTestRouter(uc), http.MethodPut, "/credentials", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistory(t *testing.T) {
	uc := &mockUsecase{}
	uc.On("History", mock.Anything).Return([]entity.Message{{Role: entity.RoleAssistant, Content: "outline"}}, nil)
	uc.On("DeleteHistory", mock.Anything).Return(nil)
	router := newTestRouter(uc)

	rec := do(t, router, http.MethodGet, "/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp entity.HistoryResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Messages, 1)

	rec = do(t, router, http.MethodDelete, "/history", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestEndSession(t *testing.T) {
	uc := &mockUsecase{}
	uc.On("EndSession", mock.Anything, "s1").Return(nil)

	rec := do(t, newTestRouter(uc), http.MethodDelete, "/sessions/s1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestResetCourse(t *testing.T) {
	uc := &mockUsecase{}
	s := session.New("s1", entity.PipelineModePlan, nil)
	uc.On("GetSession", mock.Anything, "s1").Return(s, nil)
	uc.On("ResetCourse", mock.Anything, s).Return(nil)

	rec := do(t, newTestRouter(uc), http.MethodPost, "/sessions/s1/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var dto entity.SessionDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&dto))
	assert.Equal(t, entity.PipelineStatusIdle, dto.Status)
}
