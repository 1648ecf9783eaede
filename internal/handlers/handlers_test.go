package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/career-guide/internal/models"
	"alfredoptarigan/career-guide/internal/repositories"
	"alfredoptarigan/career-guide/internal/services"
)

type fakeDocs struct {
	mu   sync.Mutex
	docs map[uuid.UUID]*models.Document
}

func (f *fakeDocs) Create(d *models.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[d.ID] = d
	return nil
}

func (f *fakeDocs) FindByID(id uuid.UUID) (*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d, ok := f.docs[id]; ok {
		return d, nil
	}
	return nil, repositories.ErrNotFound
}

type fakeAnalyses struct {
	mu       sync.Mutex
	analyses map[uuid.UUID]*models.Analysis
}

func (f *fakeAnalyses) Create(a *models.Analysis) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.analyses[a.ID] = a
	return nil
}

func (f *fakeAnalyses) FindByID(id uuid.UUID) (*models.Analysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.analyses[id]; ok {
		return a, nil
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeAnalyses) LatestForDocument(docID uuid.UUID) (*models.Analysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *models.Analysis
	for _, a := range f.analyses {
		if a.DocumentID == docID && (latest == nil || a.CreatedAt.After(latest.CreatedAt)) {
			latest = a
		}
	}
	if latest == nil {
		return nil, repositories.ErrNotFound
	}
	return latest, nil
}

func (f *fakeAnalyses) Claim(uuid.UUID) (bool, error) { return true, nil }
func (f *fakeAnalyses) UpdateResult(uuid.UUID, *models.AnalysisResult) error { return nil }
func (f *fakeAnalyses) UpdateError(uuid.UUID, string) error { return nil }
func (f *fakeAnalyses) FindPendingJobs(int) ([]models.Analysis, error) { return nil, nil }

type fakeRoles struct {
	roles []models.JobRole
}

func (f *fakeRoles) List() ([]models.JobRole, error) { return f.roles, nil }

func (f *fakeRoles) FindByID(id uuid.UUID) (*models.JobRole, error) {
	for i := range f.roles {
		if f.roles[i].ID == id {
			return &f.roles[i], nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeRoles) Create(r *models.JobRole) error {
	f.roles = append(f.roles, *r)
	return nil
}

func (f *fakeRoles) Update(r *models.JobRole) error {
	for i := range f.roles {
		if f.roles[i].ID == r.ID {
			f.roles[i] = *r
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeRoles) EnsureDefaultRoles() (int, error) { return 0, nil }

type fakeInvalidator struct {
	invalidated []uuid.UUID
}

func (f *fakeInvalidator) Invalidate(_ context.Context, roleID uuid.UUID) error {
	f.invalidated = append(f.invalidated, roleID)
	return nil
}

type fakeWorker struct {
	mu       sync.Mutex
	enqueued []uuid.UUID
}

func (w *fakeWorker) Start(_ context.Context) {}
func (w *fakeWorker) Stop() {}
func (w *fakeWorker) EnqueueJob(id uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.enqueued = append(w.enqueued, id)
}

type stubProvider struct{}

func (stubProvider) Embed(context.Context, string) ([]float32, error) { return []float32{1, 0}, nil }

type testEnv struct {
	app      *fiber.App
	docs     *fakeDocs
	analyses *fakeAnalyses
	roles    *fakeRoles
	worker   *fakeWorker
	cache    *fakeInvalidator
}

func newTestEnv(t *testing.T, provider services.EmbeddingProvider) *testEnv {
	t.Helper()

	env := &testEnv{
		docs:     &fakeDocs{docs: map[uuid.UUID]*models.Document{}},
		analyses: &fakeAnalyses{analyses: map[uuid.UUID]*models.Analysis{}},
		roles:    &fakeRoles{roles: []models.JobRole{{ID: uuid.New(), Title: "Platform Engineer", Description: "Infra", RequiredSkills: []string{"Go", "Kubernetes"}}}},
		worker:   &fakeWorker{},
		cache:    &fakeInvalidator{},
	}

	validate := validator.New()
	storage := services.NewStorageService(t.TempDir(), 1<<20)
	matcher := services.NewJobMatcher(provider, nil, services.NewSkillMatcher(), services.DefaultMatcherConfig(), nil)

	resumeHandler := NewResumeHandler(env.docs, env.analyses, storage, env.worker, nil)
	analysisHandler := NewAnalysisHandler(env.analyses)
	matchHandler := NewMatchHandler(env.analyses, env.roles, matcher, validate, nil)
	roleHandler := NewRoleHandler(env.roles, env.cache, validate, nil)

	app := fiber.New()
	api := app.Group("/api/v1")
	api.Post("/resumes", resumeHandler.HandleUpload)
	api.Post("/resumes/:id/reanalyze", resumeHandler.HandleReanalyze)
	api.Get("/analyses/:id", analysisHandler.HandleGetAnalysis)
	api.Post("/analyses/:id/matches", matchHandler.HandleMatch)
	api.Get("/roles", roleHandler.HandleList)
	api.Post("/roles", roleHandler.HandleCreate)
	api.Put("/roles/:id", roleHandler.HandleUpdate)
	env.app = app

	return env
}

func uploadRequest(t *testing.T, filename, skills string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("resume", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte("content"))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("required_skills", skills))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, v), string(raw))
}

func completedAnalysis(t *testing.T, env *testEnv) uuid.UUID {
	t.Helper()

	encoded, err := models.EncodeResult(&models.AnalysisResult{ExtractedSkills: []string{"Go"}, OverallScore: 55})
	require.NoError(t, err)

	a := &models.Analysis{ID: uuid.New(), DocumentID: uuid.New(), Status: models.StatusCompleted, Result: encoded}
	require.NoError(t, env.analyses.Create(a))
	return a.ID
}

func TestUpload_QueuesAnalysis(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, err := env.app.Test(uploadRequest(t, "resume.docx", "Go, SQL,"))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	var out models.UploadResponse
	decode(t, resp, &out)
	assert.Equal(t, "docx", out.Format)
	assert.Equal(t, "queued", out.Status)

	id := uuid.MustParse(out.AnalysisID)
	assert.Equal(t, []uuid.UUID{id}, env.worker.enqueued)
	analysis, err := env.analyses.FindByID(id)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "SQL"}, analysis.RequiredSkills)
}

func TestUpload_RejectsUnsupportedFormat(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, err := env.app.Test(uploadRequest(t, "resume.txt", ""))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, env.worker.enqueued)
}

func TestReanalyze_ReusesPreviousSkills(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, err := env.app.Test(uploadRequest(t, "resume.pdf", "Go"))
	require.NoError(t, err)
	var first models.UploadResponse
	decode(t, resp, &first)

	resp, err = env.app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/resumes/"+first.DocumentID+"/reanalyze", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	var second models.UploadResponse
	decode(t, resp, &second)
	assert.NotEqual(t, first.AnalysisID, second.AnalysisID)

	analysis, err := env.analyses.FindByID(uuid.MustParse(second.AnalysisID))
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, analysis.RequiredSkills)
	assert.Len(t, env.worker.enqueued, 2)
}

func TestReanalyze_UnknownDocument(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, err := env.app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/resumes/"+uuid.NewString()+"/reanalyze", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetAnalysis(t *testing.T) {
	env := newTestEnv(t, nil)
	id := completedAnalysis(t, env)

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+id.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out models.AnalysisResponse
	decode(t, resp, &out)
	require.NotNil(t, out.Result)
	assert.Equal(t, 55, out.Result.OverallScore)

	resp, err = env.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/analyses/not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = env.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+uuid.NewString(), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestMatch_UnavailableProviderReturns503(t *testing.T) {
	env := newTestEnv(t, nil)
	id := completedAnalysis(t, env)

	resp, err := env.app.Test(jsonRequest(http.MethodPost, "/api/v1/analyses/"+id.String()+"/matches", ""))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestMatch_ReturnsRankedRoles(t *testing.T) {
	env := newTestEnv(t, stubProvider{})
	id := completedAnalysis(t, env)

	resp, err := env.app.Test(jsonRequest(http.MethodPost, "/api/v1/analyses/"+id.String()+"/matches", `{"limit": 2}`))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out models.MatchResponse
	decode(t, resp, &out)
	require.Len(t, out.Matches, 1)
	assert.Equal(t, "Platform Engineer", out.Matches[0].Title)
	assert.Equal(t, 100.0, out.Matches[0].MatchScore)
	assert.Equal(t, []string{"Go"}, out.Matches[0].MatchedSkills)
	assert.Equal(t, []string{"Kubernetes"}, out.Matches[0].MissingSkills)
}

func TestMatch_RejectsIncompleteAndInvalidRequests(t *testing.T) {
	env := newTestEnv(t, stubProvider{})
	queued := &models.Analysis{ID: uuid.New(), Status: models.StatusQueued}
	require.NoError(t, env.analyses.Create(queued))

	resp, err := env.app.Test(jsonRequest(http.MethodPost, "/api/v1/analyses/"+queued.ID.String()+"/matches", ""))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	id := completedAnalysis(t, env)
	resp, err = env.app.Test(jsonRequest(http.MethodPost, "/api/v1/analyses/"+id.String()+"/matches", `{"limit": 500}`))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRoles_CreateAndList(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, err := env.app.Test(jsonRequest(http.MethodPost, "/api/v1/roles", `{"title": "SRE", "description": "Reliability", "required_skills": ["Linux", "linux", "Go"]}`))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created models.JobRole
	decode(t, resp, &created)
	assert.Equal(t, []string{"Linux", "Go"}, created.RequiredSkills)

	resp, err = env.app.Test(jsonRequest(http.MethodPost, "/api/v1/roles", `{"title": "", "description": "x", "required_skills": []}`))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = env.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/roles", nil))
	require.NoError(t, err)
	var listed struct {
		Roles []models.JobRole `json:"roles"`
	}
	decode(t, resp, &listed)
	assert.Len(t, listed.Roles, 2)
}

func TestRoles_UpdateInvalidatesEmbedding(t *testing.T) {
	env := newTestEnv(t, nil)
	roleID := env.roles.roles[0].ID

	resp, err := env.app.Test(jsonRequest(http.MethodPut, "/api/v1/roles/"+roleID.String(), `{"title": "Platform Engineer", "description": "Infra and CI", "required_skills": ["Go", "Terraform"]}`))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated models.JobRole
	decode(t, resp, &updated)
	assert.Equal(t, "Infra and CI", updated.Description)
	assert.Equal(t, []string{"Go", "Terraform"}, env.roles.roles[0].RequiredSkills)
	assert.Equal(t, []uuid.UUID{roleID}, env.cache.invalidated)

	resp, err = env.app.Test(jsonRequest(http.MethodPut, "/api/v1/roles/"+uuid.NewString(), `{"title": "X", "description": "Y", "required_skills": ["Go"]}`))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Len(t, env.cache.invalidated, 1)
}
