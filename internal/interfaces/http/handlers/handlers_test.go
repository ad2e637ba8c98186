package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	projectusecases "karnex/internal/application/project/usecases"
	quotausecases "karnex/internal/application/quota/usecases"
	"karnex/internal/interfaces/http/handlers/testutil"
	"karnex/internal/shared/errors"
	"karnex/internal/shared/logger"
	"karnex/internal/shared/utils"
)

type stubSnapshotter struct {
	snapshot *quotausecases.UsageSnapshot
	err      error
}

func (s stubSnapshotter) Snapshot(context.Context, uint) (*quotausecases.UsageSnapshot, error) {
	return s.snapshot, s.err
}

func TestUsageHandler_GetUsage(t *testing.T) {
	h := NewUsageHandler(stubSnapshotter{snapshot: &quotausecases.UsageSnapshot{
		UserID:   9,
		PlanTier: "free",
		AICalls:  quotausecases.UsageLine{Used: 10, Limit: 5000, Remaining: 4990},
	}}, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/api/usage", nil)
	testutil.SetAuthContext(c, 9)
	h.GetUsage(c)

	require.Equal(t, http.StatusOK, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.True(t, resp.Success)

	var snap quotausecases.UsageSnapshot
	require.NoError(t, json.Unmarshal(resp.Data, &snap))
	assert.Equal(t, int64(4990), snap.AICalls.Remaining)
}

func TestUsageHandler_StorageError(t *testing.T) {
	h := NewUsageHandler(stubSnapshotter{
		err: errors.NewPersistenceUnavailableError("load usage", assert.AnError),
	}, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/api/usage", nil)
	testutil.SetAuthContext(c, 9)
	h.GetUsage(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

type stubCreateProject struct {
	got projectusecases.CreateProjectCommand
	err error
}

func (s *stubCreateProject) Execute(_ context.Context, cmd projectusecases.CreateProjectCommand) (*projectusecases.ProjectResult, error) {
	s.got = cmd
	if s.err != nil {
		return nil, s.err
	}
	return &projectusecases.ProjectResult{ID: 1, Name: cmd.Name}, nil
}

type stubListProjects struct{}

func (stubListProjects) Execute(context.Context, uint) ([]*projectusecases.ProjectResult, error) {
	return []*projectusecases.ProjectResult{{ID: 2, Name: "b"}, {ID: 1, Name: "a"}}, nil
}

func TestProjectHandler_Create(t *testing.T) {
	create := &stubCreateProject{}
	h := NewProjectHandler(create, stubListProjects{}, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodPost, "/api/projects", map[string]string{"name": "Cafe", "idea": "books"})
	testutil.SetAuthContext(c, 4)
	h.CreateProject(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, uint(4), create.got.UserID)
	assert.Equal(t, "books", create.got.Idea)
}

func TestProjectHandler_CreateErrors(t *testing.T) {
	t.Run("missing name", func(t *testing.T) {
		h := NewProjectHandler(&stubCreateProject{}, stubListProjects{}, logger.NewNopLogger())
		c, w := testutil.NewTestContext(http.MethodPost, "/api/projects", map[string]string{"idea": "x"})
		testutil.SetAuthContext(c, 4)
		h.CreateProject(c)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("validation error", func(t *testing.T) {
		create := &stubCreateProject{err: errors.NewValidationError("invalid project")}
		h := NewProjectHandler(create, stubListProjects{}, logger.NewNopLogger())
		c, w := testutil.NewTestContext(http.MethodPost, "/api/projects", map[string]string{"name": "x"})
		testutil.SetAuthContext(c, 4)
		h.CreateProject(c)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestProjectHandler_List(t *testing.T) {
	h := NewProjectHandler(&stubCreateProject{}, stubListProjects{}, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/api/projects", nil)
	testutil.SetAuthContext(c, 4)
	h.ListProjects(c)

	require.Equal(t, http.StatusOK, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var page utils.PageResponse[projectusecases.ProjectResult]
	require.NoError(t, json.Unmarshal(resp.Data, &page))
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, 1, page.TotalPages)
}

func TestProjectHandler_ListPaged(t *testing.T) {
	h := NewProjectHandler(&stubCreateProject{}, stubListProjects{}, logger.NewNopLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/api/projects?page=2&page_size=1", nil)
	testutil.SetAuthContext(c, 4)
	h.ListProjects(c)

	require.Equal(t, http.StatusOK, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var page utils.PageResponse[projectusecases.ProjectResult]
	require.NoError(t, json.Unmarshal(resp.Data, &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "a", page.Items[0].Name)
	assert.Equal(t, 2, page.TotalPages)
}

// proxyRequest carries a cancellable context so the reverse proxy does not
// fall back to CloseNotify on the recorder.
func proxyRequest(t *testing.T, method, target string, body io.Reader) *http.Request {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return httptest.NewRequest(method, target, body).WithContext(ctx)
}

func TestAIProxyHandler_ForwardsToUpstream(t *testing.T) {
	var gotPath, gotUser, gotAuth, gotBody string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser = r.Header.Get(UserHeader)
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"text":"سلام"}`))
	}))
	defer upstream.Close()

	h, err := NewAIProxyHandler(upstream.URL+"/v1", "/api/ai", time.Second, logger.NewNopLogger())
	require.NoError(t, err)

	r := gin.New()
	r.Any("/api/ai/*path", func(c *gin.Context) { testutil.SetAuthContext(c, 21) }, h.Proxy)

	req := proxyRequest(t, http.MethodPost, "/api/ai/completions", strings.NewReader(`{"prompt":"x"}`))
	req.Header.Set("Authorization", "Bearer secret")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/v1/completions", gotPath)
	assert.Equal(t, "21", gotUser)
	assert.Empty(t, gotAuth)
	assert.Equal(t, `{"prompt":"x"}`, gotBody)
	assert.JSONEq(t, `{"text":"سلام"}`, w.Body.String())
}

func TestAIProxyHandler_PropagatesUpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	h, err := NewAIProxyHandler(upstream.URL, "/api/ai", time.Second, logger.NewNopLogger())
	require.NoError(t, err)

	r := gin.New()
	r.Any("/api/ai/*path", h.Proxy)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, proxyRequest(t, http.MethodPost, "/api/ai/completions", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAIProxyHandler_UnreachableUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	addr := upstream.URL
	upstream.Close()

	h, err := NewAIProxyHandler(addr, "/api/ai", time.Second, logger.NewNopLogger())
	require.NoError(t, err)

	r := gin.New()
	r.Any("/api/ai/*path", h.Proxy)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, proxyRequest(t, http.MethodGet, "/api/ai/models", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestAIProxyHandler_NotConfigured(t *testing.T) {
	h, err := NewAIProxyHandler("", "/api/ai", time.Second, logger.NewNopLogger())
	require.NoError(t, err)

	c, w := testutil.NewTestContext(http.MethodPost, "/api/ai/completions", nil)
	h.Proxy(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	_, err = NewAIProxyHandler("not a url", "/api/ai", time.Second, logger.NewNopLogger())
	assert.Error(t, err)
}
