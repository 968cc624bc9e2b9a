package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"tastebase-backend/application/ports"
	"tastebase-backend/application/services"
	"tastebase-backend/pkg/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testWebhookSecret    = "webhook-secret"
	testAdminSecret      = "admin-secret"
	testRevalidateSecret = "revalidate-secret"
)

type recordingCache struct {
	mu     sync.Mutex
	paths  []string
	tags   []string
	failOn map[string]error
}

func newRecordingCache() *recordingCache {
	return &recordingCache{failOn: make(map[string]error)}
}

func (c *recordingCache) InvalidatePath(ctx context.Context, path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paths = append(c.paths, path)
	return c.failOn[path]
}

func (c *recordingCache) InvalidateTag(ctx context.Context, tag string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tags = append(c.tags, tag)
	return c.failOn[tag]
}

func (c *recordingCache) GetPage(ctx context.Context, path string) ([]byte, error) {
	return nil, ports.ErrNotCached
}

func (c *recordingCache) SetPage(ctx context.Context, path string, body []byte, tags []string, ttl time.Duration) error {
	return nil
}

func (c *recordingCache) invocations() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.paths) + len(c.tags)
}

func newTestHandler(cache ports.RenderCache) *RevalidationHandler {
	logger := zap.NewNop()
	return NewRevalidationHandler(
		services.NewRevalidationService(cache, nil, logger),
		auth.NewSecretVerifier(testWebhookSecret),
		auth.NewSecretVerifier(testAdminSecret),
		auth.NewSecretVerifier(testRevalidateSecret),
		logger,
	)
}

func postJSON(t *testing.T, handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRecipeWebhookRejectsBadSecret(t *testing.T) {
	cache := newRecordingCache()
	h := newTestHandler(cache)

	rec := postJSON(t, h.RecipeWebhook, "/api/webhooks/recipe",
		`{"action":"created","recipe_category":"Soups","webhook_secret":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, cache.invocations(), "a rejected request must never touch the cache")

	body := decodeBody(t, rec)
	assert.NotContains(t, body["message"], testWebhookSecret)
}

func TestRecipeWebhookFailsClosedWithoutConfiguredSecret(t *testing.T) {
	cache := newRecordingCache()
	logger := zap.NewNop()
	h := NewRevalidationHandler(
		services.NewRevalidationService(cache, nil, logger),
		auth.NewSecretVerifier(""),
		auth.NewSecretVerifier(""),
		auth.NewSecretVerifier(""),
		logger,
	)

	rec := postJSON(t, h.RecipeWebhook, "/api/webhooks/recipe",
		`{"action":"created","recipe_category":"Soups","webhook_secret":""}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, cache.invocations())
}

func TestRecipeWebhookRejectsUnknownAction(t *testing.T) {
	cache := newRecordingCache()
	h := newTestHandler(cache)

	rec := postJSON(t, h.RecipeWebhook, "/api/webhooks/recipe",
		`{"action":"archived","webhook_secret":"webhook-secret"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, cache.invocations())

	body := decodeBody(t, rec)
	assert.Contains(t, body["message"], "action")
}

func TestRecipeWebhookUpdatedScenario(t *testing.T) {
	cache := newRecordingCache()
	h := newTestHandler(cache)

	rec := postJSON(t, h.RecipeWebhook, "/api/webhooks/recipe",
		`{"action":"updated","recipe_slug":"lasagna-soup","recipe_category":"soups","webhook_secret":"webhook-secret"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "lasagna-soup", body["recipe_slug"])
	assert.Equal(t, "soups", body["recipe_category"])
	assert.NotEmpty(t, body["timestamp"])

	assert.ElementsMatch(t, []string{"recipes", "latest-recipes", "all-recipes", "trending-recipes", "categories"}, cache.tags)
	assert.ElementsMatch(t, []string{"/recipes/lasagna-soup", "/categories/soups", "/", "/recipes", "/explore"}, cache.paths)
}

func TestRecipeWebhookIsIdempotent(t *testing.T) {
	cache := newRecordingCache()
	h := newTestHandler(cache)
	payload := `{"action":"updated","recipe_slug":"lasagna-soup","recipe_category":"soups","webhook_secret":"webhook-secret"}`

	first := postJSON(t, h.RecipeWebhook, "/api/webhooks/recipe", payload)
	countAfterFirst := cache.invocations()
	second := postJSON(t, h.RecipeWebhook, "/api/webhooks/recipe", payload)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusOK, second.Code)
	// Same target set both times; the second pass is redundant but harmless.
	assert.Equal(t, countAfterFirst*2, cache.invocations())
}

func TestRecipeWebhookReportsDownstreamFailure(t *testing.T) {
	cache := newRecordingCache()
	cache.failOn["latest-recipes"] = errors.New("redis: connection refused")
	h := newTestHandler(cache)

	rec := postJSON(t, h.RecipeWebhook, "/api/webhooks/recipe",
		`{"action":"created","recipe_category":"soups","webhook_secret":"webhook-secret"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	// Every other target was still attempted.
	assert.Contains(t, cache.tags, "recipes")
	assert.Contains(t, cache.tags, "trending-recipes")
	assert.Contains(t, cache.paths, "/")

	body := decodeBody(t, rec)
	assert.Equal(t, "DOWNSTREAM", body["type"])
}

func TestAdminRevalidateRejectsBadSecret(t *testing.T) {
	cache := newRecordingCache()
	h := newTestHandler(cache)

	rec := postJSON(t, h.AdminRevalidate, "/api/admin/revalidate",
		`{"admin_secret":"wrong","action":"all"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, cache.invocations())
}

func TestAdminRevalidateCustomPassthrough(t *testing.T) {
	cache := newRecordingCache()
	h := newTestHandler(cache)

	rec := postJSON(t, h.AdminRevalidate, "/api/admin/revalidate",
		`{"admin_secret":"admin-secret","action":"custom","paths":["/recipes/pho","/explore"],"tags":["latest-recipes-6"]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.ElementsMatch(t, []string{"/recipes/pho", "/explore"}, cache.paths)
	assert.ElementsMatch(t, []string{"latest-recipes-6"}, cache.tags)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "custom", body["action"])
}

func TestAdminRevalidateEmptyCustomIsNoOp(t *testing.T) {
	cache := newRecordingCache()
	h := newTestHandler(cache)

	rec := postJSON(t, h.AdminRevalidate, "/api/admin/revalidate",
		`{"admin_secret":"admin-secret","action":"custom"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, cache.invocations())
}

func TestAdminRevalidateAllSweeps(t *testing.T) {
	cache := newRecordingCache()
	h := newTestHandler(cache)

	rec := postJSON(t, h.AdminRevalidate, "/api/admin/revalidate",
		`{"admin_secret":"admin-secret","action":"all"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.ElementsMatch(t, []string{"/", "/recipes", "/categories", "/explore", "/api/recipe", "/api/categories"}, cache.paths)
	assert.ElementsMatch(t, []string{"recipes", "categories", "trending"}, cache.tags)
}

func TestRevalidateGetAndPostAreEquivalent(t *testing.T) {
	postCache := newRecordingCache()
	postHandler := newTestHandler(postCache)
	postRec := postJSON(t, postHandler.Revalidate, "/api/revalidate",
		`{"secret":"revalidate-secret","type":"path","path":"/recipes/pho"}`)

	getCache := newRecordingCache()
	getHandler := newTestHandler(getCache)
	getReq := httptest.NewRequest(http.MethodGet,
		"/api/revalidate?secret=revalidate-secret&type=path&path=/recipes/pho", nil)
	getRec := httptest.NewRecorder()
	getHandler.RevalidateQuery(getRec, getReq)

	require.Equal(t, http.StatusOK, postRec.Code)
	require.Equal(t, http.StatusOK, getRec.Code)
	assert.Equal(t, postCache.paths, getCache.paths)

	postBody := decodeBody(t, postRec)
	getBody := decodeBody(t, getRec)
	assert.Equal(t, true, postBody["revalidated"])
	assert.Equal(t, postBody["type"], getBody["type"])
	assert.Equal(t, postBody["target"], getBody["target"])
}

func TestRevalidateTagType(t *testing.T) {
	cache := newRecordingCache()
	h := newTestHandler(cache)

	rec := postJSON(t, h.Revalidate, "/api/revalidate",
		`{"secret":"revalidate-secret","type":"tag","tag":"trending"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"trending"}, cache.tags)

	body := decodeBody(t, rec)
	assert.Equal(t, "trending", body["target"])
}

func TestRevalidateDefaultType(t *testing.T) {
	cache := newRecordingCache()
	h := newTestHandler(cache)

	rec := postJSON(t, h.Revalidate, "/api/revalidate",
		`{"secret":"revalidate-secret","type":"default"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["revalidated"])
	assert.Len(t, body["paths"], 6)
	assert.Len(t, body["tags"], 3)
}

func TestRevalidateValidation(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		field   string
	}{
		{"unknown type", `{"secret":"revalidate-secret","type":"everything"}`, "type"},
		{"path type without path", `{"secret":"revalidate-secret","type":"path"}`, "path"},
		{"tag type without tag", `{"secret":"revalidate-secret","type":"tag"}`, "tag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := newRecordingCache()
			h := newTestHandler(cache)

			rec := postJSON(t, h.Revalidate, "/api/revalidate", tt.payload)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, 0, cache.invocations())

			body := decodeBody(t, rec)
			assert.Contains(t, body["message"], tt.field)
		})
	}
}

func TestRevalidateRejectsBadSecret(t *testing.T) {
	cache := newRecordingCache()
	h := newTestHandler(cache)

	req := httptest.NewRequest(http.MethodGet, "/api/revalidate?secret=wrong&type=default", nil)
	rec := httptest.NewRecorder()
	h.RevalidateQuery(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, cache.invocations())
}
