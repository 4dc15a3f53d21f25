package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yz4230/hookdeploy/internal/config"
	"github.com/yz4230/hookdeploy/internal/entity"
	"github.com/yz4230/hookdeploy/internal/notify"
	"github.com/yz4230/hookdeploy/internal/process"
	"github.com/yz4230/hookdeploy/internal/testutil"
	"github.com/yz4230/hookdeploy/internal/webhook"
)

type fixture struct {
	srv      *Server
	cfg      *config.Config
	runner   *testutil.Runner
	notifier *testutil.Notifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.ComposeFile = filepath.Join(root, "docker-compose.yml")
	cfg.WorkDir = root
	require.NoError(t, os.WriteFile(cfg.ComposeFile, []byte("services:\n  svcA:\n    build: ./svcA\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "svcA", ".git"), 0o755))

	f := &fixture{
		srv:      New(cfg, zerolog.Nop()),
		cfg:      cfg,
		runner:   testutil.NewRunner().On("docker ps", process.Outcome{Stdout: "c0ffee proj-svcA-1\n"}),
		notifier: &testutil.Notifier{},
	}
	do.OverrideValue[process.Runner](f.srv.Injector(), f.runner)
	do.OverrideValue[notify.Notifier](f.srv.Injector(), f.notifier)
	t.Cleanup(func() { _ = f.srv.Injector().Shutdown() })
	return f
}

func (f *fixture) request(method, path, event, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if event != "" {
		req.Header.Set(webhook.EventHeader, event)
	}
	rec := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(rec, req)
	return rec
}

const pushSvcA = `{"after":"abc123","repository":{"name":"svcA","default_branch":"main"}}`

func TestWebhookEndToEnd(t *testing.T) {
	f := newFixture(t)

	rec := f.request(http.MethodPost, "/webhook", "push", pushSvcA)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, webhook.BodyProcessed, rec.Body.String())
	assert.Len(t, f.runner.Calls(), 6)

	rec = f.request(http.MethodPost, "/webhook", "push", pushSvcA)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, webhook.BodyIgnored, rec.Body.String())
	assert.Len(t, f.runner.Calls(), 6)

	rec = f.request(http.MethodGet, "/api/deployments?service=svcA", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Deployments []entity.Deployment `json:"deployments"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Deployments, 1)
	dep := list.Deployments[0]
	assert.Equal(t, "abc123", dep.Commit)
	assert.Equal(t, entity.EventPush, dep.Trigger)
	assert.Equal(t, entity.DeploymentStatusSuccess, dep.Status)

	rec = f.request(http.MethodGet, "/api/deployments/"+dep.ID.String(), "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = f.request(http.MethodGet, "/api/deployments/999", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = f.request(http.MethodGet, "/api/deployments/abc", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookStartFailure(t *testing.T) {
	f := newFixture(t)
	f.runner.Fail("docker-compose -f "+f.cfg.ComposeFile+" up", "port is already allocated")

	rec := f.request(http.MethodPost, "/webhook", "push", pushSvcA)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to start service svcA: port is already allocated", rec.Body.String())
	assert.True(t, f.notifier.Contains("Failed to start service svcA"))
}

func TestWebhookMissingDescriptor(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.Remove(f.cfg.ComposeFile))

	rec := f.request(http.MethodPost, "/webhook", "push", pushSvcA)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, f.runner.Calls())
}

func TestWebhookBranchPolicy(t *testing.T) {
	f := newFixture(t)
	rec := f.request(http.MethodPost, "/webhook", "push", `{"after":"abc123","repository":{"name":"svcA","default_branch":"develop"}}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, webhook.BodyIgnored, rec.Body.String())
	assert.Empty(t, f.runner.Calls())
	assert.True(t, f.notifier.Contains("Branch develop not in list of branches"))
}

func TestWebhookMethodNotAllowed(t *testing.T) {
	f := newFixture(t)
	rec := f.request(http.MethodGet, "/webhook", "push", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rec := f.request(http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
