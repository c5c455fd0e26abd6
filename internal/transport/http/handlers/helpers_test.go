package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"testing"
	"time"

	"hris/internal/app/server"
	"hris/internal/platform/config"
)

const adminPassword = "ChangeMe123!"

type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     any             `json:"error"`
	RequestID string          `json:"requestId"`
}

type testServer struct {
	t      *testing.T
	cfg    config.Config
	app    *server.App
	srv    *httptest.Server
	client *http.Client
}

func testConfig(t *testing.T) config.Config {
	dir := t.TempDir()
	return config.Config{
		Addr:               ":0",
		Environment:        "test",
		JWTSecret:          "test-secret-test-secret-test-secret",
		TokenTTL:           time.Hour,
		DataEncryptionKey:  "0123456789abcdef0123456789abcdef",
		DataFile:           filepath.Join(dir, "db.json"),
		UploadDir:          filepath.Join(dir, "uploads"),
		BackupDir:          filepath.Join(dir, "backups"),
		MaxUploadBytes:     1 << 20,
		MaxBodyBytes:       1 << 20,
		RateLimitPerMinute: 1000,
		SeedAdminEmail:     "admin@test.local",
		SeedAdminPassword:  adminPassword,
		SeedAdminName:      "Test Admin",
		DefaultPassword:    "Welcome123!",
		ExpiryScanInterval: 0,
		LogLevel:           "error",
	}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := testConfig(t)
	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	srv := httptest.NewServer(app.Router)
	t.Cleanup(func() {
		srv.Close()
		app.Close()
	})
	return &testServer{t: t, cfg: cfg, app: app, srv: srv, client: srv.Client()}
}

func (ts *testServer) do(method, path, token string, body io.Reader, contentType string) (*http.Response, envelope) {
	ts.t.Helper()
	req, err := http.NewRequest(method, ts.srv.URL+path, body)
	if err != nil {
		ts.t.Fatalf("build request: %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.client.Do(req)
	if err != nil {
		ts.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		ts.t.Fatalf("read body: %v", err)
	}
	var env envelope
	if len(raw) > 0 && resp.Header.Get("Content-Type") == "application/json" {
		if err := json.Unmarshal(raw, &env); err != nil {
			ts.t.Fatalf("decode envelope: %v (%s)", err, raw)
		}
	}
	resp.Body = io.NopCloser(bytes.NewReader(raw))
	return resp, env
}

func (ts *testServer) jsonStatus(method, path, token string, payload any, want int) envelope {
	ts.t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			ts.t.Fatalf("encode payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	resp, env := ts.do(method, path, token, body, "application/json")
	if resp.StatusCode != want {
		ts.t.Fatalf("%s %s: expected %d, got %d (%+v)", method, path, want, resp.StatusCode, env.Error)
	}
	return env
}

func (ts *testServer) login(email, password string) string {
	ts.t.Helper()
	env := ts.jsonStatus(http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	}, http.StatusOK)
	var payload struct {
		Token string `json:"token"`
	}
	decode(ts.t, env, &payload)
	if payload.Token == "" {
		ts.t.Fatal("expected token")
	}
	return payload.Token
}

func (ts *testServer) adminToken() string {
	return ts.login(ts.cfg.SeedAdminEmail, adminPassword)
}

// createEmployee creates a user through the API and returns its id.
func (ts *testServer) createEmployee(token string, fields map[string]any) string {
	ts.t.Helper()
	env := ts.jsonStatus(http.MethodPost, "/api/employees", token, fields, http.StatusCreated)
	var created struct {
		ID         string `json:"id"`
		EmployeeID string `json:"employeeId"`
	}
	decode(ts.t, env, &created)
	if created.ID == "" || created.EmployeeID == "" {
		ts.t.Fatalf("expected id and employee number, got %+v", created)
	}
	return created.ID
}

// upload sends a multipart document upload with an explicit part content type.
func (ts *testServer) upload(token, docType, fileName, contentType string, content []byte) (*http.Response, envelope) {
	ts.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("type", docType); err != nil {
		ts.t.Fatalf("write field: %v", err)
	}
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		ts.t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		ts.t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		ts.t.Fatalf("close multipart: %v", err)
	}
	return ts.do(http.MethodPost, "/api/documents/upload", token, &buf, mw.FormDataContentType())
}

func decode(t *testing.T, env envelope, dst any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data: %v (%s)", err, env.Data)
	}
}

func envelopeErrorCode(env envelope) string {
	errMap, ok := env.Error.(map[string]any)
	if !ok {
		return ""
	}
	code, _ := errMap["code"].(string)
	return code
}

func assertErrorCode(t *testing.T, env envelope, code string) {
	t.Helper()
	if got := envelopeErrorCode(env); got != code {
		t.Fatalf("expected error code %s, got %+v", code, env.Error)
	}
}

func assertValidationErrorField(t *testing.T, env envelope, field string) {
	t.Helper()
	assertErrorCode(t, env, "validation_error")
	errMap := env.Error.(map[string]any)
	details, ok := errMap["details"].(map[string]any)
	if !ok {
		t.Fatalf("expected details object, got %+v", errMap["details"])
	}
	fieldsRaw, ok := details["fields"].([]any)
	if !ok {
		t.Fatalf("expected details.fields array, got %+v", details["fields"])
	}
	for _, item := range fieldsRaw {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if value, _ := entry["field"].(string); value == field {
			return
		}
	}
	t.Fatalf("expected validation field %q in %+v", field, fieldsRaw)
}
