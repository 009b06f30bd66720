package bootstrap_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"kyc-backend/internal/bootstrap"
	"kyc-backend/internal/shared/config"
)

func testConfig(t *testing.T) config.Config {
	return config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:3000"},
		LocalStoreDir:   t.TempDir(),
		Env:             "dev",
		ObjectStoreType: "local",
		PdftotextPath:   "pdftotext",
		ExtractTimeout:  5 * time.Second,
		KYCUploadRate:   0.2,
		KYCUploadBurst:  2,
	}
}

func buildRouter(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app, err := bootstrap.Build(testConfig(t))
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	if app.DB != nil {
		t.Fatalf("expected in-memory repositories without DATABASE_URL")
	}
	return app.Router
}

func uploadRequest(t *testing.T, field, content string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fileWriter, err := writer.CreateFormFile(field, "scan.pdf")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fileWriter.Write([]byte(content)); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/farmer/kyc", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-User-Id", "farmer-1")
	return req
}

func TestUnreadableUploadStillReturnsProfile(t *testing.T) {
	router := buildRouter(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, uploadRequest(t, "aadhar", "not a pdf at all"))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var out struct {
		Message                string         `json:"message"`
		NameVerificationStatus string         `json:"nameVerificationStatus"`
		Profile                map[string]any `json:"profile"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.NameVerificationStatus != "pending" {
		t.Fatalf("expected pending, got %q", out.NameVerificationStatus)
	}
	if out.Message == "" {
		t.Fatalf("expected a message")
	}
	if _, ok := out.Profile["landParcelIdentity"]; ok {
		t.Fatalf("land fields must be absent for a pending profile")
	}

	// The upload is listed with a failed extraction.
	listReq := httptest.NewRequest(http.MethodGet, "/api/v1/farmer/documents", nil)
	listReq.Header.Set("X-User-Id", "farmer-1")
	listResp := httptest.NewRecorder()
	router.ServeHTTP(listResp, listReq)
	if listResp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", listResp.Code)
	}
	if !strings.Contains(listResp.Body.String(), `"extractionStatus":"failed"`) {
		t.Fatalf("unexpected documents body %s", listResp.Body.String())
	}
}

func TestUploadsAreRateLimited(t *testing.T) {
	router := buildRouter(t)

	for i := 0; i < 2; i++ {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, uploadRequest(t, "rtc", "x"))
		if resp.Code != http.StatusOK {
			t.Fatalf("request %d: expected status 200, got %d", i, resp.Code)
		}
	}

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, uploadRequest(t, "rtc", "x"))
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", resp.Code)
	}
	if resp.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}

	// Reads are not throttled by the upload bucket.
	getReq := httptest.NewRequest(http.MethodGet, "/api/v1/farmer/kyc", nil)
	getReq.Header.Set("X-User-Id", "farmer-1")
	getResp := httptest.NewRecorder()
	router.ServeHTTP(getResp, getReq)
	if getResp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", getResp.Code)
	}
}

func TestPublicAndAuthenticatedRoutes(t *testing.T) {
	router := buildRouter(t)

	cases := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{name: "health", path: "/api/v1/health", status: http.StatusOK},
		{name: "metrics", path: "/metrics", status: http.StatusOK},
		{name: "kyc without identity", path: "/api/v1/farmer/kyc", status: http.StatusUnauthorized},
		{name: "me", path: "/api/v1/me", header: "farmer-7", status: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("X-User-Id", tc.header)
			}
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)
			if resp.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, resp.Code)
			}
		})
	}
}

func TestBuildRejectsIncompleteS3Config(t *testing.T) {
	cfg := testConfig(t)
	cfg.ObjectStoreType = "s3"
	if _, err := bootstrap.Build(cfg); err == nil {
		t.Fatalf("expected error for s3 without bucket")
	}
}

func TestBuildRequiresDatabaseOutsideDev(t *testing.T) {
	cfg := testConfig(t)
	cfg.Env = "production"
	cfg.AuthSecret = "prod-secret"
	if _, err := bootstrap.Build(cfg); err == nil {
		t.Fatalf("expected error without DATABASE_URL in production")
	}
}
