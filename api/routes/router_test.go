package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/compliqo/compliqo-backend/internal/certificates"
	pkgAuth "github.com/compliqo/compliqo-backend/pkg/auth"
	"github.com/compliqo/compliqo-backend/pkg/config"
	"github.com/compliqo/compliqo-backend/pkg/db/models"
	"github.com/compliqo/compliqo-backend/pkg/enums"
	"github.com/compliqo/compliqo-backend/pkg/logger"
	"github.com/compliqo/compliqo-backend/pkg/metrics"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubCertificateService struct{}

func (stubCertificateService) Generate(ctx context.Context, userID, courseID uuid.UUID, opts certificates.GenerateOptions) (*certificates.GenerateResult, error) {
	return &certificates.GenerateResult{
		Certificate: &models.Certificate{CertificateID: "CMQ-GDPR-1741770000000-a1b2c3d4"},
		Document:    []byte("%PDF"),
	}, nil
}

func (stubCertificateService) Verify(ctx context.Context, certificateID string) (*certificates.VerificationResult, error) {
	return &certificates.VerificationResult{Valid: false, Message: "Certificate not found"}, nil
}

func (stubCertificateService) ListOwn(ctx context.Context, userID uuid.UUID) ([]models.Certificate, error) {
	return nil, nil
}

func newTestRouter(t *testing.T) (http.Handler, config.JWTConfig) {
	t.Helper()
	jwtCfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}
	cfg := &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: jwtCfg,
	}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	registry := prometheus.NewRegistry()
	metrics.NewCertificateMetrics(registry)

	router := NewRouter(cfg, logg, stubPinger{}, nil, stubCertificateService{}, registry)
	return router, jwtCfg
}

func TestHealthEndpointsArePublic(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestReadinessSkipsUnwiredRedis(t *testing.T) {
	router, _ := newTestRouter(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var body struct {
		Data struct {
			Status string            `json:"status"`
			Checks map[string]string `json:"checks"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Data.Status != "ready" {
		t.Fatalf("expected ready status, got %q", body.Data.Status)
	}
	if got := body.Data.Checks["database"]; got != "ok" {
		t.Fatalf("expected database check ok, got %q", got)
	}
	if _, present := body.Data.Checks["redis"]; present {
		t.Fatal("redis check should be skipped when no client is wired")
	}
}

func TestVerifyEndpointNeedsNoAuth(t *testing.T) {
	router, _ := newTestRouter(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/public/verify-certificate/NOPE-NOT-REAL", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var body struct {
		Data struct {
			Valid bool `json:"valid"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Data.Valid {
		t.Fatal("expected valid=false for an unknown identifier")
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/certificates"},
		{http.MethodPost, "/api/v1/certificates/" + uuid.NewString() + "/generate"},
	}
	for _, tt := range tests {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(tt.method, tt.path, nil))
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 got %d", tt.method, tt.path, resp.Code)
		}
	}
}

func TestGenerateWithValidToken(t *testing.T) {
	router, jwtCfg := newTestRouter(t)

	token, err := pkgAuth.MintAccessToken(jwtCfg, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleLearner,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/certificates/"+uuid.NewString()+"/generate", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	router, _ := newTestRouter(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
