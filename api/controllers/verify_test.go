package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/compliqo/compliqo-backend/internal/certificates"
	"github.com/compliqo/compliqo-backend/pkg/enums"
)

func verifyRequest(certificateID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/public/verify-certificate/"+certificateID, nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("certificateId", certificateID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestVerifyCertificateHit(t *testing.T) {
	svc := &testCertificatesService{
		verifyFn: func(ctx context.Context, certificateID string) (*certificates.VerificationResult, error) {
			if certificateID != "CMQ-GDPR-1741770000000-a1b2c3d4" {
				t.Fatalf("unexpected identifier %q", certificateID)
			}
			return &certificates.VerificationResult{
				Valid: true,
				Certificate: &certificates.PublicCertificate{
					CertificateID:  certificateID,
					CourseName:     "GDPR Essentials",
					Framework:      "GDPR",
					CompletionDate: time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC),
					IssuedAt:       time.Date(2025, time.March, 12, 9, 0, 0, 0, time.UTC),
					Tier:           enums.CertificationTierExpert,
				},
				Message: "Certificate is valid",
			}, nil
		},
	}

	resp := httptest.NewRecorder()
	VerifyCertificate(svc, testLogger())(resp, verifyRequest("CMQ-GDPR-1741770000000-a1b2c3d4"))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var body struct {
		Data verifyResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Data.Valid {
		t.Fatal("expected valid=true")
	}
	if body.Data.Certificate == nil || body.Data.Certificate.CourseName != "GDPR Essentials" {
		t.Fatal("expected public certificate fields")
	}
}

func TestVerifyCertificateMissReturns200(t *testing.T) {
	svc := &testCertificatesService{
		verifyFn: func(ctx context.Context, certificateID string) (*certificates.VerificationResult, error) {
			return &certificates.VerificationResult{Valid: false, Message: "Certificate not found"}, nil
		},
	}

	resp := httptest.NewRecorder()
	VerifyCertificate(svc, testLogger())(resp, verifyRequest("NOPE-NOT-REAL"))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 on miss got %d", resp.Code)
	}
	var body struct {
		Data verifyResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Data.Valid {
		t.Fatal("expected valid=false")
	}
	if body.Data.Certificate != nil {
		t.Fatal("expected no certificate payload on a miss")
	}
	if body.Data.Message != "Certificate not found" {
		t.Fatalf("unexpected message %q", body.Data.Message)
	}
}

func TestVerifyCertificatePublicPayloadHasNoPII(t *testing.T) {
	svc := &testCertificatesService{
		verifyFn: func(ctx context.Context, certificateID string) (*certificates.VerificationResult, error) {
			return &certificates.VerificationResult{
				Valid: true,
				Certificate: &certificates.PublicCertificate{
					CertificateID: certificateID,
					CourseName:    "GDPR Essentials",
					Framework:     "GDPR",
				},
				Message: "Certificate is valid",
			}, nil
		},
	}

	resp := httptest.NewRecorder()
	VerifyCertificate(svc, testLogger())(resp, verifyRequest("CMQ-GDPR-1-a1b2c3d4"))

	var raw map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	cert, _ := raw["data"].(map[string]any)["certificate"].(map[string]any)
	for _, forbidden := range []string{"user_id", "email", "student_name"} {
		if _, ok := cert[forbidden]; ok {
			t.Fatalf("public payload must not contain %q", forbidden)
		}
	}
}
