package controllers

import (
	"encoding/base64"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/compliqo/compliqo-backend/api/middleware"
	"github.com/compliqo/compliqo-backend/api/responses"
	"github.com/compliqo/compliqo-backend/api/validators"
	"github.com/compliqo/compliqo-backend/internal/certificates"
	"github.com/compliqo/compliqo-backend/pkg/db/models"
	pkgerrors "github.com/compliqo/compliqo-backend/pkg/errors"
	"github.com/compliqo/compliqo-backend/pkg/logger"
)

// generateRequest is the optional issuance body. Absent, issuance behaves
// with defaults: the certificate email is sent when delivery is enabled.
type generateRequest struct {
	SendEmail *bool `json:"send_email"`
}

type generateResponse struct {
	CertificateID string `json:"certificate_id"`
	AlreadyIssued bool   `json:"already_issued"`
	Document      string `json:"document_base64"`
	Message       string `json:"message,omitempty"`
}

type certificateRecord struct {
	CertificateID  string    `json:"certificate_id"`
	CourseID       uuid.UUID `json:"course_id"`
	CourseName     string    `json:"course_name"`
	Framework      string    `json:"framework"`
	CompletionDate time.Time `json:"completion_date"`
	IssuedAt       time.Time `json:"issued_at"`
	Tier           string    `json:"tier,omitempty"`
}

// CertificateGenerate issues (or re-returns) the caller's certificate for a
// completed course.
func CertificateGenerate(svc certificates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "certificate service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}
		uid, err := uuid.Parse(userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id"))
			return
		}

		courseID, err := uuid.Parse(chi.URLParam(r, "courseId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid course id"))
			return
		}

		var req generateRequest
		if r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &req); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		opts := certificates.GenerateOptions{}
		if req.SendEmail != nil && !*req.SendEmail {
			opts.SkipDelivery = true
		}

		result, err := svc.Generate(r.Context(), uid, courseID, opts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload := generateResponse{
			CertificateID: result.Certificate.CertificateID,
			AlreadyIssued: result.AlreadyIssued,
			Document:      base64.StdEncoding.EncodeToString(result.Document),
			Message:       result.DeliveryWarning,
		}
		status := http.StatusCreated
		if result.AlreadyIssued {
			status = http.StatusOK
		}
		responses.WriteSuccessStatus(w, status, payload)
	}
}

// CertificateList returns the caller's own certificate records.
func CertificateList(svc certificates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "certificate service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}
		uid, err := uuid.Parse(userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id"))
			return
		}

		rows, err := svc.ListOwn(r.Context(), uid)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records := make([]certificateRecord, len(rows))
		for i, row := range rows {
			records[i] = toCertificateRecord(row)
		}
		responses.WriteSuccess(w, records)
	}
}

func toCertificateRecord(row models.Certificate) certificateRecord {
	record := certificateRecord{
		CertificateID:  row.CertificateID,
		CourseID:       row.CourseID,
		CourseName:     row.CourseName,
		Framework:      row.Framework,
		CompletionDate: row.CompletionDate,
		IssuedAt:       row.IssuedAt,
	}
	if tier, ok := certificates.TierForScore(row.PercentScore); ok {
		record.Tier = tier.String()
	}
	return record
}
