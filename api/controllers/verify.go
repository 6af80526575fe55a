package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/compliqo/compliqo-backend/api/responses"
	"github.com/compliqo/compliqo-backend/api/validators"
	"github.com/compliqo/compliqo-backend/internal/certificates"
	pkgerrors "github.com/compliqo/compliqo-backend/pkg/errors"
	"github.com/compliqo/compliqo-backend/pkg/logger"
)

// Identifiers are short; anything longer is garbage input from an
// unauthenticated caller and gets truncated before the lookup.
const maxCertificateIDLen = 128

type verifyResponse struct {
	Valid       bool                            `json:"valid"`
	Certificate *certificates.PublicCertificate `json:"certificate,omitempty"`
	Message     string                          `json:"message"`
}

// VerifyCertificate is the public, unauthenticated lookup. A miss is a
// normal 200 response with valid=false, never an error status.
func VerifyCertificate(svc certificates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "certificate service unavailable"))
			return
		}

		certificateID := validators.SanitizeString(chi.URLParam(r, "certificateId"), maxCertificateIDLen)

		result, err := svc.Verify(r.Context(), certificateID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, verifyResponse{
			Valid:       result.Valid,
			Certificate: result.Certificate,
			Message:     result.Message,
		})
	}
}
