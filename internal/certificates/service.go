package certificates

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/compliqo/compliqo-backend/internal/certrender"
	"github.com/compliqo/compliqo-backend/pkg/config"
	"github.com/compliqo/compliqo-backend/pkg/db"
	"github.com/compliqo/compliqo-backend/pkg/db/models"
	"github.com/compliqo/compliqo-backend/pkg/enums"
	pkgerrors "github.com/compliqo/compliqo-backend/pkg/errors"
	"github.com/compliqo/compliqo-backend/pkg/logger"
	"github.com/compliqo/compliqo-backend/pkg/mailer"
	"github.com/compliqo/compliqo-backend/pkg/metrics"
)

type certificatesRepository interface {
	Create(ctx context.Context, cert *models.Certificate) (*models.Certificate, error)
	FindByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (*models.Certificate, error)
	FindByCertificateID(ctx context.Context, certificateID string) (*models.Certificate, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Certificate, error)
}

type usersRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type coursesRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
}

type enrollmentsRepository interface {
	FindByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error)
}

type artifactRenderer interface {
	Render(fields certrender.CertificateFields) (image.Image, error)
}

// Service exposes certificate issuance, public verification, and owner
// listing semantics.
type Service interface {
	Generate(ctx context.Context, userID, courseID uuid.UUID, opts GenerateOptions) (*GenerateResult, error)
	Verify(ctx context.Context, certificateID string) (*VerificationResult, error)
	ListOwn(ctx context.Context, userID uuid.UUID) ([]models.Certificate, error)
}

// GenerateOptions carries per-request issuance preferences. The zero value
// is the default behavior.
type GenerateOptions struct {
	// SkipDelivery suppresses the email for this request only, e.g. when
	// the caller is re-downloading from the dashboard. Issuance semantics
	// are unchanged.
	SkipDelivery bool
}

// GenerateResult is the outcome of an issuance request. AlreadyIssued
// marks the idempotent success path: the pre-existing record, same
// document, no new row.
type GenerateResult struct {
	Certificate   *models.Certificate
	Document      []byte
	AlreadyIssued bool
	// DeliveryWarning carries the soft failure when the email transport
	// rejected the message. Issuance has already succeeded at this point.
	DeliveryWarning string
}

// PublicCertificate is the redacted view served to unauthenticated
// verifiers. It must never carry the owner's internal ID, email, or any
// other account data.
type PublicCertificate struct {
	CertificateID  string                  `json:"certificate_id"`
	CourseName     string                  `json:"course_name"`
	Framework      string                  `json:"framework"`
	CompletionDate time.Time               `json:"completion_date"`
	IssuedAt       time.Time               `json:"issued_at"`
	Tier           enums.CertificationTier `json:"tier,omitempty"`
}

// VerificationResult answers "does a record with this ID exist and what
// does it publicly attest". A miss is a normal negative result.
type VerificationResult struct {
	Valid       bool
	Certificate *PublicCertificate
	Message     string
}

type service struct {
	repo        certificatesRepository
	userRepo    usersRepository
	courseRepo  coursesRepository
	enrollments enrollmentsRepository
	renderer    artifactRenderer
	mail        mailer.Mailer
	log         *logger.Logger
	metrics     *metrics.CertificateMetrics
	certCfg     config.CertificatesConfig
}

// NewService builds the issuance orchestrator. mail may be nil when
// delivery is disabled; everything else is required.
func NewService(
	repo certificatesRepository,
	userRepo usersRepository,
	courseRepo coursesRepository,
	enrollments enrollmentsRepository,
	renderer artifactRenderer,
	mail mailer.Mailer,
	log *logger.Logger,
	m *metrics.CertificateMetrics,
	certCfg config.CertificatesConfig,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("certificate repository required")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if courseRepo == nil {
		return nil, fmt.Errorf("course repository required")
	}
	if enrollments == nil {
		return nil, fmt.Errorf("enrollment repository required")
	}
	if renderer == nil {
		return nil, fmt.Errorf("artifact renderer required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:        repo,
		userRepo:    userRepo,
		courseRepo:  courseRepo,
		enrollments: enrollments,
		renderer:    renderer,
		mail:        mail,
		log:         log,
		metrics:     m,
		certCfg:     certCfg,
	}, nil
}

// Generate issues a certificate for the caller's completed enrollment.
// The sequence is check -> mint -> render -> persist -> deliver; the
// unique constraint on (user_id, course_id) is the authoritative backstop
// when two requests race past the existing-record check.
func (s *service) Generate(ctx context.Context, userID, courseID uuid.UUID, opts GenerateOptions) (*GenerateResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	if courseID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "course_id is required")
	}

	ctx = s.log.WithCourseID(s.log.WithUserID(ctx, userID.String()), courseID.String())

	enrollment, err := s.enrollments.FindByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metrics.IncIssuance(metrics.OutcomeRejected)
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "course not completed")
		}
		s.metrics.IncIssuance(metrics.OutcomeFailed)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup enrollment")
	}
	if !enrollment.IsCompleted() {
		s.metrics.IncIssuance(metrics.OutcomeRejected)
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "course not completed")
	}

	existing, err := s.repo.FindByUserAndCourse(ctx, userID, courseID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.metrics.IncIssuance(metrics.OutcomeFailed)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup existing certificate")
	}
	if existing != nil {
		doc, err := s.renderDocument(existing)
		if err != nil {
			s.metrics.IncIssuance(metrics.OutcomeFailed)
			return nil, err
		}
		s.metrics.IncIssuance(metrics.OutcomeAlreadyIssued)
		s.log.Info(s.log.WithCertificateID(ctx, existing.CertificateID), "certificate already issued")
		return &GenerateResult{Certificate: existing, Document: doc, AlreadyIssued: true}, nil
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		s.metrics.IncIssuance(metrics.OutcomeFailed)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}
	course, err := s.courseRepo.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metrics.IncIssuance(metrics.OutcomeRejected)
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "course not found")
		}
		s.metrics.IncIssuance(metrics.OutcomeFailed)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup course")
	}

	issuedAt := time.Now().UTC()
	certificateID, err := NewCertificateID(s.certCfg.Namespace, course.Framework, issuedAt)
	if err != nil {
		s.metrics.IncIssuance(metrics.OutcomeFailed)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint certificate id")
	}
	ctx = s.log.WithCertificateID(ctx, certificateID)

	cert := &models.Certificate{
		CertificateID:  certificateID,
		UserID:         userID,
		CourseID:       courseID,
		CourseName:     course.Title,
		Framework:      course.Framework,
		StudentName:    user.FullName(),
		CompletionDate: *enrollment.CompletedAt,
		IssuedAt:       issuedAt,
		PercentScore:   enrollment.PercentScore,
	}

	// Render before persisting: a record must never exist without a
	// producible document.
	doc, err := s.renderDocument(cert)
	if err != nil {
		s.metrics.IncIssuance(metrics.OutcomeFailed)
		return nil, err
	}

	created, err := s.repo.Create(ctx, cert)
	if err != nil {
		if db.IsUniqueViolation(err, models.UniqueUserCourseConstraint) {
			// A concurrent request won the race. Return its record;
			// the conflict is never surfaced to the caller.
			winner, fetchErr := s.repo.FindByUserAndCourse(ctx, userID, courseID)
			if fetchErr != nil {
				s.metrics.IncIssuance(metrics.OutcomeFailed)
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fetchErr, "fetch winning certificate after conflict")
			}
			winnerDoc, renderErr := s.renderDocument(winner)
			if renderErr != nil {
				s.metrics.IncIssuance(metrics.OutcomeFailed)
				return nil, renderErr
			}
			s.metrics.IncIssuance(metrics.OutcomeAlreadyIssued)
			s.log.Info(s.log.WithCertificateID(ctx, winner.CertificateID), "issuance race resolved to existing certificate")
			return &GenerateResult{Certificate: winner, Document: winnerDoc, AlreadyIssued: true}, nil
		}
		s.metrics.IncIssuance(metrics.OutcomeFailed)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist certificate")
	}

	s.metrics.IncIssuance(metrics.OutcomeIssued)
	s.log.Info(ctx, "certificate issued")

	result := &GenerateResult{Certificate: created, Document: doc}
	if opts.SkipDelivery {
		s.log.Info(ctx, "certificate email skipped at caller's request")
		return result, nil
	}
	if warning := s.deliver(ctx, user, created, doc); warning != "" {
		result.DeliveryWarning = warning
	}
	return result, nil
}

// Verify performs the public exact-match lookup. A miss returns a normal
// negative result, never an error.
func (s *service) Verify(ctx context.Context, certificateID string) (*VerificationResult, error) {
	if certificateID == "" {
		s.metrics.IncVerification(metrics.ResultMiss)
		return &VerificationResult{Valid: false, Message: "Certificate not found"}, nil
	}

	cert, err := s.repo.FindByCertificateID(ctx, certificateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metrics.IncVerification(metrics.ResultMiss)
			return &VerificationResult{Valid: false, Message: "Certificate not found"}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup certificate")
	}

	public := &PublicCertificate{
		CertificateID:  cert.CertificateID,
		CourseName:     cert.CourseName,
		Framework:      cert.Framework,
		CompletionDate: cert.CompletionDate,
		IssuedAt:       cert.IssuedAt,
	}
	if tier, ok := TierForScore(cert.PercentScore); ok {
		public.Tier = tier
	}

	s.metrics.IncVerification(metrics.ResultHit)
	return &VerificationResult{Valid: true, Certificate: public, Message: "Certificate is valid"}, nil
}

// ListOwn returns the caller's certificates, newest first.
func (s *service) ListOwn(ctx context.Context, userID uuid.UUID) ([]models.Certificate, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list certificates")
	}
	return rows, nil
}

// renderDocument rebuilds the complete document for a certificate record.
// The renderer is deterministic, so the same record always yields the same
// bytes-level artifact regardless of when it is rendered.
func (s *service) renderDocument(cert *models.Certificate) ([]byte, error) {
	fields := certrender.CertificateFields{
		StudentName:    cert.StudentName,
		CourseName:     cert.CourseName,
		Framework:      cert.Framework,
		CompletionDate: cert.CompletionDate,
		CertificateID:  cert.CertificateID,
		VerifyURL:      s.certCfg.VerificationURL(cert.CertificateID),
	}
	if tier, ok := TierForScore(cert.PercentScore); ok {
		fields.Tier = tier.String()
	}

	start := time.Now()
	surface, err := s.renderer.Render(fields)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render certificate artifact")
	}

	doc, err := certrender.PackagePDF(surface, certrender.DocumentMetadata{
		Title:        "Certificate of Completion - " + cert.CourseName,
		Author:       s.certCfg.IssuingOrg,
		Subject:      "Compliance training certificate for " + cert.StudentName,
		Keywords:     fmt.Sprintf("certificate, compliance, %s, %s", cert.Framework, cert.CertificateID),
		CreationDate: cert.IssuedAt,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "package certificate document")
	}
	s.metrics.ObserveRenderDuration(time.Since(start))
	return doc, nil
}

// deliver emails the document to the learner. Failures are logged and
// reported as a warning; they never roll back or fail the issuance.
func (s *service) deliver(ctx context.Context, user *models.User, cert *models.Certificate, doc []byte) string {
	if s.mail == nil || !s.certCfg.DeliveryEnabled {
		return ""
	}

	fields := mailer.CertificateEmailFields{
		StudentName:    cert.StudentName,
		CourseName:     cert.CourseName,
		Framework:      cert.Framework,
		CertificateID:  cert.CertificateID,
		CompletionDate: cert.CompletionDate.Format("January 2, 2006"),
		VerifyURL:      s.certCfg.VerificationURL(cert.CertificateID),
		IssuingOrg:     s.certCfg.IssuingOrg,
	}
	body, err := mailer.RenderTemplate(mailer.CertificateEmailTemplate, fields)
	if err != nil {
		s.log.Error(ctx, "render certificate email", err)
		s.metrics.IncDelivery(metrics.DeliveryFailed)
		return "certificate issued but email could not be prepared"
	}

	msg := mailer.Message{
		ToEmail:  user.Email,
		ToName:   cert.StudentName,
		Subject:  "Your certificate: " + cert.CourseName,
		HTMLBody: body,
		Attachment: &mailer.Attachment{
			Filename:    cert.CertificateID + ".pdf",
			ContentType: "application/pdf",
			Content:     doc,
		},
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		s.log.Error(ctx, "deliver certificate email", err)
		s.metrics.IncDelivery(metrics.DeliveryFailed)
		return "certificate issued but email delivery failed"
	}

	s.metrics.IncDelivery(metrics.DeliverySent)
	return ""
}
