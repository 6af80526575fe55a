package mailer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFields() CertificateEmailFields {
	return CertificateEmailFields{
		StudentName:    "Jane Q. Doe",
		CourseName:     "EU AI Act Fundamentals",
		Framework:      "EU AI Act",
		CertificateID:  "CMQ-EUAIACT-1736899200000-a1b2c3d4",
		CompletionDate: "January 15, 2025",
		VerifyURL:      "https://app.compliqo.io/verify-certificate/CMQ-EUAIACT-1736899200000-a1b2c3d4",
		IssuingOrg:     "Compliqo",
	}
}

func TestRenderTemplateSubstitutesAllPlaceholders(t *testing.T) {
	out, err := RenderTemplate(CertificateEmailTemplate, testFields())
	require.NoError(t, err)

	assert.Contains(t, out, "Jane Q. Doe")
	assert.Contains(t, out, "EU AI Act Fundamentals")
	assert.Contains(t, out, "CMQ-EUAIACT-1736899200000-a1b2c3d4")
	assert.Contains(t, out, "January 15, 2025")
	assert.NotContains(t, out, "{{")
}

func TestRenderTemplateRejectsUnknownPlaceholder(t *testing.T) {
	_, err := RenderTemplate("Hello {{StudentName}}, your score is {{Score}}", testFields())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "Score"))
}

func TestRenderTemplateHandlesWhitespaceInBraces(t *testing.T) {
	out, err := RenderTemplate("ID: {{ CertificateID }}", testFields())
	require.NoError(t, err)
	assert.Equal(t, "ID: CMQ-EUAIACT-1736899200000-a1b2c3d4", out)
}
