package mailer

import (
	"fmt"
	"regexp"
	"strings"
)

// CertificateEmailFields is the closed set of placeholders available to the
// certificate delivery email body. Unknown placeholders in a template are a
// hard error, never silently left unsubstituted.
type CertificateEmailFields struct {
	StudentName    string
	CourseName     string
	Framework      string
	CertificateID  string
	CompletionDate string
	VerifyURL      string
	IssuingOrg     string
}

var placeholderRe = regexp.MustCompile(`\{\{\s*([A-Za-z]+)\s*\}\}`)

func (f CertificateEmailFields) values() map[string]string {
	return map[string]string{
		"StudentName":    f.StudentName,
		"CourseName":     f.CourseName,
		"Framework":      f.Framework,
		"CertificateID":  f.CertificateID,
		"CompletionDate": f.CompletionDate,
		"VerifyURL":      f.VerifyURL,
		"IssuingOrg":     f.IssuingOrg,
	}
}

// RenderTemplate substitutes {{Name}} placeholders from the typed field set.
func RenderTemplate(tmpl string, fields CertificateEmailFields) (string, error) {
	values := fields.values()

	var unknown []string
	for _, match := range placeholderRe.FindAllStringSubmatch(tmpl, -1) {
		if _, ok := values[match[1]]; !ok {
			unknown = append(unknown, match[1])
		}
	}
	if len(unknown) > 0 {
		return "", fmt.Errorf("unknown placeholders: %s", strings.Join(unknown, ", "))
	}

	out := placeholderRe.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := placeholderRe.FindStringSubmatch(m)[1]
		return values[name]
	})
	return out, nil
}

// CertificateEmailTemplate is the default HTML body for certificate delivery.
const CertificateEmailTemplate = `<!DOCTYPE html>
<html>
<head>
	<style>
		body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F4F6F8; margin: 0; padding: 0; }
		.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
		.header { background-color: #1B2A4A; padding: 30px; text-align: center; }
		.header h1 { color: #FFFFFF; margin: 0; font-size: 22px; letter-spacing: 1px; }
		.content { padding: 36px 30px; color: #1B2A4A; line-height: 1.6; }
		.cert-box { background: #EEF3FB; padding: 16px; border-radius: 4px; border-left: 4px solid #3D6DCC; margin: 20px 0; font-family: monospace; }
		.footer { background-color: #F4F6F8; padding: 18px; text-align: center; font-size: 12px; color: #666666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header"><h1>{{IssuingOrg}}</h1></div>
		<div class="content">
			<h2>Congratulations, {{StudentName}}!</h2>
			<p>You have completed <strong>{{CourseName}}</strong> ({{Framework}}) on {{CompletionDate}}.</p>
			<p>Your certificate is attached as a PDF. Its credential number is:</p>
			<div class="cert-box">{{CertificateID}}</div>
			<p>Anyone can confirm this certificate at <a href="{{VerifyURL}}">{{VerifyURL}}</a>.</p>
		</div>
		<div class="footer">{{IssuingOrg}} &middot; compliance training certificates</div>
	</div>
</body>
</html>`
