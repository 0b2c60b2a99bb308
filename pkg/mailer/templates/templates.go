package templates

import (
	"bytes"
	"fmt"
	htmltpl "html/template"
	texttpl "text/template"
)

// TemplateResetPassword is the only template this service sends today.
const TemplateResetPassword = "reset_password"

const resetSubject = "Password Reset Request"

const resetText = `You are receiving this because you (or someone else) requested a password reset.
Please click on the following link, or paste it into your browser to complete the process:
{{.ResetURL}}
If you did not request this, please ignore this email and your password will remain unchanged.`

const resetHTML = `<html>
<body style="font-family: sans-serif; color: #222;">
  <p>Hi {{.Name}},</p>
  <p>You are receiving this because you (or someone else) requested a password reset.</p>
  <p><a href="{{.ResetURL}}">Reset your password</a></p>
  <p>The link is valid for {{.ExpiresIn}}. If you did not request this, please ignore
  this email and your password will remain unchanged.</p>
</body>
</html>`

var (
	resetTextTpl = texttpl.Must(texttpl.New(TemplateResetPassword + "_text").Parse(resetText))
	resetHTMLTpl = htmltpl.Must(htmltpl.New(TemplateResetPassword + "_html").Parse(resetHTML))
)

// Render produces subject, text and html bodies for a named template.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	switch name {
	case TemplateResetPassword:
		var tb, hb bytes.Buffer
		if err = resetTextTpl.Execute(&tb, data); err != nil {
			return "", "", "", err
		}
		if err = resetHTMLTpl.Execute(&hb, data); err != nil {
			return "", "", "", err
		}
		return resetSubject, tb.String(), hb.String(), nil
	default:
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
}
