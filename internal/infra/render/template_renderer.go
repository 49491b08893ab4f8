// Package render turns an assembled digest into email subject and body.
package render

import (
	"html/template"
	"strings"

	"github.com/Chaitraputtabudhi/prox-deals-automation/config"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/entity"
	domainerrors "github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/errors"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/service"

	"github.com/pkg/errors"
)

const digestTemplate = `<html>
<body>
	<p>Hi {{.Digest.Recipient.Name}},</p>
	<p>Here are this week's best deals for you:</p>
	{{- range .Digest.Groups}}
	<h3>{{.Retailer}}</h3>
	<ul>
		{{- range .Items}}
		<li>{{.ProductName}} ({{.Size}}) &mdash; ${{printf "%.2f" .Price}} through {{.EndDate.Format "Jan 2"}}</li>
		{{- end}}
	</ul>
	{{- end}}
	<p>Happy saving!</p>
	<p style="color:#888;font-size:12px">Generated {{.Digest.GeneratedAt.Format "Jan 2, 2006"}}</p>
</body>
</html>
`

// templateRenderer implements service.DigestRenderer with html/template.
type templateRenderer struct {
	subjectPrefix string
	tmpl          *template.Template
}

const defaultSubjectPrefix = "Your weekly deals:"

// NewTemplateRenderer is the constructor for templateRenderer.
func NewTemplateRenderer(cfg *config.DigestConfig) service.DigestRenderer {
	prefix := cfg.SubjectPrefix
	if prefix == "" {
		prefix = defaultSubjectPrefix
	}

	return &templateRenderer{
		subjectPrefix: prefix,
		tmpl:          template.Must(template.New("digest").Parse(digestTemplate)),
	}
}

// Render produces a subject line and an HTML body for the digest. The
// digest's groups are rendered in the order the assembler produced them,
// with items inside each group already price-ascending.
func (r *templateRenderer) Render(digest *entity.Digest) (string, string, error) {
	if digest == nil || len(digest.Items) == 0 {
		return "", "", domainerrors.ErrRenderFailed.Wrap(errors.New("digest has no items"))
	}

	subject := r.subjectPrefix + " " + digest.GeneratedAt.Format("Jan 2, 2006")

	var body strings.Builder
	if err := r.tmpl.Execute(&body, struct {
		Digest *entity.Digest
	}{Digest: digest}); err != nil {
		return "", "", domainerrors.ErrRenderFailed.Wrap(errors.Wrap(err, "failed to execute digest template"))
	}

	return subject, body.String(), nil
}
