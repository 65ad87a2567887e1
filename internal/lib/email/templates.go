package email

import (
	"bytes"
	"embed"
	"html/template"
	"sync"

	"github.com/Masterminds/sprig/v3"
	"github.com/pkg/errors"
)

// Template names an HTML file under templates/.
type Template string

const (
	TemplateWelcome         Template = "welcome"
	TemplatePasswordChanged Template = "password_changed"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	parseOnce sync.Once
	parsed    *template.Template
	parseErr  error
)

func templates() (*template.Template, error) {
	parseOnce.Do(func() {
		parsed, parseErr = template.New("emails").
			Funcs(sprig.HtmlFuncMap()).
			ParseFS(templateFS, "templates/*.html")
	})
	return parsed, parseErr
}

// Render executes the named template with data.
func Render(name Template, data map[string]any) (string, error) {
	tmpl, err := templates()
	if err != nil {
		return "", errors.Wrap(err, "failed to parse email templates")
	}

	t := tmpl.Lookup(string(name) + ".html")
	if t == nil {
		return "", errors.Errorf("unknown email template %s", name)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return "", errors.Wrapf(err, "failed to execute email template %s", name)
	}

	return body.String(), nil
}
