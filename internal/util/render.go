package util

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pkg/errors"
)

// RenderTemplate executes templateStr against data with the sprig function map plus funcs.
// Missing map keys are an error rather than "<no value>".
func RenderTemplate(templateStr string, data any, funcs template.FuncMap) (string, error) {
	if !strings.Contains(templateStr, "{{") {
		return templateStr, nil
	}

	tmpl, err := template.New("value").
		Option("missingkey=error").
		Funcs(sprig.TxtFuncMap()).
		Funcs(funcs).
		Parse(templateStr)
	if err != nil {
		return "", errors.Wrap(err, "failed to parse template")
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.Wrap(err, "failed to execute template")
	}

	return buf.String(), nil
}
