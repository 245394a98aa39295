package mailservice

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*
var templateFS embed.FS

// blocks every mail template must define, in the order ParseTemplate returns them.
var blocks = [...]string{"subject", "plainBody", "htmlBody"}

func NewTemplate() *Template {
	return &Template{}
}

// lookup parses templates/name once and reuses it for later mails.
func (tp *Template) lookup(name string) (*template.Template, error) {
	if t, ok := tp.parsed.Load(name); ok {
		return t.(*template.Template), nil
	}

	t, err := template.New("email").ParseFS(templateFS, "templates/"+name)
	if err != nil {
		return nil, fmt.Errorf("could not parse template: %w", err)
	}

	actual, _ := tp.parsed.LoadOrStore(name, t)
	return actual.(*template.Template), nil
}

// ParseTemplate renders the subject, plain text and HTML parts of name with data.
func (tp *Template) ParseTemplate(name string, data any) (*bytes.Buffer, *bytes.Buffer, *bytes.Buffer, error) {
	t, err := tp.lookup(name)
	if err != nil {
		return nil, nil, nil, err
	}

	var out [len(blocks)]*bytes.Buffer
	for i, block := range blocks {
		out[i] = new(bytes.Buffer)
		if err := t.ExecuteTemplate(out[i], block, data); err != nil {
			return nil, nil, nil, fmt.Errorf("could not render %s of %s: %w", block, name, err)
		}
	}

	return out[0], out[1], out[2], nil
}
