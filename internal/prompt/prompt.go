// Package prompt turns an analysis kind and optional user text into the
// instruction string sent to the model.
package prompt

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

type Kind string

const (
	KindImage  Kind = "image-analysis"
	KindText   Kind = "text-chat"
	KindReport Kind = "report-analysis"
)

var ErrUnknownKind = errors.New("unknown prompt kind")

// overrideFiles maps a kind to the file name read from PROMPT_DIR.
var overrideFiles = map[Kind]string{
	KindImage:  "image.txt",
	KindText:   "chat.txt",
	KindReport: "report.txt",
}

// Builder holds one template per kind. It is read-only after construction
// and safe for concurrent use.
type Builder struct {
	templates map[Kind]string
}

func NewBuilder() *Builder {
	return &Builder{
		templates: map[Kind]string{
			KindImage:  imageTemplate,
			KindText:   ChatPreamble,
			KindReport: reportTemplate,
		},
	}
}

// LoadBuilder starts from the built-in templates and replaces any kind
// that has a matching file in dir. An empty dir yields the defaults.
func LoadBuilder(dir string) (*Builder, error) {
	b := NewBuilder()
	if dir == "" {
		return b, nil
	}

	for kind, name := range overrideFiles {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read prompt template %s: %w", path, err)
		}
		b.templates[kind] = string(data)
		slog.Info("prompt template overridden", "kind", kind, "path", path, "length", len(data))
	}
	return b, nil
}

func (b *Builder) Template(kind Kind) (string, bool) {
	t, ok := b.templates[kind]
	return t, ok
}

// Build returns the final instruction. Image and report kinds ignore
// userText; text-chat appends it after the preamble and a blank line.
func (b *Builder) Build(kind Kind, userText string) (string, error) {
	tmpl, ok := b.templates[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	if kind != KindText {
		return tmpl, nil
	}
	if strings.TrimSpace(userText) == "" {
		return tmpl, nil
	}
	return tmpl + "\n\n" + userText, nil
}
