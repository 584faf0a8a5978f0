// Package render maps screen state to HTML.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"

	"github.com/gin-gonic/gin/render"

	"github.com/pageza/recipeshare/internal/session"
	"github.com/pageza/recipeshare/internal/view"
)

//go:embed templates/*.html
var templateFS embed.FS

// Mode is what a data block shows
type Mode string

const (
	ModeLoading Mode = "loading"
	ModeError   Mode = "error"
	ModeEmpty   Mode = "empty"
	ModeItems   Mode = "items"
)

// Classify is the pure mapping from a view state to a render mode.
// idle and loading both show the loading text.
func Classify[T any](st view.State[T], isEmpty func(T) bool) Mode {
	switch st.Status {
	case view.StatusError:
		return ModeError
	case view.StatusSuccess:
		if isEmpty != nil && isEmpty(st.Data) {
			return ModeEmpty
		}
		return ModeItems
	default:
		return ModeLoading
	}
}

// EmptySlice reports whether s has no elements
func EmptySlice[E any](s []E) bool {
	return len(s) == 0
}

// NilPointer reports whether p is nil
func NilPointer[E any](p *E) bool {
	return p == nil
}

// Block is a classified state ready for a template
type Block struct {
	Mode    Mode
	Message string
	Data    interface{}
}

// Texts are the messages a block shows outside of ModeItems
type Texts struct {
	Loading string
	Empty   string
}

// NewBlock classifies st and picks the message for its mode
func NewBlock[T any](st view.State[T], isEmpty func(T) bool, texts Texts) Block {
	mode := Classify(st, isEmpty)
	b := Block{Mode: mode}
	switch mode {
	case ModeLoading:
		b.Message = texts.Loading
		if b.Message == "" {
			b.Message = "Loading..."
		}
	case ModeError:
		b.Message = st.Message
	case ModeEmpty:
		b.Message = texts.Empty
	case ModeItems:
		b.Data = st.Data
	}
	return b
}

// Page is the data every page template receives
type Page struct {
	Title   string
	Session session.Session
	Theme   string
	Flash   string
	Body    interface{}
}

// Pages is a gin HTMLRender with one template set per page
type Pages struct {
	sets map[string]*template.Template
}

var funcs = template.FuncMap{
	"join": strings.Join,
	"lines": func(s string) []string {
		var out []string
		for _, l := range strings.Split(s, "\n") {
			if l = strings.TrimSpace(l); l != "" {
				out = append(out, l)
			}
		}
		return out
	},
	"lower": strings.ToLower,
}

// Load parses the embedded templates
func Load() (*Pages, error) {
	return LoadFS(templateFS, "templates")
}

// LoadFS parses templates from dir in fsys. Every file other than layout.html
// and partials.html is a page, named after the file without extension.
func LoadFS(fsys fs.FS, dir string) (*Pages, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read templates: %w", err)
	}

	shared := []string{path.Join(dir, "layout.html"), path.Join(dir, "partials.html")}
	p := &Pages{sets: make(map[string]*template.Template)}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".html") || name == "layout.html" || name == "partials.html" {
			continue
		}
		files := append(append([]string{}, shared...), path.Join(dir, name))
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(fsys, files...)
		if err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", name, err)
		}
		p.sets[strings.TrimSuffix(name, ".html")] = t
	}
	return p, nil
}

// Has reports whether a page exists
func (p *Pages) Has(name string) bool {
	_, ok := p.sets[name]
	return ok
}

// Instance implements render.HTMLRender
func (p *Pages) Instance(name string, data interface{}) render.Render {
	t, ok := p.sets[name]
	if !ok {
		t = p.sets["error"]
		data = Page{Title: "Error", Body: ErrorBody{Message: fmt.Sprintf("unknown page %q", name)}}
	}
	return render.HTML{Template: t, Name: "layout", Data: data}
}

// ErrorBody is the body of the error page
type ErrorBody struct {
	Message string
}
