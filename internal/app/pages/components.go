package pages

import (
	"context"
	"html/template"
	"io"

	twmerge "github.com/Oudwins/tailwind-merge-go/pkg/twmerge"
	"github.com/a-h/templ"
)

type ButtonType string

const (
	TypeButton ButtonType = "button"
	TypeSubmit ButtonType = "submit"
)

// ButtonProps configures Button. Href renders an anchor instead of a button.
type ButtonProps struct {
	ID       string
	Type     ButtonType
	Href     string
	Class    string
	Label    string
	Download string
}

const buttonBase = "inline-flex items-center justify-center rounded-lg px-4 py-2 text-sm font-semibold text-white bg-indigo-600 hover:bg-indigo-700"

var buttonTmpl = template.Must(template.New("button").Parse(
	`{{if .Href}}<a{{if .ID}} id="{{.ID}}"{{end}} href="{{.Href}}" class="{{.Class}}"{{if .Download}} download="{{.Download}}"{{end}}>{{.Label}}</a>` +
		`{{else}}<button{{if .ID}} id="{{.ID}}"{{end}} type="{{.Type}}" class="{{.Class}}">{{.Label}}</button>{{end}}`))

// Button renders a styled button or link; Class overrides conflicting base classes.
func Button(p ButtonProps) templ.Component {
	if p.Type == "" {
		p.Type = TypeButton
	}
	p.Class = twmerge.Merge(buttonBase, p.Class)
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return buttonTmpl.Execute(w, p)
	})
}

// renderToHTML renders a component for embedding in a parent template.
func renderToHTML(ctx context.Context, c templ.Component) (template.HTML, error) {
	s, err := templ.ToGoHTML(ctx, c)
	if err != nil {
		return "", err
	}
	return s, nil
}
