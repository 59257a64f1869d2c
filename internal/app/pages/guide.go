package pages

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

// FormValues are the values shown in the trip form.
type FormValues struct {
	Destination string
	NumDays     int
	Interests   map[string]bool
	Constraints string
}

// ImageCard is one picture with its caption.
type ImageCard struct {
	Caption string
	URL     string
}

// ResultView is the last generated guide.
type ResultView struct {
	Destination    string
	CityImage      *ImageCard
	InterestImages []ImageCard
	PlanHTML       template.HTML
	Model          string
	DownloadURL    string
}

// GuidePageData drives GuidePage.
type GuidePageData struct {
	Options []string
	MinDays int
	MaxDays int
	Form    FormValues
	Result  *ResultView
	Error   string
}

var guideTmpl = template.Must(template.New("guide").Parse(`
<section class="max-w-5xl mx-auto px-4 py-8 space-y-8">
  <header>
    <h1 class="text-3xl font-bold">Travel Guide Generator</h1>
    <p class="text-gray-500">AI-powered itinerary and visual inspiration</p>
  </header>
  {{if .Error}}
  <div id="error" role="alert" class="bg-red-50 border border-red-200 rounded-xl p-4 text-red-700">{{.Error}}</div>
  {{end}}
  <form id="travel-form" method="post" action="/generate" class="grid gap-4 bg-white rounded-xl shadow p-6">
    <label class="grid gap-1">Destination *
      <input id="destination" name="destination" type="text" required maxlength="120" value="{{.Form.Destination}}" class="border rounded px-3 py-2">
    </label>
    <label class="grid gap-1">Days *
      <input id="num_days" name="num_days" type="number" required min="{{.MinDays}}" max="{{.MaxDays}}" value="{{.Form.NumDays}}" class="border rounded px-3 py-2">
    </label>
    <label class="grid gap-1">Special Interests
      <select id="interests" name="interests" multiple size="5" class="border rounded px-3 py-2">
        {{range .Options}}<option value="{{.}}"{{if index $.Form.Interests .}} selected{{end}}>{{.}}</option>
        {{end}}
      </select>
    </label>
    <label class="grid gap-1">Constraints
      <textarea id="constraints" name="constraints" rows="3" maxlength="2000" class="border rounded px-3 py-2">{{.Form.Constraints}}</textarea>
    </label>
    {{.SubmitButton}}
  </form>
  {{with .Result}}
  <article id="result" class="space-y-6">
    {{with .CityImage}}
    <figure id="city-image"><img src="{{.URL}}" alt="{{.Caption}}" class="rounded-xl w-full"><figcaption class="text-sm text-gray-500">{{.Caption}}</figcaption></figure>
    {{end}}
    {{if .InterestImages}}
    <h2 class="text-xl font-semibold">Your Interests</h2>
    <div id="interest-images" class="grid grid-cols-2 md:grid-cols-4 gap-4">
      {{range .InterestImages}}<figure class="interest-image"><img src="{{.URL}}" alt="{{.Caption}}" class="rounded-lg"><figcaption class="text-sm">{{.Caption}}</figcaption></figure>
      {{end}}
    </div>
    {{end}}
    <div id="plan" class="prose max-w-none">{{.PlanHTML}}</div>
    {{if .Model}}<p id="model" class="text-xs text-gray-400">Generated with {{.Model}}</p>{{end}}
    {{$.DownloadButton}}
  </article>
  {{end}}
</section>`))

var layoutTmpl = template.Must(template.New("layout").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <script src="https://cdn.jsdelivr.net/npm/@tailwindcss/browser@4"></script>
</head>
<body class="bg-gray-50 text-gray-900">
{{.Content}}
</body>
</html>`))

// LayoutPage wraps content in the HTML document shell.
func LayoutPage(title string, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		body, err := renderToHTML(ctx, content)
		if err != nil {
			return err
		}
		return layoutTmpl.Execute(w, struct {
			Title   string
			Content template.HTML
		}{Title: title, Content: body})
	})
}

// GuidePage renders the trip form and, when present, the last generated guide.
func GuidePage(data GuidePageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		submit, err := renderToHTML(ctx, Button(ButtonProps{
			ID:    "generate",
			Type:  TypeSubmit,
			Label: "Generate",
			Class: "w-full md:w-auto",
		}))
		if err != nil {
			return err
		}

		var download template.HTML
		if data.Result != nil && data.Result.DownloadURL != "" {
			download, err = renderToHTML(ctx, Button(ButtonProps{
				ID:    "download-pdf",
				Href:  data.Result.DownloadURL,
				Label: "Download PDF",
				Class: "bg-emerald-600 hover:bg-emerald-700",
			}))
			if err != nil {
				return err
			}
		}

		return guideTmpl.Execute(w, struct {
			GuidePageData
			SubmitButton   template.HTML
			DownloadButton template.HTML
		}{GuidePageData: data, SubmitButton: submit, DownloadButton: download})
	})
}
