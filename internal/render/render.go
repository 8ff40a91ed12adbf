// Package render turns widget state into sanitized HTML frames. It sits on
// the far side of the render boundary: the widget hands it a Frame and gets
// markup back, nothing else.
package render

import (
	"html/template"
	"strings"
	"time"

	"github.com/securent/feed-widget/internal/domain"
	"github.com/securent/feed-widget/pkg/formatter"
	"github.com/securent/feed-widget/pkg/logger"
)

const messagePreviewLength = 280

// Frame is everything the renderer needs for one widget state.
type Frame struct {
	Posts           []domain.Post
	FromCache       bool
	CacheTimestamp  time.Time
	CurrentPage     int
	TotalPages      int
	Theme           string
	Errored         bool
	FallbackMessage string
	FallbackURL     string
}

// Renderer is injectable so a host can swap the markup wholesale.
type Renderer interface {
	Render(frame Frame) (string, error)
}

type HTMLRenderer struct {
	tmpl   *template.Template
	logger logger.Logger
}

var frameTemplate = `<div class="securent-feed securent-feed--{{.Theme}}">
{{- if .Errored}}
<div class="securent-feed__fallback">
<p>{{.FallbackMessage}}</p>
{{- if .FallbackURL}}
<a href="{{.FallbackURL}}" target="_blank" rel="noopener">Visit our page</a>
{{- end}}
</div>
{{- else}}
{{- if .FromCache}}
<div class="securent-feed__notice">Showing saved posts from {{reltime .CacheTimestamp}}.</div>
{{- end}}
{{- if .Posts}}
<ul class="securent-feed__posts">
{{- range .Posts}}
<li class="securent-feed__post" data-post-id="{{.ID}}">
{{- if .FullPicture}}
<img src="{{.FullPicture}}" alt="" loading="lazy">
{{- end}}
<p>{{message .}}</p>
<time datetime="{{.CreatedTime}}">{{posttime .}}</time>
{{- if .Permalink}}
<a href="{{.Permalink}}" target="_blank" rel="noopener">View post</a>
{{- end}}
</li>
{{- end}}
</ul>
{{- else}}
<p class="securent-feed__empty">No posts to show.</p>
{{- end}}
{{- if gt .TotalPages 1}}
<nav class="securent-feed__pages">
{{- range pages .TotalPages}}
<button data-page="{{.}}"{{if eq . $.CurrentPage}} class="is-current" disabled{{end}}>{{.}}</button>
{{- end}}
</nav>
{{- end}}
{{- end}}
</div>
`

func NewHTMLRenderer(log logger.Logger) (*HTMLRenderer, error) {
	funcs := template.FuncMap{
		"reltime": func(t time.Time) string {
			return formatter.RelativeTime(t, time.Now())
		},
		"message": func(p domain.Post) string {
			return formatter.Truncate(p.Message, messagePreviewLength)
		},
		"posttime": func(p domain.Post) string {
			t, err := p.CreatedAt()
			if err != nil {
				return p.CreatedTime
			}
			return t.Format("Jan 2, 2006")
		},
		"pages": func(total int) []int {
			out := make([]int, total)
			for i := range out {
				out[i] = i + 1
			}
			return out
		},
	}

	tmpl, err := template.New("frame").Funcs(funcs).Parse(frameTemplate)
	if err != nil {
		return nil, err
	}
	return &HTMLRenderer{
		tmpl:   tmpl,
		logger: log.WithComponent("Renderer"),
	}, nil
}

var _ Renderer = (*HTMLRenderer)(nil)

func (r *HTMLRenderer) Render(frame Frame) (string, error) {
	var sb strings.Builder
	if err := r.tmpl.Execute(&sb, frame); err != nil {
		r.logger.Error("Failed to render widget frame", "error", err)
		return "", err
	}
	return sb.String(), nil
}
