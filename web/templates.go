package web

import (
	"html/template"
	"net/http"

	"github.com/amonks/taskmaster/booking"
	"github.com/amonks/taskmaster/internal/ui"
	"github.com/amonks/taskmaster/pricing"
	"github.com/amonks/taskmaster/task"
)

type templateWrapper struct {
	tmpl *template.Template
}

func newTemplateWrapper() *templateWrapper {
	return &templateWrapper{tmpl: newTemplates()}
}

func (tw *templateWrapper) Render(w http.ResponseWriter, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = tw.tmpl.ExecuteTemplate(w, "page", data)
}

type pageData struct {
	HasTask  bool
	Snapshot booking.Snapshot
	Refresh  bool
}

func (s *Server) handleTracking(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.currentSession().Snapshot()
	data := pageData{HasTask: err == nil, Snapshot: snapshot}
	if err == nil {
		data.Refresh = !snapshot.Task.Status.IsTerminal()
	}
	s.templates.Render(w, data)
}

func newTemplates() *template.Template {
	funcs := template.FuncMap{
		"formatClock":   ui.FormatClock,
		"formatMinutes": ui.FormatMinutes,
		"formatKm":      ui.FormatKm,
		"formatPrice":   pricing.FormatPrice,
		"stageNumber":   func(index int) int { return index + 1 },
		"isTerminal":    func(status task.Status) bool { return status.IsTerminal() },
	}
	return template.Must(template.New("page").Funcs(funcs).Parse(pageTemplate))
}

const pageTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  {{if .Refresh}}<meta http-equiv="refresh" content="2">{{end}}
  <title>TaskMaster Tracking</title>
  <style>
    :root {
      color-scheme: light;
    }
    body {
      margin: 0;
      font-family: "Charter", "Georgia", serif;
      color: #2b2520;
      background: radial-gradient(circle at top left, #f4efe3 0%, #fcfaf6 55%, #f6f2e8 100%);
    }
    header {
      padding: 16px 24px;
      border-bottom: 1px solid #d7cdbd;
      background: rgba(255, 255, 255, 0.72);
    }
    header h1 {
      margin: 0;
      font-size: 20px;
      letter-spacing: 0.02em;
    }
    main {
      padding: 18px 24px 28px;
      max-width: 720px;
    }
    .pane {
      background: #ffffff;
      border: 1px solid #d7cdbd;
      border-radius: 14px;
      box-shadow: 0 8px 24px rgba(60, 45, 30, 0.08);
      padding: 18px 22px 22px;
      margin-bottom: 18px;
    }
    .readonly {
      display: grid;
      grid-template-columns: 140px 1fr;
      gap: 6px 12px;
      font-size: 14px;
    }
    .readonly dt {
      font-weight: 600;
      color: #4f4540;
    }
    .readonly dd {
      margin: 0;
    }
    .timeline {
      list-style: none;
      padding: 0;
      margin: 0;
    }
    .timeline li {
      padding: 6px 0;
      color: #9a9087;
    }
    .timeline li.completed {
      color: #2f6b3a;
    }
    .timeline li.current {
      color: #1d4f8a;
      font-weight: 600;
    }
    .muted {
      color: #72685f;
    }
  </style>
</head>
<body>
  <header>
    <h1>TaskMaster Tracking</h1>
  </header>
  <main>
    {{if not .HasTask}}
      <section class="pane"><p class="muted">No active task.</p></section>
    {{else}}
      {{with .Snapshot}}
      <section class="pane">
        <h2>{{.Task.Category.Emoji}} {{.Task.Category.Label}}</h2>
        <dl class="readonly">
          <dt>Status</dt><dd class="status">{{.Task.Status.Label}}</dd>
          {{if .Task.Pricing}}<dt>Total</dt><dd>{{formatPrice .Task.Pricing.Total}}</dd>{{end}}
          {{if and .Searching .Stage}}<dt>Search</dt><dd>[{{stageNumber .Stage.Index}}/{{.Stage.Total}}] {{.Stage.Message}}</dd>{{end}}
          {{with .Task.Tasker}}
            <dt>TaskMaster</dt><dd>{{.Name}} ({{.Rating}}, {{.Vehicle}})</dd>
            <dt>Phone</dt><dd>{{.Phone}}</dd>
          {{end}}
          {{if and .Task.Tasker (not (isTerminal .Task.Status))}}
            <dt>ETA</dt><dd>{{formatMinutes .Progress.ETAMinutes}} · {{formatKm .Progress.DistanceKm}}</dd>
          {{end}}
        </dl>
      </section>
      <section class="pane">
        <ul class="timeline">
          {{range .Task.Timeline}}
            <li class="{{if .IsCurrent}}current{{else if .IsCompleted}}completed{{end}}">{{.Title}} <span class="muted">{{formatClock .Timestamp}}</span></li>
          {{end}}
        </ul>
      </section>
      {{end}}
    {{end}}
  </main>
</body>
</html>
`
