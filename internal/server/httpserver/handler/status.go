package handler

import (
	"html/template"
	"net/http"
	"time"

	"github.com/yndnr/userdir-go/internal/core/domain"
	"github.com/yndnr/userdir-go/internal/infra/buildinfo"
)

var statusTemplate = template.Must(template.New("status").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>userdir status</title></head>
<body>
<h1>userdir</h1>
<table>
<tr><th align="left">Version</th><td>{{.Build.Version}} ({{.Build.Commit}})</td></tr>
<tr><th align="left">Uptime</th><td>{{.Uptime}}</td></tr>
<tr><th align="left">Users</th><td>{{len .Users}}</td></tr>
<tr><th align="left">Sessions</th><td>{{.Sessions}}</td></tr>
<tr><th align="left">Identities</th><td>{{.Identities}}</td></tr>
</table>
<h2>Directory</h2>
{{if .Users}}<table>
<tr><th>#</th><th>Username</th><th>Real name</th><th>Email</th><th>Created by</th></tr>
{{range $i, $u := .Users}}<tr><td>{{$i}}</td><td>{{$u.Username}}</td><td>{{$u.RealName}}</td><td>{{$u.Email}}</td><td>{{$u.CreatedBy}}</td></tr>
{{end}}</table>{{else}}<p>No users.</p>{{end}}
</body>
</html>
`))

type statusPage struct {
	Build      buildinfo.Info
	Uptime     time.Duration
	Users      []domain.User
	Sessions   int
	Identities int
}

// Status handles GET /status with an HTML summary.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	page := statusPage{
		Build:      buildinfo.Get(),
		Uptime:     time.Since(h.started).Truncate(time.Second),
		Users:      h.directory.List(r.Context()),
		Sessions:   h.sessions.Count(),
		Identities: h.sessions.CountIdentities(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := statusTemplate.Execute(w, page); err != nil {
		h.logger.Error("failed to render status page", "error", err)
	}
}
