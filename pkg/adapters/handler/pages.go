package handler

import (
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/wadjakorntonsri/smart-bookmark/pkg/core/domain"
	"github.com/wadjakorntonsri/smart-bookmark/pkg/logger"
)

//go:embed templates
var templateFS embed.FS

type pages struct {
	login     *template.Template
	dashboard *template.Template
	log       logger.Logger
}

type loginPage struct {
	Alert    string
	Disabled bool
}

type dashboardPage struct {
	User       *domain.User
	Bookmarks  []domain.Bookmark
	LoadFailed bool
	Notice     string
	FormTitle  string
	FormURL    string
}

func newPages(log logger.Logger) *pages {
	funcs := template.FuncMap{
		"trimScheme": func(u string) string {
			return strings.TrimPrefix(strings.TrimPrefix(u, "https://"), "http://")
		},
	}
	return &pages{
		login:     template.Must(template.New("login.html").Funcs(funcs).ParseFS(templateFS, "templates/login.html")),
		dashboard: template.Must(template.New("dashboard.html").Funcs(funcs).ParseFS(templateFS, "templates/dashboard.html")),
		log:       log,
	}
}

func (p *pages) render(w http.ResponseWriter, t *template.Template, status int, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.Execute(w, data); err != nil {
		p.log.Error("render template", logger.String("template", t.Name()), logger.Error(err))
	}
}

func (p *pages) renderLogin(w http.ResponseWriter, status int, data loginPage) {
	p.render(w, p.login, status, data)
}

func (p *pages) renderDashboard(w http.ResponseWriter, status int, data dashboardPage) {
	p.render(w, p.dashboard, status, data)
}

func (p *pages) stylesheet(w http.ResponseWriter, r *http.Request) {
	css, err := templateFS.ReadFile("templates/app.css")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(css)
}
