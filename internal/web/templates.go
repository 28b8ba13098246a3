package web

import (
	"embed"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/Vovarama1992/messenger-broadcast/internal/broadcast"
	"github.com/Vovarama1992/messenger-broadcast/internal/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

var screens = map[string]*template.Template{
	"login": template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/login.html")),
	"pages": template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/pages.html")),
}

type screenData struct {
	Title         string
	Authenticated bool
	Status        broadcast.Status
	View          broadcast.View
}

func render(w http.ResponseWriter, code int, screen string, data screenData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := screens[screen].ExecuteTemplate(w, "layout", data); err != nil {
		logger.Error("render failed", zap.String("screen", screen), zap.Error(err))
	}
}
