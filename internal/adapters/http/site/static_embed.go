package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFS embed.FS

// FS returns an http.FileSystem for the embedded assets.
func FS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static/assets")
	if err != nil {
		return http.FS(staticFS)
	}
	return http.FS(sub)
}

type pageData struct {
	APIBase string
}

// placeholder renders the embedded page for route name once and returns a
// handler serving the result. The page's scripts call apiBase.
func placeholder(name, apiBase string) (http.Handler, error) {
	tmpl, err := template.ParseFS(staticFS, "static/"+name+".html")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrView, name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, pageData{APIBase: apiBase}); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrView, name, err)
	}
	page := buf.Bytes()
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	}), nil
}
