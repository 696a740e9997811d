package view

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	baseOnce sync.Once
	baseDir  string
	tplCache = struct {
		sync.RWMutex
		m map[string]*template.Template
	}{m: map[string]*template.Template{}}
)

var funcs = template.FuncMap{
	"year": func() int { return time.Now().Year() },
	"fecha": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("02/01/2006 15:04")
	},
}

// resolveBase finds the templates directory whether running from the repo
// root or a subdir (e.g. cmd/server, or a package dir under go test).
func resolveBase() string {
	baseOnce.Do(func() {
		candidates := []string{"templates", "../templates", "../../templates", "../../../templates"}
		for _, c := range candidates {
			if fi, err := os.Stat(filepath.Clean(c)); err == nil && fi.IsDir() {
				baseDir = filepath.Clean(c)
				return
			}
		}
		baseDir = "templates"
	})
	return baseDir
}

func load(name string) (*template.Template, error) {
	dev := os.Getenv("DEV") == "1"
	if !dev {
		tplCache.RLock()
		if t, ok := tplCache.m[name]; ok {
			tplCache.RUnlock()
			return t, nil
		}
		tplCache.RUnlock()
	}
	base := resolveBase()
	t, err := template.New("layout.html").Funcs(funcs).ParseFiles(
		filepath.Join(base, "layout.html"),
		filepath.Join(base, name),
	)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	if !dev {
		tplCache.Lock()
		tplCache.m[name] = t
		tplCache.Unlock()
	}
	return t, nil
}

// Render writes the named page composed into the shared layout.
func Render(w http.ResponseWriter, _ *http.Request, name string, data any) error {
	t, err := load(name)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err = w.Write(buf.Bytes())
	return err
}
