// Package web holds the embedded page templates and static assets.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"moviez/utils"
)

//go:embed templates/*.html static/*
var assets embed.FS

const (
	layoutFile   = "layout.html"
	partialsFile = "partials.html"
)

// Pages lists every page template. Each is parsed together with the layout
// and the shared partials.
var Pages = []string{
	"home.html",
	"genres.html",
	"category.html",
	"detail.html",
	"similar.html",
	"search.html",
	"error.html",
}

// TemplateFS returns the template file system. When overrideDir is set, a
// file present there shadows the embedded file of the same name.
func TemplateFS(overrideDir string) (afero.Fs, error) {
	sub, err := fs.Sub(assets, "templates")
	if err != nil {
		return nil, err
	}
	base := afero.FromIOFS{FS: sub}
	if overrideDir == "" {
		return afero.NewReadOnlyFs(base), nil
	}

	osFs := afero.NewOsFs()
	ok, err := afero.DirExists(osFs, overrideDir)
	if err != nil {
		return nil, fmt.Errorf("template dir %s: %w", overrideDir, err)
	}
	if !ok {
		return nil, fmt.Errorf("template dir %s does not exist", overrideDir)
	}
	layer := afero.NewBasePathFs(osFs, overrideDir)
	return afero.NewReadOnlyFs(afero.NewCopyOnWriteFs(base, layer)), nil
}

// Static returns the embedded static assets rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic("failed to get static subdirectory: " + err.Error())
	}
	return sub
}

// Templates is the parsed set of pages.
type Templates struct {
	pages    map[string]*template.Template
	partials *template.Template
}

// ParseTemplates parses every page from fsys.
func ParseTemplates(fsys afero.Fs) (*Templates, error) {
	iofs := afero.NewIOFS(fsys)
	base, err := template.New(layoutFile).Funcs(Funcs()).ParseFS(iofs, layoutFile, partialsFile)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	pages := make(map[string]*template.Template, len(Pages))
	for _, page := range Pages {
		tpl, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := tpl.ParseFS(iofs, page); err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		pages[page] = tpl
	}
	return &Templates{pages: pages, partials: base}, nil
}

// Render executes page inside the layout.
func (t *Templates) Render(w io.Writer, page string, data any) error {
	tpl, ok := t.pages[page]
	if !ok {
		return fmt.Errorf("template %s not found", page)
	}
	return tpl.ExecuteTemplate(w, "layout", data)
}

// RenderPartial executes one of the shared partials on its own. The live
// view uses it to ship list fragments over the socket.
func (t *Templates) RenderPartial(w io.Writer, name string, data any) error {
	return t.partials.ExecuteTemplate(w, name, data)
}

// Funcs are the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"img":       ImagePath,
		"moviePath": utils.MoviePath,
		"year":      releaseYear,
		"rating":    formatRating,
		"join":      func(names []string) string { return strings.Join(names, ", ") },
	}
}

// ImagePath is the proxied path of a catalog image, or "" for no image.
func ImagePath(size, path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	return "/img/" + size + "/" + strings.TrimPrefix(path, "/")
}

func releaseYear(date string) string {
	if len(date) < 4 {
		return ""
	}
	if _, err := strconv.Atoi(date[:4]); err != nil {
		return ""
	}
	return date[:4]
}

func formatRating(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
