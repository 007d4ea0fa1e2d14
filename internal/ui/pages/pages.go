package pages

import (
	"context"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"path"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/a-h/templ"
	"golang.org/x/text/message"

	"github.com/templui/bikeshare/internal/ctxkeys"
	"github.com/templui/bikeshare/internal/i18n"
	"github.com/templui/bikeshare/internal/session"
	"github.com/templui/bikeshare/internal/view"
)

//go:embed templates/*.html
var templateFS embed.FS

// Flash kinds
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// Flash is a one-off message shown above the page content. Key is an
// i18n message key, Args its format arguments.
type Flash struct {
	Kind string
	Key  string
	Args []any
}

func Success(key string, args ...any) *Flash { return &Flash{Kind: FlashSuccess, Key: key, Args: args} }
func Error(key string, args ...any) *Flash   { return &Flash{Kind: FlashError, Key: key, Args: args} }
func Info(key string, args ...any) *Flash    { return &Flash{Kind: FlashInfo, Key: key, Args: args} }

type menuItem struct {
	Label  string
	Path   string
	Active bool
}

type flashMessage struct {
	Kind    string
	Message string
}

type layoutData struct {
	AppName   string
	Lang      string
	Nonce     string
	CSRFToken string
	Menu      []menuItem
	Session   session.State
	Flash     *flashMessage
	Page      any
}

var templates = parseTemplates("home", "register", "login", "profile", "eda", "logout", "suppressed", "notfound")

// baseFuncs are replaced per render; "t" is bound to the request locale.
var baseFuncs = template.FuncMap{
	"t":        func(key string, args ...any) string { return key },
	"cn":       twmerge.Merge,
	"chartSrc": chartSrc,
}

func parseTemplates(names ...string) map[string]*template.Template {
	set := make(map[string]*template.Template, len(names))
	for _, name := range names {
		set[name] = template.Must(template.New("layout.html").Funcs(baseFuncs).ParseFS(
			templateFS,
			"templates/layout.html",
			path.Join("templates", name+".html"),
		))
	}
	return set
}

// chartSrc embeds an SVG document as a data URI for an img tag
func chartSrc(svg []byte) template.URL {
	return template.URL("data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(svg))
}

func translator(p *message.Printer) func(key string, args ...any) string {
	return func(key string, args ...any) string {
		return p.Sprintf(key, args...)
	}
}

// page renders the named template inside the layout, with the sidebar
// menu, session status and CSRF token taken from ctx.
func page(active view.View, name string, flash *Flash, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		base, ok := templates[name]
		if !ok {
			return fmt.Errorf("unknown page template %q", name)
		}

		appName, locale := "Bike Sharing App", "en"
		if cfg := ctxkeys.Config(ctx); cfg != nil {
			appName, locale = cfg.AppName, cfg.AppLocale
		}
		p := i18n.Printer(locale)

		tmpl, err := base.Clone()
		if err != nil {
			return fmt.Errorf("failed to clone %s template: %w", name, err)
		}
		tmpl.Funcs(template.FuncMap{"t": translator(p)})

		layout := layoutData{
			AppName:   appName,
			Lang:      i18n.Match(locale).String(),
			Nonce:     templ.GetNonce(ctx),
			CSRFToken: ctxkeys.CSRFToken(ctx),
			Session:   ctxkeys.Session(ctx),
			Page:      data,
		}
		for _, v := range view.Menu {
			layout.Menu = append(layout.Menu, menuItem{
				Label:  p.Sprintf(v.Label()),
				Path:   v.Path(),
				Active: v == active,
			})
		}
		if flash != nil {
			layout.Flash = &flashMessage{Kind: flash.Kind, Message: p.Sprintf(flash.Key, flash.Args...)}
		}

		return templ.FromGoHTML(tmpl, layout).Render(ctx, w)
	})
}
