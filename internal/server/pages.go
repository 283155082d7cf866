package server

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/woodfordbl/maffei-design/pkg/content"
	"github.com/woodfordbl/maffei-design/pkg/errors"
	"github.com/woodfordbl/maffei-design/pkg/forms"
	"github.com/woodfordbl/maffei-design/pkg/pipeline"
	"github.com/woodfordbl/maffei-design/pkg/render/sink"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"home", "collection", "contact", "notfound"}

var funcs = template.FuncMap{
	"aspect": func(img content.Image) template.CSS {
		return template.CSS(content.CSSAspectRatio(img, content.DefaultCSSAspect))
	},
	"gridSpan": func(col content.Column, sec *content.SectionBlock) int {
		if col.Width > 0 {
			return col.Width
		}
		if n := len(sec.Columns); sec.GridColumns() == 12 && n > 0 {
			return 12 / n
		}
		return 1
	},
}

func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse %s template", name)
		}
		pages[name] = t
	}
	return pages, nil
}

// page is the data shared by every template.
type page struct {
	Site       content.Site
	Title      string
	Meta       []content.MetaTag
	Newsletter string
	Path       string
}

func (s *Server) newPage(r *http.Request, title string) page {
	p := page{Site: s.lib.Site, Title: title, Path: r.URL.Path}
	switch r.URL.Query().Get("newsletter") {
	case "ok":
		p.Newsletter = forms.MsgSubscribed
	case "invalid":
		p.Newsletter = forms.MsgInvalidEmail
	case "error":
		p.Newsletter = "Subscription failed, please try again later"
	}
	return p
}

// render executes a page into a buffer first so a template error can still
// produce a clean 500.
func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.pages[name].ExecuteTemplate(&buf, "base", data); err != nil {
		s.logger.Error("render page", "page", name, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Debug("write page", "page", name, "err", err)
	}
}

type tileView struct {
	sink.Tile
	Href  string
	Style template.CSS
}

type homePage struct {
	page
	Width  float64
	Gap    float64
	Height float64
	Tiles  []tileView
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	opts, err := s.layoutOptions(r, "w")
	if err != nil {
		s.logger.Debug("ignoring layout query", "err", err)
		gap := s.gap
		opts = pipeline.Options{Width: s.defaultWidth, Gap: &gap, Logger: s.logger}
	}
	l, err := s.layout(r, opts)
	if err != nil {
		s.logger.Error("home layout", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	tiles := sink.Tiles(l, s.items)
	views := make([]tileView, len(tiles))
	for i, t := range tiles {
		views[i] = tileView{
			Tile:  t,
			Href:  "/collections/" + t.CollectionSlug,
			Style: template.CSS("left:" + px(t.X) + ";top:" + px(t.Y) + ";width:" + px(t.Width) + ";height:" + px(t.Height)),
		}
	}

	p := s.newPage(r, s.lib.Site.Title)
	p.Meta = content.MetaTags(content.SocialPreview{
		Title:       s.lib.Site.Title,
		Description: s.lib.Site.Description,
		SiteName:    s.lib.Site.Name,
		Type:        "website",
		URL:         content.FullURL(s.siteURL, "/"),
	})
	s.render(w, http.StatusOK, "home", homePage{page: p, Width: l.Width, Gap: l.Gap, Height: l.Height, Tiles: views})
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "px"
}

type collectionPage struct {
	page
	Collection *content.Collection
	ShareURL   string
}

func (s *Server) handleCollection(w http.ResponseWriter, r *http.Request) {
	c, err := s.lib.ByID(chi.URLParam(r, "id"))
	if err != nil {
		s.handleNotFound(w, r)
		return
	}
	preview := content.CollectionPreview(c, s.siteURL)
	preview.SiteName = s.lib.Site.Name

	p := s.newPage(r, preview.Title)
	p.Meta = content.MetaTags(preview)
	p.Title = content.PageTitle(p.Meta)
	s.render(w, http.StatusOK, "collection", collectionPage{
		page:       p,
		Collection: c,
		ShareURL:   "/collections/" + url.PathEscape(c.ID) + "/share.png",
	})
}

type contactPage struct {
	page
	Form    forms.ContactForm
	Errors  map[string]string
	Message string
}

func (s *Server) handleContactPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "contact", contactPage{page: s.newPage(r, "Contact | "+s.lib.Site.Name)})
}

func (s *Server) handleContactSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	f := forms.ContactForm{
		Name:    strings.TrimSpace(r.PostFormValue("name")),
		Email:   strings.TrimSpace(r.PostFormValue("email")),
		Phone:   strings.TrimSpace(r.PostFormValue("phone")),
		Subject: strings.TrimSpace(r.PostFormValue("subject")),
		Message: strings.TrimSpace(r.PostFormValue("message")),
	}
	data := contactPage{page: s.newPage(r, "Contact | "+s.lib.Site.Name), Form: f}

	res, err := s.forms.Contact(r.Context(), f)
	switch {
	case errors.Is(err, errors.ErrCodeValidation):
		data.Errors = errors.FieldErrors(err)
		s.render(w, http.StatusUnprocessableEntity, "contact", data)
	case err != nil:
		data.Errors = map[string]string{"form": "Something went wrong, please try again later"}
		s.render(w, http.StatusInternalServerError, "contact", data)
	default:
		data.Form = forms.ContactForm{}
		data.Message = res.Message
		s.render(w, http.StatusOK, "contact", data)
	}
}

func (s *Server) handleNewsletterSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	status := "ok"
	_, err := s.forms.Subscribe(r.Context(), forms.Newsletter{Email: strings.TrimSpace(r.PostFormValue("email"))})
	switch {
	case errors.Is(err, errors.ErrCodeValidation):
		status = "invalid"
	case err != nil:
		status = "error"
	}
	http.Redirect(w, r, returnPath(r.PostFormValue("return"))+"?newsletter="+status, http.StatusSeeOther)
}

// returnPath accepts only local absolute paths.
func returnPath(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.ContainsAny(p, "?#\\") {
		return "/"
	}
	return p
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusNotFound, "notfound", s.newPage(r, "Page not found | "+s.lib.Site.Name))
}
