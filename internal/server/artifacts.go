package server

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/woodfordbl/maffei-design/pkg/content"
	"github.com/woodfordbl/maffei-design/pkg/errors"
	"github.com/woodfordbl/maffei-design/pkg/pipeline"
	"github.com/woodfordbl/maffei-design/pkg/render/sink"
)

// handleArtifact renders the home gallery as svg, json, pdf or xlsx.
func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, err)
		return
	}
	opts, err := s.layoutOptions(r, "width")
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts.Formats = []string{format}
	opts.Title = s.lib.Site.Name
	opts.LinkBase = s.siteURL

	res, err := s.runner.Execute(r.Context(), s.items, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	if format == pipeline.FormatPDF || format == pipeline.FormatXLSX {
		w.Header().Set("Content-Disposition", `attachment; filename="gallery.`+format+`"`)
	}
	if _, err := w.Write(res.Artifacts[format]); err != nil {
		s.logger.Debug("write artifact", "format", format, "err", err)
	}
}

// handleShareCode serves a QR code linking to a collection page.
func (s *Server) handleShareCode(w http.ResponseWriter, r *http.Request) {
	c, err := s.lib.ByID(chi.URLParam(r, "id"))
	if err != nil {
		s.handleNotFound(w, r)
		return
	}
	png, err := sink.RenderQR(content.FullURL(s.siteURL, "/collections/"+url.PathEscape(c.ID)), sink.DefaultQRSize)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "share code"))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := w.Write(png); err != nil {
		s.logger.Debug("write share code", "err", err)
	}
}
