package server

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	"github.com/woodfordbl/maffei-design/pkg/errors"
	"github.com/woodfordbl/maffei-design/pkg/forms"
	"github.com/woodfordbl/maffei-design/pkg/gallery"
	"github.com/woodfordbl/maffei-design/pkg/pipeline"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

// apiError is the JSON body of a failed API request.
type apiError struct {
	Code    errors.Code       `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeValidation:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidAspectRatio:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeCollectionNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnavailable, errors.ErrCodeTimeout:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON encodes data before writing the header, so an unencodable value
// becomes a 500 instead of an empty 200.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		s.logger.Error("encode JSON response", "err", err)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(apiError{Code: errors.ErrCodeInternal, Message: "internal error"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := statusFor(code)
	body := apiError{Code: code, Message: errors.UserMessage(err), Fields: errors.FieldErrors(err)}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "code", code, "err", err)
		if code == errors.ErrCodeInternal {
			body.Message = "internal error"
		}
	}
	s.writeJSON(w, status, body)
}

// floatParam reads a finite numeric query parameter, returning def when
// absent. ParseFloat accepts "NaN" and "Inf", which are rejected here.
func floatParam(r *http.Request, name string, def float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s must be a number, got %q", name, raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s must be a finite number, got %q", name, raw)
	}
	return v, nil
}

// layoutOptions reads width and gap from the query, naming the width
// parameter widthParam.
func (s *Server) layoutOptions(r *http.Request, widthParam string) (pipeline.Options, error) {
	width, err := floatParam(r, widthParam, s.defaultWidth)
	if err != nil {
		return pipeline.Options{}, err
	}
	gap, err := floatParam(r, "gap", s.gap)
	if err != nil {
		return pipeline.Options{}, err
	}
	if width <= 0 {
		return pipeline.Options{}, errors.New(errors.ErrCodeInvalidInput, "%s must be positive, got %v", widthParam, width)
	}
	if gap < 0 {
		return pipeline.Options{}, errors.New(errors.ErrCodeInvalidInput, "gap must not be negative, got %v", gap)
	}
	return pipeline.Options{Width: width, Gap: &gap, Logger: s.logger}, nil
}

func (s *Server) layout(r *http.Request, opts pipeline.Options) (gallery.Layout, error) {
	return s.runner.ComputeLayout(r.Context(), s.items, opts)
}

func (s *Server) handleAPIGallery(w http.ResponseWriter, r *http.Request) {
	opts, err := s.layoutOptions(r, "width")
	if err != nil {
		s.writeError(w, err)
		return
	}
	l, err := s.layout(r, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleAPICollections(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.lib.Collections)
}

func (s *Server) handleAPIContact(w http.ResponseWriter, r *http.Request) {
	var f forms.ContactForm
	if err := decodeJSON(w, r, &f); err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.forms.Contact(r.Context(), f)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleAPINewsletter(w http.ResponseWriter, r *http.Request) {
	var n forms.Newsletter
	if err := decodeJSON(w, r, &n); err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.forms.Subscribe(r.Context(), n)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid JSON body")
	}
	return nil
}
