package server

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woodfordbl/maffei-design/pkg/errors"
	"github.com/woodfordbl/maffei-design/pkg/forms"
	"github.com/woodfordbl/maffei-design/pkg/gallery"
	"github.com/woodfordbl/maffei-design/pkg/observability"
)

func newTestServer(t *testing.T) (*Server, *forms.MemoryStore) {
	t.Helper()
	store := forms.NewMemoryStore()
	s, err := New(Options{
		Forms:   forms.NewService(store, nil),
		SiteURL: "https://maffei.design",
	})
	require.NoError(t, err)
	return s, store
}

func do(s *Server, method, target string, body string, contentType string) *httptest.ResponseRecorder {
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
		r.Header.Set("Content-Type", contentType)
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)
	return w
}

func get(s *Server, target string) *httptest.ResponseRecorder {
	return do(s, http.MethodGet, target, "", "")
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apiError {
	t.Helper()
	var e apiError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e), w.Body.String())
	return e
}

func TestHealthcheck(t *testing.T) {
	s, _ := newTestServer(t)
	w := get(s, "/healthcheck")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestHomePage(t *testing.T) {
	s, _ := newTestServer(t)
	require.NotEmpty(t, s.Items())

	w := get(s, "/?w=900")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	body := w.Body.String()
	assert.Contains(t, body, "<title>Jillian Maffei Design</title>")
	assert.Contains(t, body, `id="tile-`+s.Items()[0].ID+`"`)
	assert.Contains(t, body, `href="/collections/`+s.Items()[0].CollectionSlug+`"`)
	assert.Contains(t, body, "/api/gallery?width=")
	assert.Contains(t, body, `property="og:type" content="website"`)
}

func TestHomePageIgnoresBadWidth(t *testing.T) {
	s, _ := newTestServer(t)
	w := get(s, "/?w=wide")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCollectionPage(t *testing.T) {
	s, _ := newTestServer(t)
	w := get(s, "/collections/wilfrid-wood-interview")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "<title>Talking bottoms with Wilfrid Wood - Maffei Design</title>")
	assert.Contains(t, body, `property="og:url" content="https://maffei.design/collections/wilfrid-wood-interview"`)
	assert.Contains(t, body, "The Craft of Ceramics")
	assert.Contains(t, body, "aspect-ratio: 1200 / 1600")
	assert.Contains(t, body, "/collections/wilfrid-wood-interview/share.png")
}

func TestNotFound(t *testing.T) {
	s, _ := newTestServer(t)
	for _, path := range []string{"/collections/nope", "/collections/nope/share.png", "/no/such/page"} {
		t.Run(path, func(t *testing.T) {
			w := get(s, path)
			assert.Equal(t, http.StatusNotFound, w.Code)
			body := w.Body.String()
			assert.Contains(t, body, "Page not found")
			assert.Contains(t, body, "The page you're looking for doesn't exist or has been moved.")
			assert.Contains(t, body, "Go back home")
		})
	}
}

func TestShareCode(t *testing.T) {
	s, _ := newTestServer(t)
	w := get(s, "/collections/wilfrid-wood-interview/share.png")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))
}

func TestAPIGallery(t *testing.T) {
	s, _ := newTestServer(t)
	w := get(s, "/api/gallery?width=900&gap=8")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var l gallery.Layout
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &l))
	assert.Equal(t, 900.0, l.Width)
	assert.Equal(t, 8.0, l.Gap)
	assert.Len(t, l.Items, len(s.Items()))
	assert.Greater(t, l.Height, 0.0)
	for _, p := range l.Items {
		assert.LessOrEqual(t, p.Right(), 900.0+1e-6, p.ID)
	}
}

func TestNonFiniteWidthRejected(t *testing.T) {
	s, _ := newTestServer(t)
	for _, target := range []string{"/gallery.svg?width=Inf", "/gallery.json?width=NaN"} {
		t.Run(target, func(t *testing.T) {
			w := get(s, target)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, errors.ErrCodeInvalidInput, decodeError(t, w).Code)
		})
	}

	w := get(s, "/?w=NaN")
	assert.Equal(t, http.StatusOK, w.Code, "home falls back to the default width")
}

func TestAPIGalleryZeroGap(t *testing.T) {
	s, _ := newTestServer(t)
	w := get(s, "/api/gallery?width=900&gap=0")
	require.Equal(t, http.StatusOK, w.Code)

	var l gallery.Layout
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &l))
	assert.Equal(t, 0.0, l.Gap)
	assert.Equal(t, gallery.Compute(s.Items(), 900, 0, nil), l)
}

func TestServerGapOption(t *testing.T) {
	zero := 0.0
	s, err := New(Options{Gap: &zero})
	require.NoError(t, err)

	var l gallery.Layout
	w := get(s, "/api/gallery?width=600")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &l))
	assert.Equal(t, 0.0, l.Gap)
}

func TestWriteJSONUnencodable(t *testing.T) {
	s, _ := newTestServer(t)
	w := httptest.NewRecorder()
	s.writeJSON(w, http.StatusOK, map[string]float64{"width": math.NaN()})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, errors.ErrCodeInternal, decodeError(t, w).Code)
}

func TestAPIGalleryDefaults(t *testing.T) {
	s, _ := newTestServer(t)
	w := get(s, "/api/gallery")
	require.Equal(t, http.StatusOK, w.Code)

	var l gallery.Layout
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &l))
	assert.Equal(t, 1200.0, l.Width)
	assert.Equal(t, gallery.DefaultGap, l.Gap)
}

func TestAPIGalleryBadInput(t *testing.T) {
	s, _ := newTestServer(t)
	for _, q := range []string{
		"width=abc", "width=-5", "width=0", "gap=x", "gap=-1",
		"width=NaN", "width=Inf", "width=%2BInf", "width=-Inf", "gap=NaN", "gap=Inf",
	} {
		t.Run(q, func(t *testing.T) {
			w := get(s, "/api/gallery?"+q)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, errors.ErrCodeInvalidInput, decodeError(t, w).Code)
		})
	}
}

func TestAPICollections(t *testing.T) {
	s, _ := newTestServer(t)
	w := get(s, "/api/collections")
	require.Equal(t, http.StatusOK, w.Code)

	var cs []struct {
		ID    string `json:"id"`
		Slug  string `json:"slug"`
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cs))
	assert.Len(t, cs, 6)
	assert.Equal(t, "wilfrid-wood-interview", cs[0].ID)
}

const validContact = `{"name":"Ada Lovelace","email":"ada@example.com","phone":"","subject":"New project","message":"We would like to talk about a new studio space."}`

func TestAPIContact(t *testing.T) {
	s, store := newTestServer(t)
	w := do(s, http.MethodPost, "/api/contact", validContact, "application/json")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res forms.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.Success)
	assert.Equal(t, forms.MsgContactSent, res.Message)
	assert.NotEmpty(t, res.ID)
	require.Len(t, store.Contacts(), 1)
	assert.Equal(t, "Ada Lovelace", store.Contacts()[0].Form.Name)
}

func TestAPIContactValidation(t *testing.T) {
	s, store := newTestServer(t)
	w := do(s, http.MethodPost, "/api/contact", `{"name":"A","email":"nope","subject":"Hi","message":"short"}`, "application/json")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	e := decodeError(t, w)
	assert.Equal(t, errors.ErrCodeValidation, e.Code)
	assert.Equal(t, forms.MsgNameTooShort, e.Fields["name"])
	assert.Equal(t, forms.MsgInvalidEmail, e.Fields["email"])
	assert.Equal(t, forms.MsgSubjectTooShort, e.Fields["subject"])
	assert.Equal(t, forms.MsgMessageTooShort, e.Fields["message"])
	assert.NotContains(t, e.Fields, "phone")
	assert.Empty(t, store.Contacts())
}

func TestAPIContactBadJSON(t *testing.T) {
	s, _ := newTestServer(t)
	for _, body := range []string{`{"name":`, `{"name":"Ada","extra":true}`} {
		w := do(s, http.MethodPost, "/api/contact", body, "application/json")
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, errors.ErrCodeInvalidInput, decodeError(t, w).Code)
	}
}

func TestAPINewsletterIsIdempotent(t *testing.T) {
	s, store := newTestServer(t)
	for _, email := range []string{"news@example.com", "NEWS@example.com"} {
		w := do(s, http.MethodPost, "/api/newsletter", `{"email":"`+email+`"}`, "application/json")
		require.Equal(t, http.StatusOK, w.Code)
		var res forms.Result
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, forms.MsgSubscribed, res.Message)
	}
	assert.Equal(t, 1, store.Subscribers())

	w := do(s, http.MethodPost, "/api/newsletter", `{"email":"bad"}`, "application/json")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestContactForm(t *testing.T) {
	s, store := newTestServer(t)

	w := get(s, "/contact")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "info@maffei.design")

	bad := url.Values{"name": {"A"}, "email": {"ada@example.com"}, "subject": {"Hello there"}, "message": {"We would like to talk about a project."}}
	w = do(s, http.MethodPost, "/contact", bad.Encode(), "application/x-www-form-urlencoded")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), forms.MsgNameTooShort)
	assert.Contains(t, w.Body.String(), `value="ada@example.com"`)
	assert.Empty(t, store.Contacts())

	good := url.Values{"name": {"Ada"}, "email": {"ada@example.com"}, "subject": {"Hello there"}, "message": {"We would like to talk about a project."}}
	w = do(s, http.MethodPost, "/contact", good.Encode(), "application/x-www-form-urlencoded")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), forms.MsgContactSent)
	assert.Len(t, store.Contacts(), 1)
}

func TestNewsletterForm(t *testing.T) {
	tests := []struct {
		email, ret, want string
	}{
		{"a@example.com", "/contact", "/contact?newsletter=ok"},
		{"nope", "/", "/?newsletter=invalid"},
		{"b@example.com", "//evil.example", "/?newsletter=ok"},
		{"c@example.com", "https://evil.example", "/?newsletter=ok"},
	}
	s, _ := newTestServer(t)
	for _, tt := range tests {
		form := url.Values{"email": {tt.email}, "return": {tt.ret}}
		w := do(s, http.MethodPost, "/newsletter", form.Encode(), "application/x-www-form-urlencoded")
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, tt.want, w.Header().Get("Location"))
	}

	w := get(s, "/?newsletter=ok")
	assert.Contains(t, w.Body.String(), forms.MsgSubscribed)
}

func TestArtifacts(t *testing.T) {
	s, _ := newTestServer(t)

	w := get(s, "/gallery.svg?width=800")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "<svg"))
	assert.Contains(t, w.Body.String(), `href="https://maffei.design/collections/`)

	w = get(s, "/gallery.pdf")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "gallery.pdf")

	w = get(s, "/gallery.gif")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, errors.ErrCodeInvalidFormat, decodeError(t, w).Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeValidation, http.StatusUnprocessableEntity},
		{errors.ErrCodeInvalidInput, http.StatusBadRequest},
		{errors.ErrCodeInvalidFormat, http.StatusBadRequest},
		{errors.ErrCodeCollectionNotFound, http.StatusNotFound},
		{errors.ErrCodeUnavailable, http.StatusServiceUnavailable},
		{errors.ErrCodeInternal, http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.code), tt.code)
	}
}

type routeHooks struct {
	observability.NoopHTTPHooks
	mu     sync.Mutex
	routes []string
	status []int
}

func (h *routeHooks) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, method+" "+route)
	h.status = append(h.status, status)
}

func TestRequestHooksUseRoutePattern(t *testing.T) {
	hooks := &routeHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	s, _ := newTestServer(t)
	get(s, "/collections/wilfrid-wood-interview")
	get(s, "/api/gallery?width=abc")

	assert.Equal(t, []string{"GET /collections/{id}", "GET /api/gallery"}, hooks.routes)
	assert.Equal(t, []int{http.StatusOK, http.StatusBadRequest}, hooks.status)
}

func TestListenAndServeShutsDown(t *testing.T) {
	s, _ := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0", time.Second) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
