package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sipin/cafesite/contact"
	"sipin/cafesite/gateway"
	"sipin/cafesite/models"
	"sipin/cafesite/sanity"
)

type stubVerifier struct{ err error }

func (s stubVerifier) Verify(context.Context, string, string) error { return s.err }

type stubStore struct {
	id  string
	err error
}

func (s stubStore) Create(context.Context, any) (string, error) { return s.id, s.err }

type stubNotifier struct{ err error }

func (s stubNotifier) Notify(context.Context, *models.ContactSubmission) error { return s.err }

func testAPI(t *testing.T, store http.HandlerFunc) *API {
	t.Helper()
	ts := httptest.NewServer(store)
	t.Cleanup(ts.Close)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := sanity.NewClient(sanity.Config{
		ProjectID: "test",
		Dataset:   "test",
		BaseURL:   ts.URL,
		Timeout:   2 * time.Second,
	})
	return &API{
		Gateway:  gateway.New(client, log),
		Pipeline: contact.NewPipeline(stubVerifier{}, stubStore{id: "sub-1"}, nil, stubNotifier{}, log),
		Images:   client,
		Log:      log,
	}
}

func testRouter(a *API) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/contact", a.ContactHandler).Methods("POST")
	r.HandleFunc("/api/home", a.HomeHandler).Methods("GET")
	r.HandleFunc("/api/cafe-info", a.CafeInfoHandler).Methods("GET")
	r.HandleFunc("/api/menu/categories", a.MenuCategoriesHandler).Methods("GET")
	r.HandleFunc("/api/menu/items", a.MenuItemsHandler).Methods("GET")
	r.HandleFunc("/api/gallery", a.GalleryHandler).Methods("GET")
	r.HandleFunc("/api/offers", a.OffersHandler).Methods("GET")
	r.HandleFunc("/api/testimonials", a.TestimonialsHandler).Methods("GET")
	r.HandleFunc("/api/blog", a.BlogHandler).Methods("GET")
	r.HandleFunc("/api/blog/{slug}", a.BlogPostHandler).Methods("GET")
	r.HandleFunc("/api/image-url", a.ImageURLHandler).Methods("GET")
	return r
}

func doJSON(t *testing.T, router *mux.Router, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func failingStoreAPI(t *testing.T) *API {
	return testAPI(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "store down", http.StatusInternalServerError)
	})
}

func TestContactSuccess(t *testing.T) {
	router := testRouter(failingStoreAPI(t))
	rec := doJSON(t, router, "POST", "/api/contact", `{
		"firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com",
		"subject": "Catering", "message": "Hello", "turnstileToken": "tok"
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var result contact.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "Message sent successfully and saved to our system", result.Message)
	assert.Equal(t, "sub-1", result.SubmissionID)
}

func TestContactRejectsMalformedJSON(t *testing.T) {
	router := testRouter(failingStoreAPI(t))
	rec := doJSON(t, router, "POST", "/api/contact", `{"firstName": `)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid request payload")
}

func TestContactRejectsBadEmail(t *testing.T) {
	router := testRouter(failingStoreAPI(t))
	rec := doJSON(t, router, "POST", "/api/contact", `{
		"firstName": "Ada", "lastName": "Lovelace", "email": "not-an-email",
		"subject": "Catering", "message": "Hello", "turnstileToken": "tok"
	}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email format")
}

// A dead content store degrades reads to empty JSON arrays, never errors.
func TestReadEndpointsServeEmptyCollectionsWhenStoreDown(t *testing.T) {
	router := testRouter(failingStoreAPI(t))

	for _, target := range []string{
		"/api/menu/categories",
		"/api/menu/items",
		"/api/menu/items?category=cat-1",
		"/api/gallery",
		"/api/gallery?featured=true",
		"/api/offers",
		"/api/offers?active=true",
		"/api/testimonials",
		"/api/blog",
	} {
		rec := doJSON(t, router, "GET", target, "")
		assert.Equal(t, http.StatusOK, rec.Code, target)
		assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()), target)
	}
}

func TestCafeInfoFallsBackToDefaults(t *testing.T) {
	router := testRouter(failingStoreAPI(t))
	rec := doJSON(t, router, "GET", "/api/cafe-info", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var info models.CafeInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "The Sip-In Cafe", info.Name)
	assert.Equal(t, "Leicester", info.Address.City)
}

func TestHomeAggregatesInfoAndOffers(t *testing.T) {
	router := testRouter(failingStoreAPI(t))
	rec := doJSON(t, router, "GET", "/api/home", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var payload struct {
		CafeInfo      models.CafeInfo       `json:"cafeInfo"`
		SpecialOffers []models.SpecialOffer `json:"specialOffers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "The Sip-In Cafe", payload.CafeInfo.Name)
	assert.NotNil(t, payload.SpecialOffers)
	assert.Empty(t, payload.SpecialOffers)
}

func TestMenuItemsPassesCategoryFilterToStore(t *testing.T) {
	var sawQuery, sawParam string
	api := testAPI(t, func(w http.ResponseWriter, r *http.Request) {
		sawQuery = r.URL.Query().Get("query")
		sawParam = r.URL.Query().Get("$categoryId")
		fmt.Fprint(w, `{"result": []}`)
	})
	router := testRouter(api)

	rec := doJSON(t, router, "GET", "/api/menu/items?category=cat-7", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, sawQuery, "references($categoryId)")
	assert.Equal(t, `"cat-7"`, sawParam)
}

func TestTestimonialsValidatesMinRating(t *testing.T) {
	router := testRouter(failingStoreAPI(t))

	for _, bad := range []string{"abc", "0", "6", "-1"} {
		rec := doJSON(t, router, "GET", "/api/testimonials?min_rating="+bad, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
	}

	rec := doJSON(t, router, "GET", "/api/testimonials?min_rating=4", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBlogPostNotFound(t *testing.T) {
	api := testAPI(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result": null}`)
	})
	router := testRouter(api)

	rec := doJSON(t, router, "GET", "/api/blog/never-written", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Post not found")
}

func TestBlogPostFound(t *testing.T) {
	api := testAPI(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result": {"_id":"b1","title":"Latte Art 101","slug":{"current":"latte-art-101"},"isPublished":true}}`)
	})
	router := testRouter(api)

	rec := doJSON(t, router, "GET", "/api/blog/latte-art-101", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var post models.BlogPost
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &post))
	assert.Equal(t, "Latte Art 101", post.Title)
}

func TestImageURLEndpoint(t *testing.T) {
	router := testRouter(failingStoreAPI(t))

	rec := doJSON(t, router, "GET", "/api/image-url?ref=image-abc123-800x600-jpg&w=400&h=300&q=80", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "https://cdn.sanity.io/images/test/test/abc123-800x600.jpg?h=300&q=80&w=400", payload["url"])

	rec = doJSON(t, router, "GET", "/api/image-url?ref=garbage", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, "GET", "/api/image-url", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
