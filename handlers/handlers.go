// Package handlers provides the HTTP surface of the café site backend: the
// contact-form endpoint and the JSON read endpoints the page frontend
// consumes. Handlers stay thin; content access lives in the gateway and the
// submission flow in the contact pipeline.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"

	"sipin/cafesite/contact"
	"sipin/cafesite/gateway"
	"sipin/cafesite/middleware/logkafka"
	"sipin/cafesite/models"
	"sipin/cafesite/sanity"
)

type API struct {
	Gateway  *gateway.Gateway
	Pipeline *contact.Pipeline
	Images   *sanity.Client
	Log      *slog.Logger
}

// Define Prometheus metrics
var (
	contactRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_requests_total",
			Help: "Total number of contact form submissions by outcome",
		},
		[]string{"status"},
	)

	contactDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "contact_request_duration_seconds",
			Help:    "Histogram of contact submission durations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)

	contentRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_requests_total",
			Help: "Total number of content read requests by collection",
		},
		[]string{"collection"},
	)
)

func Init() {
	// Register metrics with Prometheus
	prometheus.MustRegister(contactRequests)
	prometheus.MustRegister(contactDuration)
	prometheus.MustRegister(contentRequests)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

type messageResponse struct {
	Message string `json:"message"`
}

// ContactHandler handles POST /api/contact.
func (a *API) ContactHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ctx, span := otel.Tracer("cafesite").Start(r.Context(), "ContactHandler")
	defer span.End()

	var req contact.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, messageResponse{Message: "Invalid request payload"})
		contactRequests.WithLabelValues("invalid_payload").Inc()
		contactDuration.WithLabelValues("invalid_payload").Observe(time.Since(start).Seconds())
		return
	}

	userAgent := r.Header.Get("User-Agent")
	if userAgent == "" {
		userAgent = "Unknown"
	}
	meta := contact.Meta{
		IPAddress: logkafka.ClientIP(r),
		UserAgent: userAgent,
	}

	result, perr := a.Pipeline.Process(ctx, req, meta)
	if perr != nil {
		span.RecordError(perr)
		respondJSON(w, perr.Status(), messageResponse{Message: perr.Message})
		contactRequests.WithLabelValues(string(perr.Kind)).Inc()
		contactDuration.WithLabelValues(string(perr.Kind)).Observe(time.Since(start).Seconds())
		return
	}

	respondJSON(w, http.StatusOK, result)
	contactRequests.WithLabelValues("success").Inc()
	contactDuration.WithLabelValues("success").Observe(time.Since(start).Seconds())
}

// CafeInfoHandler returns the cafe singleton, substituting the built-in
// default when the store has nothing.
func (a *API) CafeInfoHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("cafesite").Start(r.Context(), "CafeInfoHandler")
	defer span.End()
	contentRequests.WithLabelValues("cafeInfo").Inc()

	info := a.Gateway.CafeInfo(ctx)
	if info == nil {
		info = models.DefaultCafeInfo()
	}
	respondJSON(w, http.StatusOK, info)
}

func (a *API) MenuCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("cafesite").Start(r.Context(), "MenuCategoriesHandler")
	defer span.End()
	contentRequests.WithLabelValues("menuCategories").Inc()

	respondJSON(w, http.StatusOK, a.Gateway.MenuCategories(ctx))
}

func (a *API) MenuItemsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("cafesite").Start(r.Context(), "MenuItemsHandler")
	defer span.End()
	contentRequests.WithLabelValues("menuItems").Inc()

	if categoryID := r.URL.Query().Get("category"); categoryID != "" {
		respondJSON(w, http.StatusOK, a.Gateway.MenuItemsByCategory(ctx, categoryID))
		return
	}
	respondJSON(w, http.StatusOK, a.Gateway.MenuItems(ctx))
}

func (a *API) GalleryHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("cafesite").Start(r.Context(), "GalleryHandler")
	defer span.End()
	contentRequests.WithLabelValues("gallery").Inc()

	query := r.URL.Query()
	switch {
	case query.Get("featured") == "true":
		respondJSON(w, http.StatusOK, a.Gateway.FeaturedGalleryItems(ctx))
	case query.Get("category") != "":
		respondJSON(w, http.StatusOK, a.Gateway.GalleryItemsByCategory(ctx, query.Get("category")))
	default:
		respondJSON(w, http.StatusOK, a.Gateway.GalleryItems(ctx))
	}
}

// OffersHandler serves special offers. ?active=true applies the date-range
// filter; adding &within_hours=true also enforces each offer's time-of-day
// and day-of-week restrictions, which the plain active filter treats as
// presentation hints.
func (a *API) OffersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("cafesite").Start(r.Context(), "OffersHandler")
	defer span.End()
	contentRequests.WithLabelValues("offers").Inc()

	query := r.URL.Query()
	switch {
	case query.Get("active") == "true":
		offers := a.Gateway.ActiveSpecialOffers(ctx)
		if query.Get("within_hours") == "true" {
			now := time.Now()
			filtered := make([]models.SpecialOffer, 0, len(offers))
			for _, offer := range offers {
				if offer.WithinTimeRestrictions(now) {
					filtered = append(filtered, offer)
				}
			}
			offers = filtered
		}
		respondJSON(w, http.StatusOK, offers)
	case query.Get("featured") == "true":
		respondJSON(w, http.StatusOK, a.Gateway.FeaturedSpecialOffers(ctx))
	default:
		respondJSON(w, http.StatusOK, a.Gateway.SpecialOffers(ctx))
	}
}

func (a *API) TestimonialsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("cafesite").Start(r.Context(), "TestimonialsHandler")
	defer span.End()
	contentRequests.WithLabelValues("testimonials").Inc()

	query := r.URL.Query()
	switch {
	case query.Get("featured") == "true":
		respondJSON(w, http.StatusOK, a.Gateway.FeaturedTestimonials(ctx))
	case query.Get("min_rating") != "":
		minRating, err := strconv.Atoi(query.Get("min_rating"))
		if err != nil || minRating < 1 || minRating > 5 {
			respondJSON(w, http.StatusBadRequest, messageResponse{Message: "min_rating must be a number between 1 and 5"})
			return
		}
		respondJSON(w, http.StatusOK, a.Gateway.TestimonialsByRating(ctx, minRating))
	default:
		respondJSON(w, http.StatusOK, a.Gateway.Testimonials(ctx))
	}
}

func (a *API) BlogHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("cafesite").Start(r.Context(), "BlogHandler")
	defer span.End()
	contentRequests.WithLabelValues("blog").Inc()

	query := r.URL.Query()
	switch {
	case query.Get("featured") == "true":
		respondJSON(w, http.StatusOK, a.Gateway.FeaturedBlogPosts(ctx))
	case query.Get("category") != "":
		respondJSON(w, http.StatusOK, a.Gateway.BlogPostsByCategory(ctx, query.Get("category")))
	default:
		respondJSON(w, http.StatusOK, a.Gateway.BlogPosts(ctx))
	}
}

// BlogPostHandler resolves one post by slug, falling back to the legacy
// document type. A miss in both is the 404 the blog page renders.
func (a *API) BlogPostHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("cafesite").Start(r.Context(), "BlogPostHandler")
	defer span.End()
	contentRequests.WithLabelValues("blogPost").Inc()

	slug := mux.Vars(r)["slug"]
	post := a.Gateway.BlogPostBySlug(ctx, slug)
	if post == nil {
		respondJSON(w, http.StatusNotFound, messageResponse{Message: "Post not found"})
		return
	}
	respondJSON(w, http.StatusOK, post)
}

// HomeHandler aggregates what the home page needs. The two fetches are
// independent and idempotent, so they run in parallel.
func (a *API) HomeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("cafesite").Start(r.Context(), "HomeHandler")
	defer span.End()
	contentRequests.WithLabelValues("home").Inc()

	var (
		wg     sync.WaitGroup
		info   *models.CafeInfo
		offers []models.SpecialOffer
	)
	wg.Add(2)
	go func(ctx context.Context) {
		defer wg.Done()
		info = a.Gateway.CafeInfo(ctx)
	}(ctx)
	go func(ctx context.Context) {
		defer wg.Done()
		offers = a.Gateway.FeaturedSpecialOffers(ctx)
	}(ctx)
	wg.Wait()

	if info == nil {
		info = models.DefaultCafeInfo()
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"cafeInfo":      info,
		"specialOffers": offers,
	})
}

// ImageURLHandler maps a content-store image reference to a CDN URL. A 404
// tells the frontend to render its placeholder.
func (a *API) ImageURLHandler(w http.ResponseWriter, r *http.Request) {
	_, span := otel.Tracer("cafesite").Start(r.Context(), "ImageURLHandler")
	defer span.End()
	contentRequests.WithLabelValues("image").Inc()

	query := r.URL.Query()
	ref := query.Get("ref")
	if ref == "" {
		respondJSON(w, http.StatusBadRequest, messageResponse{Message: "ref is required"})
		return
	}

	img := &models.Image{Type: "image"}
	img.Asset.Ref = ref
	img.Asset.Type = "reference"

	width, _ := strconv.Atoi(query.Get("w"))
	height, _ := strconv.Atoi(query.Get("h"))
	quality, _ := strconv.Atoi(query.Get("q"))

	url := a.Images.ImageURL(img, width, height, quality)
	if url == "" {
		respondJSON(w, http.StatusNotFound, messageResponse{Message: "Unknown image reference"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"url": url})
}
