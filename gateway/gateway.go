// Package gateway is the read side of the site: one accessor per content
// collection, each wrapping a GROQ query against the content store. Accessors
// never return an error; any failure reaching the store is logged and
// converted to an empty result, so page handlers degrade instead of breaking.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/viccon/sturdyc"

	"sipin/cafesite/models"
	"sipin/cafesite/sanity"
)

const (
	cacheTTL      = 60 * time.Second
	cacheCapacity = 1000
	cacheShards   = 10
	cacheEviction = 10
)

type Gateway struct {
	store *sanity.Client
	cache *sturdyc.Client[json.RawMessage]
	log   *slog.Logger
}

func New(store *sanity.Client, log *slog.Logger) *Gateway {
	if log == nil {
		log = slog.Default()
	}
	return &Gateway{
		store: store,
		cache: sturdyc.New[json.RawMessage](cacheCapacity, cacheShards, cacheTTL, cacheEviction),
		log:   log.With("component", "gateway"),
	}
}

// fetch runs one cached query and unmarshals the result into out. It reports
// whether out was populated; on any failure the caller's zero value stands.
func (g *Gateway) fetch(ctx context.Context, name, groq string, params map[string]any, out any) bool {
	key := name
	for k, v := range params {
		key += fmt.Sprintf("|%s=%v", k, v)
	}

	raw, err := g.cache.GetOrFetch(ctx, key, func(ctx context.Context) (json.RawMessage, error) {
		return g.store.Query(ctx, groq, params)
	})
	if err != nil {
		g.log.Error("content store query failed", "query", name, "error", err)
		return false
	}
	if isNullResult(raw) {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		g.log.Error("content store returned unexpected shape", "query", name, "error", err)
		return false
	}
	return true
}

func isNullResult(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// CafeInfo returns the singleton cafe document, or nil when the store has
// none or is unreachable. Callers substitute models.DefaultCafeInfo.
func (g *Gateway) CafeInfo(ctx context.Context) *models.CafeInfo {
	var info models.CafeInfo
	if !g.fetch(ctx, "cafeInfo", cafeInfoQuery, nil, &info) {
		return nil
	}
	return &info
}

func (g *Gateway) MenuCategories(ctx context.Context) []models.MenuCategory {
	out := make([]models.MenuCategory, 0)
	g.fetch(ctx, "menuCategories", menuCategoriesQuery, nil, &out)
	return out
}

func (g *Gateway) MenuItems(ctx context.Context) []models.MenuItem {
	out := make([]models.MenuItem, 0)
	g.fetch(ctx, "menuItems", menuItemsQuery, nil, &out)
	return out
}

func (g *Gateway) MenuItemsByCategory(ctx context.Context, categoryID string) []models.MenuItem {
	out := make([]models.MenuItem, 0)
	g.fetch(ctx, "menuItemsByCategory", menuItemsByCategoryQuery, map[string]any{"categoryId": categoryID}, &out)
	return out
}

func (g *Gateway) GalleryItems(ctx context.Context) []models.GalleryItem {
	out := make([]models.GalleryItem, 0)
	g.fetch(ctx, "galleryItems", galleryItemsQuery, nil, &out)
	return out
}

func (g *Gateway) GalleryItemsByCategory(ctx context.Context, category string) []models.GalleryItem {
	out := make([]models.GalleryItem, 0)
	g.fetch(ctx, "galleryItemsByCategory", galleryItemsByCategoryQuery, map[string]any{"category": category}, &out)
	return out
}

func (g *Gateway) FeaturedGalleryItems(ctx context.Context) []models.GalleryItem {
	out := make([]models.GalleryItem, 0)
	g.fetch(ctx, "featuredGalleryItems", featuredGalleryItemsQuery, nil, &out)
	return out
}

func (g *Gateway) SpecialOffers(ctx context.Context) []models.SpecialOffer {
	out := make([]models.SpecialOffer, 0)
	g.fetch(ctx, "specialOffers", specialOffersQuery, nil, &out)
	return out
}

// ActiveSpecialOffers filters on the active flag and the validFrom/validUntil
// date range only. Offers carrying time-of-day or day-of-week restrictions
// are still included; use WithinTimeRestrictions for the stricter cut.
func (g *Gateway) ActiveSpecialOffers(ctx context.Context) []models.SpecialOffer {
	out := make([]models.SpecialOffer, 0)
	g.fetch(ctx, "activeSpecialOffers", activeSpecialOffersQuery, nil, &out)
	return out
}

func (g *Gateway) FeaturedSpecialOffers(ctx context.Context) []models.SpecialOffer {
	out := make([]models.SpecialOffer, 0)
	g.fetch(ctx, "featuredSpecialOffers", featuredSpecialOffersQuery, nil, &out)
	return out
}

func (g *Gateway) Testimonials(ctx context.Context) []models.Testimonial {
	out := make([]models.Testimonial, 0)
	g.fetch(ctx, "testimonials", testimonialsQuery, nil, &out)
	return out
}

func (g *Gateway) FeaturedTestimonials(ctx context.Context) []models.Testimonial {
	out := make([]models.Testimonial, 0)
	g.fetch(ctx, "featuredTestimonials", featuredTestimonialsQuery, nil, &out)
	return out
}

func (g *Gateway) TestimonialsByRating(ctx context.Context, minRating int) []models.Testimonial {
	out := make([]models.Testimonial, 0)
	g.fetch(ctx, "testimonialsByRating", testimonialsByRatingQuery, map[string]any{"minRating": minRating}, &out)
	return out
}

func (g *Gateway) BlogPosts(ctx context.Context) []models.BlogPost {
	out := make([]models.BlogPost, 0)
	g.fetch(ctx, "blogPosts", blogPostsQuery, nil, &out)
	return out
}

func (g *Gateway) FeaturedBlogPosts(ctx context.Context) []models.BlogPost {
	out := make([]models.BlogPost, 0)
	g.fetch(ctx, "featuredBlogPosts", featuredBlogPostsQuery, nil, &out)
	return out
}

func (g *Gateway) BlogPostsByCategory(ctx context.Context, category string) []models.BlogPost {
	out := make([]models.BlogPost, 0)
	g.fetch(ctx, "blogPostsByCategory", blogPostsByCategoryQuery, map[string]any{"category": category}, &out)
	return out
}

// BlogPostBySlug looks the slug up under the current blogPost type first and
// falls back to the deprecated post type, normalized into the current shape.
// A nil return means not found (the caller's 404), never a store error.
func (g *Gateway) BlogPostBySlug(ctx context.Context, slug string) *models.BlogPost {
	var post models.BlogPost
	if g.fetch(ctx, "blogPostBySlug", blogPostBySlugQuery, map[string]any{"slug": slug}, &post) {
		return &post
	}
	return g.LegacyPostBySlug(ctx, slug)
}

// LegacyPostBySlug looks the slug up under the deprecated post type only,
// already normalized. Nil means not found.
func (g *Gateway) LegacyPostBySlug(ctx context.Context, slug string) *models.BlogPost {
	var legacy models.LegacyPost
	if g.fetch(ctx, "legacyPostBySlug", legacyPostBySlugQuery, map[string]any{"slug": slug}, &legacy) {
		return legacy.ToBlogPost()
	}
	return nil
}

func (g *Gateway) LegacyPosts(ctx context.Context) []models.BlogPost {
	raw := make([]models.LegacyPost, 0)
	g.fetch(ctx, "legacyPosts", legacyPostsQuery, nil, &raw)

	out := make([]models.BlogPost, 0, len(raw))
	for i := range raw {
		out = append(out, *raw[i].ToBlogPost())
	}
	return out
}
