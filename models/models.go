package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Documents mirror the shapes the content store returns. Optional fields are
// pointers or omitempty so an absent field survives a round trip unchanged.

type Image struct {
	Type  string `json:"_type"`
	Asset struct {
		Ref  string `json:"_ref"`
		Type string `json:"_type"`
	} `json:"asset"`
}

type Slug struct {
	Current string `json:"current"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Address struct {
	Street      string       `json:"street"`
	City        string       `json:"city"`
	Postcode    string       `json:"postcode"`
	Country     string       `json:"country"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

type Contact struct {
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Website string `json:"website,omitempty"`
}

type OpeningHours struct {
	Day       string `json:"day"`
	IsOpen    bool   `json:"isOpen"`
	OpenTime  string `json:"openTime"`
	CloseTime string `json:"closeTime"`
}

type SocialMedia struct {
	Instagram string `json:"instagram,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	TikTok    string `json:"tiktok,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
}

type DeliveryPlatforms struct {
	UberEats  string `json:"uberEats,omitempty"`
	Deliveroo string `json:"deliveroo,omitempty"`
	JustEat   string `json:"justEat,omitempty"`
}

type SEO struct {
	MetaTitle       string   `json:"metaTitle,omitempty"`
	MetaDescription string   `json:"metaDescription,omitempty"`
	Keywords        []string `json:"keywords,omitempty"`
}

// CafeInfo is a singleton document. When the store has no instance the
// gateway hands out DefaultCafeInfo instead.
type CafeInfo struct {
	ID                string             `json:"_id,omitempty"`
	Type              string             `json:"_type,omitempty"`
	Name              string             `json:"name"`
	Tagline           string             `json:"tagline,omitempty"`
	Description       string             `json:"description,omitempty"`
	Logo              *Image             `json:"logo,omitempty"`
	Favicon           *Image             `json:"favicon,omitempty"`
	AppleTouchIcon    *Image             `json:"appleTouchIcon,omitempty"`
	Address           *Address           `json:"address,omitempty"`
	Contact           *Contact           `json:"contact,omitempty"`
	OpeningHours      []OpeningHours     `json:"openingHours,omitempty"`
	SocialMedia       *SocialMedia       `json:"socialMedia,omitempty"`
	DeliveryPlatforms *DeliveryPlatforms `json:"deliveryPlatforms,omitempty"`
	Features          []string           `json:"features,omitempty"`
	SEO               *SEO               `json:"seo,omitempty"`
}

type MenuCategory struct {
	ID          string `json:"_id"`
	Type        string `json:"_type,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	IsActive    bool   `json:"isActive"`
	Order       int    `json:"order"`
	Image       *Image `json:"image,omitempty"`
}

type Reference struct {
	Ref  string `json:"_ref"`
	Type string `json:"_type"`
}

type MenuItem struct {
	ID              string    `json:"_id"`
	Type            string    `json:"_type,omitempty"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Price           float64   `json:"price"`
	Currency        string    `json:"currency"`
	Category        Reference `json:"category"`
	Image           *Image    `json:"image,omitempty"`
	IsAvailable     bool      `json:"isAvailable"`
	IsPopular       bool      `json:"isPopular"`
	IsVegetarian    bool      `json:"isVegetarian"`
	IsVegan         bool      `json:"isVegan"`
	IsGlutenFree    bool      `json:"isGlutenFree"`
	Allergens       []string  `json:"allergens,omitempty"`
	PreparationTime int       `json:"preparationTime,omitempty"`
	Calories        int       `json:"calories,omitempty"`
	Order           int       `json:"order"`
}

type GalleryItem struct {
	ID             string   `json:"_id"`
	Type           string   `json:"_type,omitempty"`
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	MediaType      string   `json:"type"` // "image" or "video"
	Image          *Image   `json:"image,omitempty"`
	VideoURL       string   `json:"videoUrl,omitempty"`
	VideoThumbnail *Image   `json:"videoThumbnail,omitempty"`
	Category       string   `json:"category"`
	Tags           []string `json:"tags,omitempty"`
	IsFeatured     bool     `json:"isFeatured"`
	IsActive       bool     `json:"isActive"`
	Order          int      `json:"order"`
	Photographer   string   `json:"photographer,omitempty"`
	TakenAt        string   `json:"takenAt,omitempty"`
}

type TimeRestrictions struct {
	StartTime  string   `json:"startTime,omitempty"` // "HH:MM"
	EndTime    string   `json:"endTime,omitempty"`
	DaysOfWeek []string `json:"daysOfWeek,omitempty"`
}

type SpecialOffer struct {
	ID                   string            `json:"_id"`
	Type                 string            `json:"_type,omitempty"`
	Title                string            `json:"title"`
	Description          string            `json:"description"`
	OfferType            string            `json:"type"`
	DiscountType         string            `json:"discountType,omitempty"`
	DiscountValue        float64           `json:"discountValue,omitempty"`
	OriginalPrice        float64           `json:"originalPrice,omitempty"`
	OfferPrice           float64           `json:"offerPrice,omitempty"`
	Currency             string            `json:"currency"`
	ValidFrom            string            `json:"validFrom"`
	ValidUntil           string            `json:"validUntil,omitempty"`
	TimeRestrictions     *TimeRestrictions `json:"timeRestrictions,omitempty"`
	ApplicableItems      []Reference       `json:"applicableItems,omitempty"`
	ApplicableCategories []Reference       `json:"applicableCategories,omitempty"`
	Image                *Image            `json:"image,omitempty"`
	TermsAndConditions   string            `json:"termsAndConditions,omitempty"`
	IsActive             bool              `json:"isActive"`
	IsFeatured           bool              `json:"isFeatured"`
	Order                int               `json:"order"`
}

// WithinTimeRestrictions reports whether t falls inside the offer's optional
// time-of-day and day-of-week window. Offers without restrictions always
// match. The date-range check (validFrom/validUntil) is done by the store
// query, not here.
func (o *SpecialOffer) WithinTimeRestrictions(t time.Time) bool {
	tr := o.TimeRestrictions
	if tr == nil {
		return true
	}

	if len(tr.DaysOfWeek) > 0 {
		day := t.Weekday().String()
		matched := false
		for _, d := range tr.DaysOfWeek {
			if strings.EqualFold(d, day) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if tr.StartTime != "" && tr.EndTime != "" {
		now := t.Format("15:04")
		if tr.EndTime < tr.StartTime {
			// Window crosses midnight.
			return now >= tr.StartTime || now <= tr.EndTime
		}
		return now >= tr.StartTime && now <= tr.EndTime
	}

	return true
}

type Testimonial struct {
	ID               string      `json:"_id"`
	Type             string      `json:"_type,omitempty"`
	CustomerName     string      `json:"customerName"`
	CustomerInitials string      `json:"customerInitials,omitempty"`
	Content          string      `json:"content"`
	Rating           int         `json:"rating"`
	CustomerPhoto    *Image      `json:"customerPhoto,omitempty"`
	CustomerLocation string      `json:"customerLocation,omitempty"`
	VisitDate        string      `json:"visitDate,omitempty"`
	OrderItems       []Reference `json:"orderItems,omitempty"`
	IsVerified       bool        `json:"isVerified"`
	IsFeatured       bool        `json:"isFeatured"`
	IsActive         bool        `json:"isActive"`
	Order            int         `json:"order"`
	SocialMedia      string      `json:"socialMedia,omitempty"`
	Response         string      `json:"response,omitempty"`
}

type Author struct {
	Name  string `json:"name"`
	Role  string `json:"role,omitempty"`
	Photo *Image `json:"photo,omitempty"`
}

type BlogPost struct {
	ID            string            `json:"_id"`
	Type          string            `json:"_type,omitempty"`
	Title         string            `json:"title"`
	Slug          Slug              `json:"slug"`
	Excerpt       string            `json:"excerpt,omitempty"`
	Content       []json.RawMessage `json:"content,omitempty"`
	FeaturedImage *Image            `json:"featuredImage,omitempty"`
	Author        *Author           `json:"author,omitempty"`
	Category      string            `json:"category,omitempty"`
	Tags          []string          `json:"tags,omitempty"`
	PublishedAt   string            `json:"publishedAt"`
	IsPublished   bool              `json:"isPublished"`
	IsFeatured    bool              `json:"isFeatured"`
	ReadingTime   int               `json:"readingTime,omitempty"`
	SEO           *SEO              `json:"seo,omitempty"`
}

// LegacyPost is the deprecated "post" document shape that predates blogPost.
// It is normalized into BlogPost right after fetch so nothing downstream has
// to care which encoding the store held.
type LegacyPost struct {
	ID          string            `json:"_id"`
	Type        string            `json:"_type"`
	Title       string            `json:"title"`
	Slug        Slug              `json:"slug"`
	Excerpt     string            `json:"excerpt,omitempty"`
	Body        []json.RawMessage `json:"body,omitempty"`
	MainImage   *Image            `json:"mainImage,omitempty"`
	PublishedAt string            `json:"publishedAt"`
}

// ToBlogPost converts the legacy encoding into the current one. Legacy posts
// had no draft state, so anything the store returns counts as published.
func (p *LegacyPost) ToBlogPost() *BlogPost {
	return &BlogPost{
		ID:            p.ID,
		Type:          p.Type,
		Title:         p.Title,
		Slug:          p.Slug,
		Excerpt:       p.Excerpt,
		Content:       p.Body,
		FeaturedImage: p.MainImage,
		PublishedAt:   p.PublishedAt,
		IsPublished:   true,
	}
}

// ContactSubmission is the only document this service writes. The bson tags
// are for the dead-letter archive, which keeps submissions the content store
// refused.
type ContactSubmission struct {
	Type           string `json:"_type" bson:"type"`
	FirstName      string `json:"firstName" bson:"firstName"`
	LastName       string `json:"lastName" bson:"lastName"`
	Email          string `json:"email" bson:"email"`
	Subject        string `json:"subject" bson:"subject"`
	Message        string `json:"message" bson:"message"`
	SubmittedAt    string `json:"submittedAt" bson:"submittedAt"`
	IPAddress      string `json:"ipAddress" bson:"ipAddress"`
	UserAgent      string `json:"userAgent" bson:"userAgent"`
	TurnstileToken string `json:"turnstileToken,omitempty" bson:"turnstileToken,omitempty"`
	IsProcessed    bool   `json:"isProcessed" bson:"isProcessed"`
}
