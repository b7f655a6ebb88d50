package models

// DefaultCafeInfo returns the hard-coded fallback used whenever the content
// store has no cafeInfo document or cannot be reached. The values match what
// the site shipped with before the CMS held any content.
func DefaultCafeInfo() *CafeInfo {
	return &CafeInfo{
		Name:        "The Sip-In Cafe",
		Tagline:     "Where every sip tells a story",
		Description: "Experience the perfect blend of coffee, community, and comfort in the heart of Leicester.",
		Address: &Address{
			Street:   "20 Kemble Gallery",
			City:     "Leicester",
			Postcode: "LE1 3YT",
			Country:  "United Kingdom",
		},
		Contact: &Contact{
			Phone: "0116 123 4567",
			Email: "hello@thesipincafe.co.uk",
		},
		SocialMedia: &SocialMedia{
			Instagram: "https://instagram.com/thesipincafe",
			Facebook:  "https://facebook.com/thesipincafe",
			TikTok:    "https://tiktok.com/@thesipincafe",
		},
		DeliveryPlatforms: &DeliveryPlatforms{
			UberEats:  "https://www.ubereats.com",
			Deliveroo: "https://deliveroo.co.uk",
			JustEat:   "https://www.just-eat.co.uk",
		},
	}
}
