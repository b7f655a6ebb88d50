package gateway

// GROQ queries, one per accessor. Every list query pins its own ordering;
// store-default order is never relied on.

const cafeInfoQuery = `*[_type == "cafeInfo"][0]{
  _id, _type, name, tagline, description, logo, address, contact,
  openingHours, socialMedia, deliveryPlatforms, features, seo, favicon,
  appleTouchIcon
}`

const menuCategoriesQuery = `*[_type == "menuCategory" && isActive == true] | order(order asc) {
  _id, _type, name, description, icon, color, isActive, order, image
}`

const menuItemFields = `
  _id, _type, name, description, price, currency, category, image,
  isAvailable, isPopular, isVegetarian, isVegan, isGlutenFree, allergens,
  preparationTime, calories, order
`

const menuItemsQuery = `*[_type == "menuItem" && isAvailable == true] | order(order asc) {` + menuItemFields + `}`

const menuItemsByCategoryQuery = `*[_type == "menuItem" && isAvailable == true && references($categoryId)] | order(order asc) {` + menuItemFields + `}`

const galleryItemFields = `
  _id, _type, title, description, type, image, videoUrl, videoThumbnail,
  category, tags, isFeatured, isActive, order, photographer, takenAt
`

const galleryItemsQuery = `*[_type == "galleryItem" && isActive == true] | order(order asc) {` + galleryItemFields + `}`

const galleryItemsByCategoryQuery = `*[_type == "galleryItem" && isActive == true && category == $category] | order(order asc) {` + galleryItemFields + `}`

const featuredGalleryItemsQuery = `*[_type == "galleryItem" && isActive == true && isFeatured == true] | order(order asc) {` + galleryItemFields + `}`

const specialOfferFields = `
  _id, _type, title, description, type, discountType, discountValue,
  originalPrice, offerPrice, currency, validFrom, validUntil,
  timeRestrictions, applicableItems, applicableCategories, image,
  termsAndConditions, isActive, isFeatured, order
`

const specialOffersQuery = `*[_type == "specialOffer" && isActive == true] | order(order asc) {` + specialOfferFields + `}`

// Active means the date range holds right now. Time-of-day and day-of-week
// restrictions are not part of this filter; see SpecialOffer.WithinTimeRestrictions.
const activeSpecialOffersQuery = `*[_type == "specialOffer" && isActive == true && validFrom <= now() && (validUntil == null || validUntil >= now())] | order(order asc) {` + specialOfferFields + `}`

const featuredSpecialOffersQuery = `*[_type == "specialOffer" && isActive == true && isFeatured == true] | order(order asc) {` + specialOfferFields + `}`

const testimonialFields = `
  _id, _type, customerName, customerInitials, content, rating, customerPhoto,
  customerLocation, visitDate, orderItems, isVerified, isFeatured, isActive,
  order, socialMedia, response
`

const testimonialsQuery = `*[_type == "testimonial" && isActive == true] | order(order asc) {` + testimonialFields + `}`

const featuredTestimonialsQuery = `*[_type == "testimonial" && isActive == true && isFeatured == true] | order(order asc) {` + testimonialFields + `}`

const testimonialsByRatingQuery = `*[_type == "testimonial" && isActive == true && rating >= $minRating] | order(rating desc) {` + testimonialFields + `}`

const blogPostFields = `
  _id, _type, title, slug, excerpt, content, featuredImage, author, category,
  tags, publishedAt, isPublished, isFeatured, readingTime, seo
`

const blogPostsQuery = `*[_type == "blogPost" && isPublished == true] | order(publishedAt desc) {` + blogPostFields + `}`

const featuredBlogPostsQuery = `*[_type == "blogPost" && isPublished == true && isFeatured == true] | order(publishedAt desc) {` + blogPostFields + `}`

const blogPostsByCategoryQuery = `*[_type == "blogPost" && isPublished == true && category == $category] | order(publishedAt desc) {` + blogPostFields + `}`

const blogPostBySlugQuery = `*[_type == "blogPost" && slug.current == $slug][0] {` + blogPostFields + `}`

// The deprecated "post" type predates blogPost and is kept as a fallback
// lookup so old content stays reachable.
const legacyPostsQuery = `*[_type == "post"] | order(publishedAt desc)`

const legacyPostBySlugQuery = `*[_type == "post" && slug.current == $slug][0]`
