package sanity

import (
	"fmt"
	"net/url"
	"regexp"

	"sipin/cafesite/models"
)

// Asset refs look like "image-<id>-<width>x<height>-<format>".
var imageRefPattern = regexp.MustCompile(`^image-([A-Za-z0-9]+)-(\d+x\d+)-([a-z0-9]+)$`)

// ImageURL maps an image reference to a CDN URL. Width, height and quality
// are optional; pass 0 to leave them out. A malformed or missing reference
// yields "" so callers can render a placeholder instead of a broken URL.
func (c *Client) ImageURL(img *models.Image, width, height, quality int) string {
	if img == nil || img.Type != "image" || img.Asset.Ref == "" {
		return ""
	}
	if c.cfg.ProjectID == "" || c.cfg.Dataset == "" {
		return ""
	}

	m := imageRefPattern.FindStringSubmatch(img.Asset.Ref)
	if m == nil {
		return ""
	}
	id, dims, format := m[1], m[2], m[3]

	base := fmt.Sprintf("https://cdn.sanity.io/images/%s/%s/%s-%s.%s",
		c.cfg.ProjectID, c.cfg.Dataset, id, dims, format)

	values := url.Values{}
	if width > 0 {
		values.Set("w", fmt.Sprint(width))
	}
	if height > 0 {
		values.Set("h", fmt.Sprint(height))
	}
	if quality > 0 {
		values.Set("q", fmt.Sprint(quality))
	}
	if len(values) == 0 {
		return base
	}
	return base + "?" + values.Encode()
}
