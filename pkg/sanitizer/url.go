package sanitizer

import (
	"net/url"
	"strings"
)

// NormalizeImage cleans an image reference. Absolute http(s) URLs get a
// lowercase host; anything else is treated as a relative asset path.
func NormalizeImage(image string) string {
	image = strings.TrimSpace(image)
	if image == "" {
		return ""
	}

	lower := strings.ToLower(image)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		u, err := url.Parse(image)
		if err != nil || u.Host == "" {
			return ""
		}
		u.Scheme = strings.ToLower(u.Scheme)
		u.Host = strings.ToLower(u.Host)
		return u.String()
	}

	return strings.ReplaceAll(image, `\`, "/")
}
