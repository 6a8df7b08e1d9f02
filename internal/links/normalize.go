package links

import (
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateLink accepts absolute http and https URLs with a host.
func ValidateLink(link string) error {
	if strings.TrimSpace(link) == "" {
		return ErrLinkRequired
	}
	if err := validate.Var(link, "http_url"); err != nil {
		return ErrInvalidLink
	}
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return ErrInvalidLink
	}
	return nil
}

// Normalize reduces a workflow result to its canonical contextualized form:
// no scheme, no surrounding slashes or spaces, lower-case.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "/")
	s = strings.TrimSuffix(s, "/")
	s = strings.TrimSpace(s)
	return strings.ToLower(s)
}
