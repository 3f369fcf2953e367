package scraper

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// TopLevelDomain returns the public-suffix portion of a URL's hostname
// ("com", "co.uk"). Unparsable input yields "".
func TopLevelDomain(rawURL string) string {
	host := hostnameOf(rawURL)
	if host == "" {
		return ""
	}
	suffix, _ := publicsuffix.PublicSuffix(host)
	return suffix
}

// RegistrableName returns the second-level label of a URL's registrable
// domain: "https://www.amazon.co.uk/dp/X" -> "amazon". Unparsable or
// suffix-only hosts yield "".
func RegistrableName(rawURL string) string {
	host := hostnameOf(rawURL)
	if host == "" {
		return ""
	}
	etldPlusOne, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return ""
	}
	if idx := strings.Index(etldPlusOne, "."); idx > 0 {
		return etldPlusOne[:idx]
	}
	return etldPlusOne
}

func hostnameOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}
