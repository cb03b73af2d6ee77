package lookup

import (
	"net/url"
	"strings"
)

// ExtractDomain returns the lower-cased host from a URL or bare host string,
// stripping any userinfo and port. Empty input yields "".
func ExtractDomain(hostOrURL string) string {
	s := strings.TrimSpace(hostOrURL)
	if s == "" {
		return ""
	}
	host := s
	if u, err := url.Parse(s); err == nil && u.Host != "" {
		host = u.Host
	} else if slash := strings.Index(host, "/"); slash >= 0 {
		host = host[:slash]
	}
	if at := strings.LastIndex(host, "@"); at >= 0 {
		host = host[at+1:]
	}
	if colon := strings.Index(host, ":"); colon >= 0 {
		host = host[:colon]
	}
	return strings.ToLower(host)
}
