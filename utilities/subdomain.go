package utilities

import (
	"regexp"
	"strings"
)

const maxSubdomainLength = 63

var (
	subdomainPattern = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]*[a-z0-9])?$`)
	subdomainInvalid = regexp.MustCompile(`[^a-z0-9-]`)
	repeatedHyphens  = regexp.MustCompile(`-+`)
)

// ExtractSubdomain returns the tenant label of a Host header value:
//
//	sanfordlaw.workchat.law     -> sanfordlaw
//	www.sanfordlaw.workchat.law -> sanfordlaw
//	workchat.law, localhost:3000 -> ""
func ExtractSubdomain(host string) string {
	if host == "" {
		return ""
	}
	host = strings.Split(host, ":")[0]
	if host == "localhost" || host == "127.0.0.1" {
		return ""
	}

	parts := strings.Split(host, ".")
	if len(parts) < 3 {
		return ""
	}
	if parts[0] == "www" && len(parts) > 3 {
		return parts[1]
	}
	return parts[0]
}

// ValidateSubdomain accepts 1 to 63 lowercase letters, digits and hyphens,
// not starting or ending with a hyphen.
func ValidateSubdomain(subdomain string) bool {
	if len(subdomain) == 0 || len(subdomain) > maxSubdomainLength {
		return false
	}
	return subdomainPattern.MatchString(subdomain)
}

// SanitizeSubdomain turns free text such as a firm name into a subdomain
// candidate. The result may still be empty.
func SanitizeSubdomain(input string) string {
	s := strings.TrimSpace(strings.ToLower(input))
	s = subdomainInvalid.ReplaceAllString(s, "-")
	s = repeatedHyphens.ReplaceAllString(s, "-")
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimSuffix(s, "-")
	if len(s) > maxSubdomainLength {
		s = s[:maxSubdomainLength]
	}
	return s
}
