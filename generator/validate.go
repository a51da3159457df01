package generator

import (
	"net"
	"net/url"
	"regexp"
	"strings"
)

// domainRe matches a dotted hostname ending in an alphabetic TLD.
var domainRe = regexp.MustCompile(`^([a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,63}$`)

var allowedSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"ftp":   true,
}

// ValidateURL returns raw unchanged if it is a well-formed absolute URL with
// a scheme and host. label names the target in the returned error.
// Validation is purely syntactic; nothing is fetched.
func ValidateURL(raw, label string) (string, error) {
	invalid := &ValidationError{Label: label, Kind: "URL", Value: raw}

	if raw == "" || strings.ContainsAny(raw, " \t\r\n") {
		return "", invalid
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return "", invalid
	}
	if !allowedSchemes[strings.ToLower(u.Scheme)] {
		return "", invalid
	}
	if !validHost(u.Hostname()) {
		return "", invalid
	}
	if p := u.Port(); p != "" && !validPort(p) {
		return "", invalid
	}
	return raw, nil
}

func validHost(host string) bool {
	if host == "" {
		return false
	}
	if strings.EqualFold(host, "localhost") {
		return true
	}
	if net.ParseIP(host) != nil {
		return true
	}
	return domainRe.MatchString(strings.ToLower(host))
}

func validPort(p string) bool {
	if len(p) > 5 {
		return false
	}
	n := 0
	for _, c := range p {
		if c < '0' || c > '9' {
			return false
		}
		n = n*10 + int(c-'0')
	}
	return n > 0 && n <= 65535
}
