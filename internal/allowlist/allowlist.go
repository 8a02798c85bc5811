// Package allowlist decides which email addresses may request a login link.
package allowlist

import (
	"strings"
)

// Checker holds the authorized domains and individual emails, both lower-cased.
// It is immutable once built and safe for concurrent use.
type Checker struct {
	domains map[string]struct{}
	emails  map[string]struct{}
}

func New(domains, emails []string) *Checker {
	return &Checker{
		domains: toSet(domains),
		emails:  toSet(emails),
	}
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}

// IsAuthorized reports whether the email's domain, or else the email itself, is allowed.
// Syntax is not checked here; an address without @ is simply not authorized.
func (c *Checker) IsAuthorized(email string) bool {
	lowered := strings.ToLower(email)
	at := strings.LastIndex(lowered, "@")
	if at < 0 {
		return false
	}

	if _, ok := c.domains[lowered[at+1:]]; ok {
		return true
	}
	_, ok := c.emails[lowered]
	return ok
}
