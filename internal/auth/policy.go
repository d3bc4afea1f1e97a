package auth

import (
	"strings"

	"github.com/collegefest/champboard/internal/models"
)

// Policy decides whether a subject may administer a domain
type Policy interface {
	IsAuthorized(subject string, domain models.Domain) bool
}

// Allowlist is a Policy backed by per-domain e-mail lists. Matching is
// case-insensitive and ignores surrounding whitespace.
type Allowlist struct {
	domains map[models.Domain]map[string]bool
}

// NewAllowlist builds an Allowlist from domain -> e-mails
func NewAllowlist(lists map[models.Domain][]string) *Allowlist {
	a := &Allowlist{domains: make(map[models.Domain]map[string]bool, len(lists))}
	for domain, emails := range lists {
		set := make(map[string]bool, len(emails))
		for _, e := range emails {
			if e = normalizeEmail(e); e != "" {
				set[e] = true
			}
		}
		a.domains[domain] = set
	}
	return a
}

// IsAuthorized reports whether subject is listed for domain
func (a *Allowlist) IsAuthorized(subject string, domain models.Domain) bool {
	return a.domains[domain][normalizeEmail(subject)]
}

// Domains returns the domains subject may administer, in a fixed order
func (a *Allowlist) Domains(subject string) []models.Domain {
	var out []models.Domain
	for _, d := range models.Domains {
		if a.IsAuthorized(subject, d) {
			out = append(out, d)
		}
	}
	return out
}

// Empty reports whether no subject is authorized for anything
func (a *Allowlist) Empty() bool {
	for _, set := range a.domains {
		if len(set) > 0 {
			return false
		}
	}
	return true
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
