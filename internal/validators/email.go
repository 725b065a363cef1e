package validators

import (
	"net"
	"net/mail"
	"strings"
)

// IsEmailValid checks the address shape only. No network access.
func IsEmailValid(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" || strings.ContainsAny(email, " <>") {
		return false
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}

	at := strings.LastIndex(email, "@")
	domain := email[at+1:]
	return at > 0 && strings.Contains(domain, ".") && !strings.HasSuffix(domain, ".")
}

// IsEmailDomainValid resolves MX/A records for the domain. Used only when
// EMAIL_DOMAIN_CHECK is on.
func IsEmailDomainValid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]

	if mx, err := net.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := net.LookupIP(domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}
