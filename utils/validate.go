package utils

import "strings"

// IsValidEmail accepts local@domain.tld: exactly one '@', no whitespace, and
// a domain containing a dot that is neither its first nor last character.
func IsValidEmail(email string) bool {
	if email == "" || strings.ContainsAny(email, " \t\r\n") {
		return false
	}
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || strings.Contains(domain, "@") {
		return false
	}
	dot := strings.LastIndexByte(domain, '.')
	if dot <= 0 || dot == len(domain)-1 {
		return false
	}
	return !strings.HasPrefix(domain, ".") && !strings.Contains(domain, "..")
}
