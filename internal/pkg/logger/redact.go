package logger

import "strings"

// RedactEmail hides most of an address's local part so emails can appear in
// logs without exposing the full identity. "jane.roe@example.com" becomes
// "ja***@example.com". When the local part is two characters or fewer, or
// the input is not a well-formed address, the whole local part is masked.
func RedactEmail(email string) string {
	local, dom, ok := strings.Cut(email, "@")
	if !ok || strings.Contains(dom, "@") {
		return "***@***"
	}
	if len(local) <= 2 {
		return "***@" + dom
	}
	return local[:2] + "***@" + dom
}
