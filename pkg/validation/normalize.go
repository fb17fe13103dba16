package validation

import "strings"

// CollapseSpaces trims s and replaces every run of whitespace with one space.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizePhone drops the separators people type into phone numbers.
func NormalizePhone(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.', '\t':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

// NormalizeEmail canonicalises an address that already passed format validation.
//
// Policy:
//   - the whole address is lowercased
//   - gmail.com and googlemail.com: dots and "+tag" are removed from the local part,
//     domain becomes gmail.com
//   - outlook.com, hotmail.com, live.com, icloud.com, me.com, mac.com: "+tag" removed
//   - yahoo.com, ymail.com: "-tag" removed
//   - every other domain keeps its local part as is
func NormalizeEmail(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	at := strings.LastIndex(s, "@")
	if at <= 0 || at == len(s)-1 {
		return s
	}
	local, domain := s[:at], s[at+1:]

	switch domain {
	case "gmail.com", "googlemail.com":
		local = cutTag(local, "+")
		local = strings.ReplaceAll(local, ".", "")
		domain = "gmail.com"
	case "outlook.com", "hotmail.com", "live.com", "icloud.com", "me.com", "mac.com":
		local = cutTag(local, "+")
	case "yahoo.com", "ymail.com":
		local = cutTag(local, "-")
	}
	if local == "" {
		return s
	}
	return local + "@" + domain
}

func cutTag(local, sep string) string {
	if i := strings.Index(local, sep); i > 0 {
		return local[:i]
	}
	return local
}
