package rcm

import "strings"

// Session is the set of cookies that proves a logged-in session with the
// upstream. Cookies are "name=value" strings, ordered and free of duplicates.
type Session struct {
	Cookies []string `json:"cookies"`
}

// NewSession normalizes cookies (from Set-Cookie headers or a previous
// session) into a Session.
func NewSession(cookies ...[]string) Session {
	return Session{Cookies: mergeCookies(cookies...)}
}

func (s Session) Empty() bool {
	return len(s.Cookies) == 0
}

// Header renders the session as the value of a Cookie request header.
func (s Session) Header() string {
	return strings.Join(s.Cookies, "; ")
}

// mergeCookies strips cookie attributes (path, expiry, flags...) keeping only
// the leading name=value, then deduplicates by exact string. The first
// occurrence decides the position.
func mergeCookies(sets ...[]string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, set := range sets {
		for _, raw := range set {
			pair, _, _ := strings.Cut(raw, ";")
			pair = strings.TrimSpace(pair)
			if pair == "" {
				continue
			}
			if _, ok := seen[pair]; ok {
				continue
			}
			seen[pair] = struct{}{}
			out = append(out, pair)
		}
	}
	return out
}
