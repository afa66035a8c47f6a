package extraction

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// Fingerprint implements fp = sha256(canonical(url)) (§4.5 step 2).
func Fingerprint(rawURL string) string {
	sum := sha256.Sum256([]byte(canonicalize(rawURL)))
	return hex.EncodeToString(sum[:])
}

// canonicalize normalizes a URL so that cosmetic variation (scheme case,
// default ports, query-param order, trailing slash, fragment) does not
// change the fingerprint.
func canonicalize(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return strings.TrimSpace(rawURL)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	switch {
	case u.Scheme == "http" && strings.HasSuffix(u.Host, ":80"):
		u.Host = strings.TrimSuffix(u.Host, ":80")
	case u.Scheme == "https" && strings.HasSuffix(u.Host, ":443"):
		u.Host = strings.TrimSuffix(u.Host, ":443")
	}

	if len(u.Path) > 1 {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}

	if u.RawQuery != "" {
		values := u.Query()
		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var sb strings.Builder
		for i, k := range keys {
			vals := values[k]
			sort.Strings(vals)
			for j, v := range vals {
				if i > 0 || j > 0 {
					sb.WriteByte('&')
				}
				sb.WriteString(k)
				sb.WriteByte('=')
				sb.WriteString(v)
			}
		}
		u.RawQuery = sb.String()
	}

	return u.String()
}
