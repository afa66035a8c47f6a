package extraction

import "strings"

// Slugify implements the filename compatibility rule of §6.4: lowercase
// ASCII, [a-z0-9._-]+, no leading/trailing dots. Non-ASCII runes are
// stripped rather than transliterated — the corpus this build targets is
// English-language recipe titles, so a full transliteration table would
// be unused machinery.
func Slugify(title string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case r == '.' || r == '_':
			b.WriteRune(r)
			lastDash = false
		case r == ' ' || r == '-' || r == '/':
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		default:
			// drop non-ASCII and punctuation we don't special-case
		}
	}
	slug := strings.Trim(b.String(), ".-")
	if slug == "" {
		slug = "untitled"
	}
	return slug
}
