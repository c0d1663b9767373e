package utils

// slugMaxRunes bounds the slug to the first 30 characters of the body.
const slugMaxRunes = 30

// PostSlug derives a post slug from its body: the first 30 characters,
// stored verbatim. The slug participates in detail lookups together with the
// post id and is not required to be unique.
func PostSlug(body string) string {
	runes := []rune(body)
	if len(runes) <= slugMaxRunes {
		return body
	}
	return string(runes[:slugMaxRunes])
}
