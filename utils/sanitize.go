package utils

import "github.com/microcosm-cc/bluemonday"

// Post, comment, message and bio text all pass through the same UGC policy
// before hitting the database.
var ugcPolicy = bluemonday.UGCPolicy()

// Sanitize strips markup that user generated content must not carry.
func Sanitize(input string) string {
	return ugcPolicy.Sanitize(input)
}
