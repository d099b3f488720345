package service

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// plainText strips all markup and returns trimmed text. bluemonday escapes
// what it keeps, so entities are decoded again: names and reasons are stored
// as the user typed them and are compared and searched in that form.
func plainText(policy *bluemonday.Policy, value string) string {
	return strings.TrimSpace(html.UnescapeString(policy.Sanitize(value)))
}
