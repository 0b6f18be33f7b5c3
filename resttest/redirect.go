package resttest

import (
	"fmt"
	"regexp"
)

var redirectIDPattern = regexp.MustCompile(`^https?://[^/]+/(?:.*/)?(\d+)$`)

// ExtractID returns the numeric id at the end of an absolute redirect URL, such as "42" for
// "http://www.example.com/articles/42".
func ExtractID(redirectURL string) (string, error) {
	match := redirectIDPattern.FindStringSubmatch(redirectURL)
	if match == nil {
		return "", fmt.Errorf("redirect target %q does not end with a numeric id", redirectURL)
	}
	return match[1], nil
}
