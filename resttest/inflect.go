package resttest

import (
	"strings"

	"github.com/jinzhu/inflection"
)

func init() { //nolint:gochecknoinits
	inflection.AddIrregular("woman", "women")
	inflection.AddIrregular("foot", "feet")
	inflection.AddIrregular("tooth", "teeth")
	inflection.AddIrregular("goose", "geese")
	inflection.AddUncountable("news")
	inflection.AddUncountable("feedback")
	inflection.AddUncountable("metadata")
}

// Pluralize returns the plural of an underscored resource name. Only the last word is inflected,
// so "article_comment" becomes "article_comments".
func Pluralize(name string) string {
	return inflectLastWord(name, inflection.Plural)
}

// Singularize is the inverse of Pluralize.
func Singularize(name string) string {
	return inflectLastWord(name, inflection.Singular)
}

func inflectLastWord(name string, inflect func(string) string) string {
	head, word := "", name
	if i := strings.LastIndex(name, "_"); i >= 0 {
		head, word = name[:i+1], name[i+1:]
	}
	if word == "" {
		return name
	}
	return head + inflect(word)
}
