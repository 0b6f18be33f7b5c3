package aridtest

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/exp/slices"
)

// Filter determines whether to run a specific test or not.
type Filter interface {
	Match(TestID) bool
}

// FilterFunc adapts a plain function to Filter.
type FilterFunc func(TestID) bool

func (f FilterFunc) Match(id TestID) bool { return f(id) }

// RegexFilters selects scenarios by the -run and -skip patterns and the suppression file. A test
// runs if it matches some MustMatch pattern (or there are none) and matches no MustNotMatch
// pattern. A scenario file is run if any of its scenarios could be.
type RegexFilters struct {
	MustMatch    TestIDPatternList
	MustNotMatch TestIDPatternList
}

func (r RegexFilters) Match(id TestID) bool {
	if r.MustNotMatch.AnyMatch(id, false) {
		return false
	}
	return !r.MustMatch.IsDefined() || r.MustMatch.AnyMatch(id, true)
}

// TestIDPattern has one regex per TestID component: "articles/exercise" is a pattern for the
// scenario file and one for the scenario name.
type TestIDPattern []*regexp.Regexp

// Match tests each pattern component against the corresponding ID component. Components of the
// ID beyond the pattern are not checked. An ID shorter than the pattern, such as a scenario file
// tested against a file/scenario pattern, matches only if includeParents is true.
func (p TestIDPattern) Match(id TestID, includeParents bool) bool {
	if len(id) < len(p) && !includeParents {
		return false
	}
	for i, component := range id {
		if i == len(p) {
			break
		}
		if !p[i].MatchString(component) {
			return false
		}
	}
	return true
}

func (p TestIDPattern) String() string {
	ss := make([]string, 0, len(p))
	for _, c := range p {
		ss = append(ss, c.String())
	}
	return strings.Join(ss, "/")
}

// ParseTestIDPattern splits s on "/" and compiles each part as an unanchored regex.
func ParseTestIDPattern(s string) (TestIDPattern, error) {
	return parseTestIDPattern(s, func(part string) string { return part })
}

// LiteralTestIDPattern matches exactly the test whose ID is written as s, as in a line of the
// file produced by -record-failures.
func LiteralTestIDPattern(s string) TestIDPattern {
	p, _ := parseTestIDPattern(s, func(part string) string { return "^" + regexp.QuoteMeta(part) + "$" })
	return p
}

func parseTestIDPattern(s string, toRegex func(string) string) (TestIDPattern, error) {
	parts := strings.Split(s, "/")
	ret := make(TestIDPattern, 0, len(parts))
	for _, part := range parts {
		rx, err := regexp.Compile(toRegex(part))
		if err != nil {
			return nil, fmt.Errorf("invalid regex %q: %w", part, err)
		}
		ret = append(ret, rx)
	}
	return ret, nil
}

// TestIDPatternList is a flag.Value; each use of the flag adds a pattern.
type TestIDPatternList []TestIDPattern

func (l TestIDPatternList) String() string {
	ss := make([]string, 0, len(l))
	for _, p := range l {
		ss = append(ss, `"`+p.String()+`"`)
	}
	return strings.Join(ss, " or ")
}

func (l *TestIDPatternList) Set(value string) error {
	p, err := ParseTestIDPattern(value)
	if err != nil {
		return err
	}
	*l = append(*l, p)
	return nil
}

// AddLiteral adds a LiteralTestIDPattern.
func (l *TestIDPatternList) AddLiteral(id string) {
	*l = append(*l, LiteralTestIDPattern(id))
}

func (l TestIDPatternList) IsDefined() bool {
	return len(l) != 0
}

func (l TestIDPatternList) AnyMatch(id TestID, includeParents bool) bool {
	return slices.ContainsFunc(l, func(p TestIDPattern) bool { return p.Match(id, includeParents) })
}

// PrintFilterDescription tells the user which scenarios will be left out of the run.
func PrintFilterDescription(w io.Writer, filters RegexFilters) {
	if !filters.MustMatch.IsDefined() && !filters.MustNotMatch.IsDefined() {
		return
	}
	_, _ = fmt.Fprintln(w, "Some scenarios will be skipped based on the filter criteria for this run:")
	if filters.MustMatch.IsDefined() {
		_, _ = fmt.Fprintf(w, "  skip any not matching %s\n", filters.MustMatch)
	}
	if filters.MustNotMatch.IsDefined() {
		_, _ = fmt.Fprintf(w, "  skip any matching %s\n", filters.MustNotMatch)
	}
	_, _ = fmt.Fprintln(w)
}
