package checker

import (
	"regexp"
	"strings"
)

// Anchored whole-string matches only: a dotted quad buried inside noise is
// not an IP address.
var formatPatterns = []struct {
	name string
	re   *regexp.Regexp
}{
	{"an IPv4 address", regexp.MustCompile(`^((25[0-5]|2[0-4][0-9]|1[0-9]{2}|[1-9]?[0-9])\.){3}(25[0-5]|2[0-4][0-9]|1[0-9]{2}|[1-9]?[0-9])$`)},
	{"an email address", regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)},
	{"a URL", regexp.MustCompile(`^https?://[^\s/$.?#].[^\s]*$`)},
	{"a UUID", regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)},
	{"a MAC address", regexp.MustCompile(`^([0-9A-Fa-f]{2}:){5}[0-9A-Fa-f]{2}$`)},
}

// Format classifies a candidate as a known structured token. Moderate
// confidence: the shapes are distinctive enough that a decode producing one
// is very unlikely to be an accident.
type Format struct{}

func NewFormat() *Format { return &Format{} }

func (f *Format) Name() string { return "format" }

func (f *Format) Check(text string) Verdict {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Verdict{}
	}
	for _, p := range formatPatterns {
		if p.re.MatchString(trimmed) {
			return Verdict{Match: true, Reason: "looks like " + p.name}
		}
	}
	return Verdict{}
}
