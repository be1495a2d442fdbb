package checker

import (
	"fmt"
	"regexp"
	"strings"
)

// flagWrapperRe matches the wrapper syntaxes CTF events commonly use. Longer
// alternatives come first so picoCTF{...} is reported as picoctf, not ctf.
var flagWrapperRe = regexp.MustCompile(`(?i)\b(picoctf|crypto|flag|ctf|key|htb|flg)\{[^{}]{1,256}\}`)

// Flag matches known flag wrapper formats plus an optional caller-supplied
// pattern. It is the cheapest, highest-confidence checker and runs first.
type Flag struct {
	custom *regexp.Regexp
}

// NewFlag compiles the optional custom pattern. An invalid pattern is
// reported as a configuration error before any search starts.
func NewFlag(customPattern string) (*Flag, error) {
	f := &Flag{}
	if strings.TrimSpace(customPattern) != "" {
		re, err := regexp.Compile(customPattern)
		if err != nil {
			return nil, fmt.Errorf("compile custom flag pattern: %w", err)
		}
		f.custom = re
	}
	return f, nil
}

func (f *Flag) Name() string { return "flag" }

func (f *Flag) Check(text string) Verdict {
	if m := flagWrapperRe.FindStringSubmatch(text); m != nil {
		return Verdict{
			Match:  true,
			Reason: fmt.Sprintf("matches flag format `%s{...}`", strings.ToLower(m[1])),
		}
	}
	if f.custom != nil && f.custom.MatchString(text) {
		return Verdict{
			Match:  true,
			Reason: fmt.Sprintf("matches custom pattern %q", f.custom.String()),
		}
	}
	return Verdict{}
}
