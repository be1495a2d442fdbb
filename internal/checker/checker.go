// Package checker decides whether a candidate string is plaintext worth
// stopping the search for. Checkers are independent and evaluated as an OR,
// ordered from the cheapest, highest-confidence signal to the most expensive
// heuristic.
package checker

import (
	"fmt"
)

// Verdict is the outcome of a single checker evaluation.
type Verdict struct {
	Match  bool
	Reason string
}

// Checker evaluates one plaintext signal. Implementations never mutate the
// input and run in time linear in its length.
type Checker interface {
	Name() string
	Check(text string) Verdict
}

// Suite is an ordered set of checkers. The first positive verdict wins.
type Suite struct {
	checkers []Checker
}

// NewSuite builds a suite preserving the given order. Duplicate or empty
// checker names are rejected.
func NewSuite(checkers ...Checker) (*Suite, error) {
	seen := make(map[string]struct{}, len(checkers))
	for _, c := range checkers {
		name := c.Name()
		if name == "" {
			return nil, fmt.Errorf("checker name cannot be empty")
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("checker %s is already registered", name)
		}
		seen[name] = struct{}{}
	}
	return &Suite{checkers: checkers}, nil
}

// DefaultSuite returns the shipped checker stack: flag patterns first,
// structured formats second, English plausibility last. customPattern, when
// non-empty, is compiled into the flag checker; an invalid pattern is a
// configuration error.
func DefaultSuite(customPattern string) (*Suite, error) {
	flag, err := NewFlag(customPattern)
	if err != nil {
		return nil, err
	}
	return NewSuite(flag, NewFormat(), NewEnglish())
}

// Check runs the checkers in order and returns the name and verdict of the
// first match, or ("", Verdict{}) when none match.
func (s *Suite) Check(text string) (string, Verdict) {
	for _, c := range s.checkers {
		if v := c.Check(text); v.Match {
			return c.Name(), v
		}
	}
	return "", Verdict{}
}

// Names returns the checker names in evaluation order.
func (s *Suite) Names() []string {
	names := make([]string, len(s.checkers))
	for i, c := range s.checkers {
		names[i] = c.Name()
	}
	return names
}

// Checkers exposes the ordered set for catalogue listings.
func (s *Suite) Checkers() []Checker {
	out := make([]Checker, len(s.checkers))
	copy(out, s.checkers)
	return out
}

// Subset returns a suite restricted to the named checkers, preserving the
// original evaluation order. Unknown names are configuration errors. An empty
// name list returns the suite unchanged.
func (s *Suite) Subset(names []string) (*Suite, error) {
	if len(names) == 0 {
		return s, nil
	}
	wanted := make(map[string]struct{}, len(names))
	for _, name := range names {
		found := false
		for _, c := range s.checkers {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown checker %q", name)
		}
		wanted[name] = struct{}{}
	}
	subset := make([]Checker, 0, len(wanted))
	for _, c := range s.checkers {
		if _, ok := wanted[c.Name()]; ok {
			subset = append(subset, c)
		}
	}
	return &Suite{checkers: subset}, nil
}
