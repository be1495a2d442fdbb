package cracker

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Status reports how a search ended. The values are normalised to lowercase
// short codes for stable JSON encoding.
type Status string

const (
	StatusSuccess   Status = "success"
	StatusExhausted Status = "exhausted"
)

var statusSet = map[Status]struct{}{
	StatusSuccess:   {},
	StatusExhausted: {},
}

// MarshalJSON ensures statuses are always emitted as validated quoted strings.
func (s Status) MarshalJSON() ([]byte, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	return json.Marshal(string(s))
}

// UnmarshalJSON performs strict validation so typos are caught when results
// are loaded back from audit trails or scripts.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed := Status(strings.ToLower(strings.TrimSpace(raw)))
	if err := parsed.validate(); err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s Status) validate() error {
	if _, ok := statusSet[s]; !ok {
		return fmt.Errorf("invalid status: %q", s)
	}
	return nil
}

// Exhaustion explains why an unsuccessful search stopped.
type Exhaustion string

const (
	// ExhaustedDepthLimit: every path up to the depth bound was explored.
	ExhaustedDepthLimit Exhaustion = "depth_limit"
	// ExhaustedTimeout: the wall-clock budget expired.
	ExhaustedTimeout Exhaustion = "timeout"
	// ExhaustedNoCandidates: the frontier drained before the depth bound.
	ExhaustedNoCandidates Exhaustion = "no_more_candidates"
)

var exhaustionSet = map[Exhaustion]struct{}{
	ExhaustedDepthLimit:   {},
	ExhaustedTimeout:      {},
	ExhaustedNoCandidates: {},
}

func (e Exhaustion) MarshalJSON() ([]byte, error) {
	if err := e.validate(); err != nil {
		return nil, err
	}
	return json.Marshal(string(e))
}

func (e *Exhaustion) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed := Exhaustion(strings.ToLower(strings.TrimSpace(raw)))
	if err := parsed.validate(); err != nil {
		return err
	}
	*e = parsed
	return nil
}

func (e Exhaustion) validate() error {
	if _, ok := exhaustionSet[e]; !ok {
		return fmt.Errorf("invalid exhaustion reason: %q", e)
	}
	return nil
}

// Stats summarises the work one search performed.
type Stats struct {
	// CandidatesChecked counts candidates run through the checker suite,
	// the root included.
	CandidatesChecked int `json:"candidates_checked"`
	// CandidatesPruned counts children discarded by the visited set.
	CandidatesPruned int `json:"candidates_pruned"`
	// Depth is the deepest level that finished expanding.
	Depth   int           `json:"depth"`
	Elapsed time.Duration `json:"elapsed_ns"`
}

// Result is the terminal outcome of one search invocation. On success the
// decode path lists unit names in application order; on exhaustion the
// reason explains which budget ran out. Path is always present in the JSON
// form, as [] when no decode step was taken, so consumers can index it
// unconditionally.
type Result struct {
	Status     Status     `json:"status"`
	Plaintext  string     `json:"plaintext,omitempty"`
	Path       []string   `json:"path"`
	Checker    string     `json:"checker,omitempty"`
	Reason     string     `json:"reason,omitempty"`
	Exhaustion Exhaustion `json:"exhaustion,omitempty"`
	Stats      Stats      `json:"stats"`
}

func success(plaintext string, path []string, checkerName, reason string, stats Stats) Result {
	if path == nil {
		path = []string{}
	}
	return Result{
		Status:    StatusSuccess,
		Plaintext: plaintext,
		Path:      path,
		Checker:   checkerName,
		Reason:    reason,
		Stats:     stats,
	}
}

func exhausted(reason Exhaustion, stats Stats) Result {
	return Result{
		Status:     StatusExhausted,
		Path:       []string{},
		Exhaustion: reason,
		Stats:      stats,
	}
}
