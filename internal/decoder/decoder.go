// Package decoder provides the transformation unit catalogue for automatic
// plaintext recovery: each decoder reverses one encoding or classical cipher.
package decoder

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"
)

// Decoder represents a single reversal attempt for one encoding scheme
type Decoder interface {
	// Name returns the unique identifier for this decoder
	Name() string

	// Description returns a human-readable description
	Description() string

	// Priority orders applicable decoders; higher values are attempted first
	Priority() float64

	// Applicable reports whether the text could plausibly be this encoding.
	// It may admit text that later fails to decode, but must never reject
	// text the decoder could have decoded.
	Applicable(text string) bool

	// Decode applies the reversal and returns zero or more candidate texts.
	// An empty result means the text was not valid for this encoding; it is
	// never an error condition.
	Decode(text string) []string
}

// BaseDecoder provides common functionality for decoders
type BaseDecoder struct {
	NameValue        string
	DescriptionValue string
	PriorityValue    float64
}

func (b *BaseDecoder) Name() string {
	return b.NameValue
}

func (b *BaseDecoder) Description() string {
	return b.DescriptionValue
}

func (b *BaseDecoder) Priority() float64 {
	return b.PriorityValue
}

// textOutput filters a raw decode result down to a usable candidate string.
// Candidates must be non-empty printable UTF-8 and differ from the input;
// anything else is treated as a failed decode.
func textOutput(input string, raw []byte) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	if !utf8.Valid(raw) {
		return "", false
	}
	s := string(raw)
	if s == input {
		return "", false
	}
	for _, r := range s {
		if r < 0x20 && r != '\t' && r != '\n' && r != '\r' {
			return "", false
		}
		if r == 0x7f {
			return "", false
		}
	}
	if strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// Registry holds a fixed catalogue of decoders. It is populated once at
// startup and read-only afterward; lookups require no external locking.
type Registry struct {
	mu       sync.RWMutex
	decoders map[string]Decoder
}

// NewRegistry creates an empty decoder registry
func NewRegistry() *Registry {
	return &Registry{decoders: make(map[string]Decoder)}
}

// Register adds a decoder to the registry
func (r *Registry) Register(d Decoder) error {
	if d == nil {
		return fmt.Errorf("cannot register nil decoder")
	}

	name := d.Name()
	if name == "" {
		return fmt.Errorf("decoder name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.decoders[name]; exists {
		return fmt.Errorf("decoder %s is already registered", name)
	}

	r.decoders[name] = d
	return nil
}

// Get retrieves a decoder by name
func (r *Registry) Get(name string) (Decoder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, exists := r.decoders[name]
	return d, exists
}

// Names returns the names of all registered decoders, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.decoders))
	for name := range r.decoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns all registered decoders ordered by descending priority,
// ties broken by name
func (r *Registry) All() []Decoder {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return sortByPriority(r.decoders)
}

// Applicable evaluates every decoder's admission filter against text and
// returns the admitted subset ordered by descending priority, ties broken
// by name. The order is fixed so the most promising work is attempted first.
func (r *Registry) Applicable(text string) []Decoder {
	r.mu.RLock()
	defer r.mu.RUnlock()

	admitted := make(map[string]Decoder, len(r.decoders))
	for name, d := range r.decoders {
		if d.Applicable(text) {
			admitted[name] = d
		}
	}
	return sortByPriority(admitted)
}

func sortByPriority(set map[string]Decoder) []Decoder {
	ds := make([]Decoder, 0, len(set))
	for _, d := range set {
		ds = append(ds, d)
	}
	sort.Slice(ds, func(i, j int) bool {
		if ds[i].Priority() != ds[j].Priority() {
			return ds[i].Priority() > ds[j].Priority()
		}
		return ds[i].Name() < ds[j].Name()
	})
	return ds
}

// DefaultRegistry returns a registry populated with the full decoder
// catalogue. Registration failures indicate a programming error (duplicate
// names in the catalogue) and abort the process.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, d := range defaultDecoders() {
		if err := r.Register(d); err != nil {
			panic(fmt.Sprintf("decoder catalogue is corrupt: %v", err))
		}
	}
	return r
}

func defaultDecoders() []Decoder {
	return []Decoder{
		newBase64Decoder(),
		newBase64URLDecoder(),
		newBase32Decoder(),
		newBase58Decoder("base58_bitcoin", "Decode Base58 with the Bitcoin alphabet", 0.6, bitcoinAlphabet, bitcoinCharset),
		newBase58Decoder("base58_ripple", "Decode Base58 with the Ripple alphabet", 0.35, rippleAlphabet, rippleCharset),
		newBase58Decoder("base58_flickr", "Decode Base58 with the Flickr alphabet", 0.3, flickrAlphabet, flickrCharset),
		newBase62Decoder(),
		newASCII85Decoder(),
		newHexDecoder(),
		newBinaryDecoder(),
		newMorseDecoder(),
		newURLDecoder(),
		newHTMLEntityDecoder(),
		newPunycodeDecoder(),
		newJWTDecoder(),
		newCaesarDecoder(),
		newAtbashDecoder(),
		newROT47Decoder(),
		newA1Z26Decoder(),
		newReverseDecoder(),
		newCitrixCTX1Decoder(),
	}
}
