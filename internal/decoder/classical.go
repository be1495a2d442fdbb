package decoder

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// CaesarDecoder emits every non-identity rotation of the ASCII letters in
// the text (25 candidates, ROT13 included). Non-letters pass through
// unchanged; case is preserved.
type CaesarDecoder struct {
	BaseDecoder
}

func newCaesarDecoder() *CaesarDecoder {
	return &CaesarDecoder{BaseDecoder{
		NameValue:        "caesar",
		DescriptionValue: "Try all 25 Caesar rotations (includes ROT13)",
		PriorityValue:    0.2,
	}}
}

func (d *CaesarDecoder) Applicable(text string) bool {
	return containsASCIILetter(text)
}

func (d *CaesarDecoder) Decode(text string) []string {
	if !containsASCIILetter(text) {
		return nil
	}

	candidates := make([]string, 0, 25)
	for shift := 1; shift < 26; shift++ {
		candidates = append(candidates, rotateLetters(text, shift))
	}
	return candidates
}

func rotateLetters(text string, shift int) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune('a' + (r-'a'+rune(shift))%26)
		case r >= 'A' && r <= 'Z':
			b.WriteRune('A' + (r-'A'+rune(shift))%26)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func containsASCIILetter(text string) bool {
	for _, r := range text {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}

// AtbashDecoder mirrors ASCII letters across the alphabet (a<->z, b<->y)
type AtbashDecoder struct {
	BaseDecoder
}

func newAtbashDecoder() *AtbashDecoder {
	return &AtbashDecoder{BaseDecoder{
		NameValue:        "atbash",
		DescriptionValue: "Decode the Atbash substitution cipher",
		PriorityValue:    0.25,
	}}
}

func (d *AtbashDecoder) Applicable(text string) bool {
	return containsASCIILetter(text)
}

func (d *AtbashDecoder) Decode(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune('z' - (r - 'a'))
		case r >= 'A' && r <= 'Z':
			b.WriteRune('Z' - (r - 'A'))
		default:
			b.WriteRune(r)
		}
	}
	if s, ok := textOutput(text, []byte(b.String())); ok {
		return []string{s}
	}
	return nil
}

// ROT47Decoder rotates the printable ASCII range '!'..'~' by 47
type ROT47Decoder struct {
	BaseDecoder
}

func newROT47Decoder() *ROT47Decoder {
	return &ROT47Decoder{BaseDecoder{
		NameValue:        "rot47",
		DescriptionValue: "Decode ROT47 over the printable ASCII range",
		PriorityValue:    0.2,
	}}
}

func (d *ROT47Decoder) Applicable(text string) bool {
	rotatable := false
	for _, r := range text {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		if r < '!' || r > '~' {
			return false
		}
		rotatable = true
	}
	return rotatable
}

func (d *ROT47Decoder) Decode(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r >= '!' && r <= '~' {
			b.WriteRune('!' + (r-'!'+47)%94)
		} else {
			b.WriteRune(r)
		}
	}
	if s, ok := textOutput(text, []byte(b.String())); ok {
		return []string{s}
	}
	return nil
}

var a1z26Re = regexp.MustCompile(`^[0-9]{1,2}([ ,./-][0-9]{1,2})*$`)

// A1Z26Decoder maps digit groups 1..26 to letters a..z
type A1Z26Decoder struct {
	BaseDecoder
}

func newA1Z26Decoder() *A1Z26Decoder {
	return &A1Z26Decoder{BaseDecoder{
		NameValue:        "a1z26",
		DescriptionValue: "Decode A1Z26 (1=a .. 26=z) with common separators",
		PriorityValue:    0.3,
	}}
}

func (d *A1Z26Decoder) Applicable(text string) bool {
	return a1z26Re.MatchString(strings.TrimSpace(text))
}

func (d *A1Z26Decoder) Decode(text string) []string {
	groups := strings.FieldsFunc(strings.TrimSpace(text), func(r rune) bool {
		return r == ' ' || r == ',' || r == '.' || r == '/' || r == '-'
	})
	if len(groups) == 0 {
		return nil
	}

	var b strings.Builder
	b.Grow(len(groups))
	for _, g := range groups {
		n, err := strconv.Atoi(g)
		if err != nil || n < 1 || n > 26 {
			return nil
		}
		b.WriteRune('a' + rune(n-1))
	}
	if s, ok := textOutput(text, []byte(b.String())); ok {
		return []string{s}
	}
	return nil
}

// ReverseDecoder reverses the text rune-wise
type ReverseDecoder struct {
	BaseDecoder
}

func newReverseDecoder() *ReverseDecoder {
	return &ReverseDecoder{BaseDecoder{
		NameValue:        "reverse",
		DescriptionValue: "Reverse the text",
		PriorityValue:    0.1,
	}}
}

func (d *ReverseDecoder) Applicable(text string) bool {
	return utf8.RuneCountInString(text) >= 2
}

func (d *ReverseDecoder) Decode(text string) []string {
	runes := []rune(text)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	// Palindromes reverse to themselves and are rejected as non-progress.
	if s, ok := textOutput(text, []byte(string(runes))); ok {
		return []string{s}
	}
	return nil
}

// CitrixCTX1Decoder decodes the Citrix CTX1 password obfuscation scheme:
// each UTF-16LE byte is XOR-chained with 0xa5 and the previous value, then
// spread across two characters in the 'A'..'P' range.
type CitrixCTX1Decoder struct {
	BaseDecoder
}

func newCitrixCTX1Decoder() *CitrixCTX1Decoder {
	return &CitrixCTX1Decoder{BaseDecoder{
		NameValue:        "citrix_ctx1",
		DescriptionValue: "Decode Citrix CTX1 obfuscated passwords",
		PriorityValue:    0.3,
	}}
}

func (d *CitrixCTX1Decoder) Applicable(text string) bool {
	if len(text) < 4 || len(text)%4 != 0 {
		return false
	}
	for _, r := range text {
		if r < 'A' || r > 'P' {
			return false
		}
	}
	return true
}

func (d *CitrixCTX1Decoder) Decode(text string) []string {
	if len(text)%4 != 0 {
		return nil
	}

	raw := make([]byte, 0, len(text)/2)
	last := byte(0)
	for i := 0; i+1 < len(text); i += 2 {
		hi := text[i]
		lo := text[i+1]
		if hi < 'A' || hi > 'P' || lo < 'A' || lo > 'P' {
			return nil
		}
		x := (hi-'A')<<4 | (lo - 'A')
		raw = append(raw, x^0xa5^last)
		last = x
	}

	// The plaintext is UTF-16LE; printable passwords have zero high bytes.
	out := make([]byte, 0, len(raw)/2)
	for i := 0; i+1 < len(raw); i += 2 {
		if raw[i+1] != 0 {
			return nil
		}
		out = append(out, raw[i])
	}

	if s, ok := textOutput(text, out); ok {
		return []string{s}
	}
	return nil
}
