package decoder

import (
	"encoding/json"
	"html"
	"net/url"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/net/idna"
)

// URLDecoder reverses percent-encoding
type URLDecoder struct {
	BaseDecoder
}

func newURLDecoder() *URLDecoder {
	return &URLDecoder{BaseDecoder{
		NameValue:        "url",
		DescriptionValue: "Decode URL percent-encoding",
		PriorityValue:    0.75,
	}}
}

func (d *URLDecoder) Applicable(text string) bool {
	for i := 0; i+2 < len(text); i++ {
		if text[i] == '%' && isHexDigit(text[i+1]) && isHexDigit(text[i+2]) {
			return true
		}
	}
	return false
}

func (d *URLDecoder) Decode(text string) []string {
	decoded, err := url.QueryUnescape(text)
	if err != nil {
		// QueryUnescape rejects bare '+'-free strings with stray '%'; try
		// the path variant before giving up.
		decoded, err = url.PathUnescape(text)
		if err != nil {
			return nil
		}
	}
	if s, ok := textOutput(text, []byte(decoded)); ok {
		return []string{s}
	}
	return nil
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// HTMLEntityDecoder reverses HTML entity escaping (&amp;, &#x41;, ...)
type HTMLEntityDecoder struct {
	BaseDecoder
}

func newHTMLEntityDecoder() *HTMLEntityDecoder {
	return &HTMLEntityDecoder{BaseDecoder{
		NameValue:        "html_entity",
		DescriptionValue: "Decode HTML character entities",
		PriorityValue:    0.75,
	}}
}

func (d *HTMLEntityDecoder) Applicable(text string) bool {
	amp := strings.IndexByte(text, '&')
	if amp < 0 {
		return false
	}
	semi := strings.IndexByte(text[amp:], ';')
	return semi > 1
}

func (d *HTMLEntityDecoder) Decode(text string) []string {
	decoded := html.UnescapeString(text)
	if s, ok := textOutput(text, []byte(decoded)); ok {
		return []string{s}
	}
	return nil
}

// MorseDecoder decodes international Morse code. Letters are separated by
// spaces, words by "/" (with or without surrounding spaces).
type MorseDecoder struct {
	BaseDecoder
}

var morseTable = map[string]rune{
	".-": 'a', "-...": 'b', "-.-.": 'c', "-..": 'd', ".": 'e',
	"..-.": 'f', "--.": 'g', "....": 'h', "..": 'i', ".---": 'j',
	"-.-": 'k', ".-..": 'l', "--": 'm', "-.": 'n', "---": 'o',
	".--.": 'p', "--.-": 'q', ".-.": 'r', "...": 's', "-": 't',
	"..-": 'u', "...-": 'v', ".--": 'w', "-..-": 'x', "-.--": 'y',
	"--..": 'z',
	"-----": '0', ".----": '1', "..---": '2', "...--": '3', "....-": '4',
	".....": '5', "-....": '6', "--...": '7', "---..": '8', "----.": '9',
	".-.-.-": '.', "--..--": ',', "..--..": '?', "-....-": '-',
	"-..-.": '/', ".--.-.": '@', "---...": ':', ".-.-.": '+', "-...-": '=',
}

func newMorseDecoder() *MorseDecoder {
	return &MorseDecoder{BaseDecoder{
		NameValue:        "morse",
		DescriptionValue: "Decode international Morse code",
		PriorityValue:    0.8,
	}}
}

func (d *MorseDecoder) Applicable(text string) bool {
	hasSymbol := false
	for _, r := range strings.TrimSpace(text) {
		switch r {
		case '.', '-':
			hasSymbol = true
		case ' ', '/', '\t', '\n', '\r':
		default:
			return false
		}
	}
	return hasSymbol
}

func (d *MorseDecoder) Decode(text string) []string {
	words := strings.Split(strings.TrimSpace(text), "/")
	var b strings.Builder
	for i, word := range words {
		if i > 0 {
			b.WriteByte(' ')
		}
		for _, letter := range strings.Fields(word) {
			r, ok := morseTable[letter]
			if !ok {
				return nil
			}
			b.WriteRune(r)
		}
	}
	if s, ok := textOutput(text, []byte(b.String())); ok {
		return []string{s}
	}
	return nil
}

// PunycodeDecoder converts punycode (xn--) labels back to Unicode
type PunycodeDecoder struct {
	BaseDecoder
}

func newPunycodeDecoder() *PunycodeDecoder {
	return &PunycodeDecoder{BaseDecoder{
		NameValue:        "punycode",
		DescriptionValue: "Decode punycode (IDNA) labels",
		PriorityValue:    0.4,
	}}
}

func (d *PunycodeDecoder) Applicable(text string) bool {
	return strings.Contains(strings.ToLower(text), "xn--")
}

func (d *PunycodeDecoder) Decode(text string) []string {
	decoded, err := idna.ToUnicode(strings.TrimSpace(text))
	if err != nil {
		return nil
	}
	if s, ok := textOutput(text, []byte(decoded)); ok {
		return []string{s}
	}
	return nil
}

// JWTDecoder extracts the claims of an unverified JSON Web Token. The token
// is parsed without signature verification: the goal is reading the payload,
// not trusting it.
type JWTDecoder struct {
	BaseDecoder
}

func newJWTDecoder() *JWTDecoder {
	return &JWTDecoder{BaseDecoder{
		NameValue:        "jwt",
		DescriptionValue: "Extract the claims of a JSON Web Token (unverified)",
		PriorityValue:    0.45,
	}}
}

func (d *JWTDecoder) Applicable(text string) bool {
	parts := strings.Split(text, ".")
	if len(parts) != 3 {
		return false
	}
	for _, part := range parts[:2] {
		if part == "" || !base64URLRe.MatchString(part) {
			return false
		}
	}
	return true
}

func (d *JWTDecoder) Decode(text string) []string {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(strings.TrimSpace(text), claims); err != nil {
		return nil
	}
	payload, err := json.Marshal(claims)
	if err != nil {
		return nil
	}
	if s, ok := textOutput(text, payload); ok {
		return []string{s}
	}
	return nil
}
