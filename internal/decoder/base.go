package decoder

import (
	"encoding/ascii85"
	"encoding/base32"
	"encoding/base64"
	"math/big"
	"regexp"
	"strings"
)

var (
	base64Re    = regexp.MustCompile(`^[A-Za-z0-9+/]+={0,2}$`)
	base64URLRe = regexp.MustCompile(`^[A-Za-z0-9_-]+={0,2}$`)
	base32Re    = regexp.MustCompile(`^[A-Z2-7]+={0,6}$`)
	base62Re    = regexp.MustCompile(`^[0-9A-Za-z]+$`)
)

// Inputs longer than this are declined by the big-integer base decoders,
// whose cost grows quadratically with input length.
const maxBigIntInput = 512

// Base64Decoder decodes standard Base64, padded or raw
type Base64Decoder struct {
	BaseDecoder
}

func newBase64Decoder() *Base64Decoder {
	return &Base64Decoder{BaseDecoder{
		NameValue:        "base64",
		DescriptionValue: "Decode standard Base64 (padded or unpadded)",
		PriorityValue:    0.9,
	}}
}

func (d *Base64Decoder) Applicable(text string) bool {
	// Raw (unpadded) Base64 is decodable at any length except 4k+1.
	return len(text) >= 2 && len(text)%4 != 1 && base64Re.MatchString(text)
}

func (d *Base64Decoder) Decode(text string) []string {
	decoded, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		decoded, err = base64.RawStdEncoding.DecodeString(text)
		if err != nil {
			return nil
		}
	}
	if s, ok := textOutput(text, decoded); ok {
		return []string{s}
	}
	return nil
}

// Base64URLDecoder decodes URL-safe Base64, padded or raw
type Base64URLDecoder struct {
	BaseDecoder
}

func newBase64URLDecoder() *Base64URLDecoder {
	return &Base64URLDecoder{BaseDecoder{
		NameValue:        "base64_url",
		DescriptionValue: "Decode URL-safe Base64 (padded or unpadded)",
		PriorityValue:    0.8,
	}}
}

func (d *Base64URLDecoder) Applicable(text string) bool {
	return len(text) >= 2 && len(text)%4 != 1 && base64URLRe.MatchString(text)
}

func (d *Base64URLDecoder) Decode(text string) []string {
	decoded, err := base64.URLEncoding.DecodeString(text)
	if err != nil {
		decoded, err = base64.RawURLEncoding.DecodeString(text)
		if err != nil {
			return nil
		}
	}
	if s, ok := textOutput(text, decoded); ok {
		return []string{s}
	}
	return nil
}

// Base32Decoder decodes standard (RFC 4648) Base32
type Base32Decoder struct {
	BaseDecoder
}

func newBase32Decoder() *Base32Decoder {
	return &Base32Decoder{BaseDecoder{
		NameValue:        "base32",
		DescriptionValue: "Decode standard Base32",
		PriorityValue:    0.7,
	}}
}

func (d *Base32Decoder) Applicable(text string) bool {
	return len(text) >= 8 && len(text)%8 == 0 && base32Re.MatchString(text)
}

func (d *Base32Decoder) Decode(text string) []string {
	decoded, err := base32.StdEncoding.DecodeString(text)
	if err != nil {
		return nil
	}
	if s, ok := textOutput(text, decoded); ok {
		return []string{s}
	}
	return nil
}

// Base62Decoder decodes big-endian base 62 with the 0-9A-Za-z alphabet
type Base62Decoder struct {
	BaseDecoder
}

const base62Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

func newBase62Decoder() *Base62Decoder {
	return &Base62Decoder{BaseDecoder{
		NameValue:        "base62",
		DescriptionValue: "Decode base 62 (0-9A-Za-z alphabet)",
		PriorityValue:    0.3,
	}}
}

func (d *Base62Decoder) Applicable(text string) bool {
	return len(text) >= 2 && len(text) <= maxBigIntInput && base62Re.MatchString(text)
}

func (d *Base62Decoder) Decode(text string) []string {
	if len(text) > maxBigIntInput {
		return nil
	}

	value := new(big.Int)
	sixtyTwo := big.NewInt(62)
	for _, r := range text {
		idx := strings.IndexRune(base62Alphabet, r)
		if idx < 0 {
			return nil
		}
		value.Mul(value, sixtyTwo)
		value.Add(value, big.NewInt(int64(idx)))
	}

	if s, ok := textOutput(text, value.Bytes()); ok {
		return []string{s}
	}
	return nil
}

// ASCII85Decoder decodes Adobe-style Ascii85, with or without <~ ~> framing
type ASCII85Decoder struct {
	BaseDecoder
}

func newASCII85Decoder() *ASCII85Decoder {
	return &ASCII85Decoder{BaseDecoder{
		NameValue:        "ascii85",
		DescriptionValue: "Decode Ascii85 (Base85)",
		PriorityValue:    0.5,
	}}
}

func (d *ASCII85Decoder) Applicable(text string) bool {
	body := stripASCII85Frame(text)
	if len(body) < 2 {
		return false
	}
	for _, r := range body {
		// The decoder skips space and control characters and expands 'z'
		// to a zero group, so both are admissible here.
		if r == 'z' || r <= ' ' {
			continue
		}
		if r < '!' || r > 'u' {
			return false
		}
	}
	return true
}

func (d *ASCII85Decoder) Decode(text string) []string {
	body := stripASCII85Frame(text)
	dst := make([]byte, len(body)*4)
	n, _, err := ascii85.Decode(dst, []byte(body), true)
	if err != nil {
		return nil
	}
	if s, ok := textOutput(text, dst[:n]); ok {
		return []string{s}
	}
	return nil
}

func stripASCII85Frame(text string) string {
	body := strings.TrimSpace(text)
	body = strings.TrimPrefix(body, "<~")
	body = strings.TrimSuffix(body, "~>")
	return body
}
