package decoder

import (
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"
)

var (
	hexBodyRe    = regexp.MustCompile(`^[0-9a-fA-F]+$`)
	binaryBodyRe = regexp.MustCompile(`^[01]+$`)
)

// HexDecoder decodes hexadecimal strings, tolerating common prefixes and
// separators (0x, \x, spaces, colons, commas, dashes)
type HexDecoder struct {
	BaseDecoder
}

func newHexDecoder() *HexDecoder {
	return &HexDecoder{BaseDecoder{
		NameValue:        "hex",
		DescriptionValue: "Decode hexadecimal (tolerates 0x/\\x prefixes and separators)",
		PriorityValue:    0.9,
	}}
}

func (d *HexDecoder) Applicable(text string) bool {
	cleaned := cleanHex(text)
	return len(cleaned) >= 2 && len(cleaned)%2 == 0 && hexBodyRe.MatchString(cleaned)
}

func (d *HexDecoder) Decode(text string) []string {
	cleaned := cleanHex(text)
	if len(cleaned)%2 != 0 {
		return nil
	}

	decoded, err := hex.DecodeString(cleaned)
	if err != nil {
		return nil
	}
	if s, ok := textOutput(text, decoded); ok {
		return []string{s}
	}
	return nil
}

// cleanHex removes the prefixes and separators hex dumps commonly carry
func cleanHex(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.ReplaceAll(cleaned, "0x", "")
	cleaned = strings.ReplaceAll(cleaned, "0X", "")
	cleaned = strings.ReplaceAll(cleaned, "\\x", "")
	for _, sep := range []string{" ", "\t", "\n", "\r", ":", ",", "-"} {
		cleaned = strings.ReplaceAll(cleaned, sep, "")
	}
	return cleaned
}

// BinaryDecoder decodes strings of 0s and 1s in 8-bit groups
type BinaryDecoder struct {
	BaseDecoder
}

func newBinaryDecoder() *BinaryDecoder {
	return &BinaryDecoder{BaseDecoder{
		NameValue:        "binary",
		DescriptionValue: "Decode binary (8-bit groups of 0s and 1s)",
		PriorityValue:    0.85,
	}}
}

func (d *BinaryDecoder) Applicable(text string) bool {
	cleaned := cleanBinary(text)
	return len(cleaned) >= 8 && len(cleaned)%8 == 0 && binaryBodyRe.MatchString(cleaned)
}

func (d *BinaryDecoder) Decode(text string) []string {
	cleaned := cleanBinary(text)
	if len(cleaned) < 8 || len(cleaned)%8 != 0 {
		return nil
	}

	result := make([]byte, 0, len(cleaned)/8)
	for i := 0; i < len(cleaned); i += 8 {
		val, err := strconv.ParseUint(cleaned[i:i+8], 2, 8)
		if err != nil {
			return nil
		}
		result = append(result, byte(val))
	}

	if s, ok := textOutput(text, result); ok {
		return []string{s}
	}
	return nil
}

func cleanBinary(text string) string {
	cleaned := strings.TrimSpace(text)
	for _, sep := range []string{" ", "\t", "\n", "\r"} {
		cleaned = strings.ReplaceAll(cleaned, sep, "")
	}
	return cleaned
}
