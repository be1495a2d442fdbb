package decoder

import (
	"strings"

	"github.com/mr-tron/base58"
)

const (
	bitcoinCharset = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"
	rippleCharset  = "rpshnaf39wBUDNEGHJKLM4PQRST7VWXYZ2bcdeCg65jkm8oFqi1tuvAxyz"
	flickrCharset  = "123456789abcdefghijkmnopqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ"
)

var (
	bitcoinAlphabet = base58.BTCAlphabet
	rippleAlphabet  = base58.NewAlphabet(rippleCharset)
	flickrAlphabet  = base58.FlickrAlphabet
)

// Base58Decoder decodes Base58 for one alphabet. Bitcoin, Ripple and Flickr
// variants are registered as separate decoders so decode paths name the
// alphabet that was actually reversed.
type Base58Decoder struct {
	BaseDecoder
	alphabet *base58.Alphabet
	charset  string
}

func newBase58Decoder(name, description string, priority float64, alphabet *base58.Alphabet, charset string) *Base58Decoder {
	return &Base58Decoder{
		BaseDecoder: BaseDecoder{
			NameValue:        name,
			DescriptionValue: description,
			PriorityValue:    priority,
		},
		alphabet: alphabet,
		charset:  charset,
	}
}

func (d *Base58Decoder) Applicable(text string) bool {
	if len(text) < 2 || len(text) > maxBigIntInput {
		return false
	}
	for _, r := range text {
		if !strings.ContainsRune(d.charset, r) {
			return false
		}
	}
	return true
}

func (d *Base58Decoder) Decode(text string) []string {
	if len(text) > maxBigIntInput {
		return nil
	}

	decoded, err := base58.DecodeAlphabet(text, d.alphabet)
	if err != nil {
		return nil
	}
	if s, ok := textOutput(text, decoded); ok {
		return []string{s}
	}
	return nil
}
