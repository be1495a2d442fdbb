package decoder

import (
	"encoding/ascii85"
	"testing"

	"github.com/mr-tron/base58"
)

func decodeOne(t *testing.T, name, input string) string {
	t.Helper()
	d, ok := DefaultRegistry().Get(name)
	if !ok {
		t.Fatalf("missing decoder %s", name)
	}
	outs := d.Decode(input)
	if len(outs) != 1 {
		t.Fatalf("%s(%q) returned %d candidates, want 1", name, input, len(outs))
	}
	return outs[0]
}

func TestSingleOutputDecoders(t *testing.T) {
	tests := []struct {
		decoder string
		input   string
		want    string
	}{
		{"base64", "aGVsbG8gd29ybGQ=", "hello world"},
		{"base64", "aGVsbG8gd29ybGQ", "hello world"}, // unpadded
		{"base64_url", "aGVsbG8gd29ybGQ", "hello world"},
		{"base32", "NBSWY3DPEB3W64TMMQ======", "hello world"},
		{"base58_bitcoin", "StV1DL6CwTryKyV", "hello world"},
		{"base62", "6x7", "hi"},
		{"hex", "68656c6c6f20776f726c64", "hello world"},
		{"hex", "0x68:0x65:0x6c:0x6c:0x6f", "hello"},
		{"hex", "\\x68\\x69", "hi"},
		{"binary", "0110100001101001", "hi"},
		{"binary", "01101000 01101001", "hi"},
		{"morse", ".... . .-.. .-.. --- / .-- --- .-. .-.. -..", "hello world"},
		{"url", "hello%20world", "hello world"},
		{"html_entity", "hello &amp; goodbye", "hello & goodbye"},
		{"punycode", "xn--mnchen-3ya", "münchen"},
		{"atbash", "svool dliow", "hello world"},
		{"rot47", "96==@", "hello"},
		{"a1z26", "8 5 12 12 15", "hello"},
		{"reverse", "dlrow olleh", "hello world"},
		{"citrix_ctx1", "NBHELEBBMHGCLDBG", "test"},
		{"jwt", "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJzdWIiOiIxMjM0NTY3ODkwIn0.abc", `{"sub":"1234567890"}`},
	}
	for _, tt := range tests {
		t.Run(tt.decoder+"/"+tt.input, func(t *testing.T) {
			if got := decodeOne(t, tt.decoder, tt.input); got != tt.want {
				t.Errorf("%s(%q) = %q, want %q", tt.decoder, tt.input, got, tt.want)
			}
		})
	}
}

func TestDecodersRejectInvalid(t *testing.T) {
	tests := []struct {
		decoder string
		input   string
	}{
		{"base64", "not valid base64!!"},
		{"base32", "lowercase"},
		{"hex", "xyz"},
		{"hex", "abc"}, // odd digit count
		{"binary", "01234"},
		{"morse", ".... .--.-.-.-.-.-"}, // unknown code
		{"a1z26", "27 99"},
		{"citrix_ctx1", "ABCZ"},
		{"jwt", "a.b"},
		{"punycode", "plain text"},
	}
	for _, tt := range tests {
		t.Run(tt.decoder+"/"+tt.input, func(t *testing.T) {
			d, ok := DefaultRegistry().Get(tt.decoder)
			if !ok {
				t.Fatalf("missing decoder %s", tt.decoder)
			}
			if outs := d.Decode(tt.input); len(outs) != 0 {
				t.Errorf("%s(%q) = %q, want no candidates", tt.decoder, tt.input, outs)
			}
		})
	}
}

func TestCaesarEmitsAllRotations(t *testing.T) {
	outs := decodeAll(t, "caesar", "uryyb jbeyq")
	if len(outs) != 25 {
		t.Fatalf("caesar returned %d candidates, want 25", len(outs))
	}
	found := false
	for _, out := range outs {
		if out == "hello world" {
			found = true
		}
	}
	if !found {
		t.Error("ROT13 rotation of uryyb jbeyq missing from caesar output")
	}
}

func decodeAll(t *testing.T, name, input string) []string {
	t.Helper()
	d, ok := DefaultRegistry().Get(name)
	if !ok {
		t.Fatalf("missing decoder %s", name)
	}
	return d.Decode(input)
}

func TestBase58AlternateAlphabets(t *testing.T) {
	plain := "hello world"
	for _, tt := range []struct {
		name     string
		alphabet *base58.Alphabet
	}{
		{"base58_ripple", rippleAlphabet},
		{"base58_flickr", flickrAlphabet},
	} {
		t.Run(tt.name, func(t *testing.T) {
			encoded := base58.EncodeAlphabet([]byte(plain), tt.alphabet)
			if got := decodeOne(t, tt.name, encoded); got != plain {
				t.Errorf("%s(%q) = %q, want %q", tt.name, encoded, got, plain)
			}
		})
	}
}

func TestASCII85RoundTrip(t *testing.T) {
	plain := "hello world"
	buf := make([]byte, ascii85.MaxEncodedLen(len(plain)))
	n := ascii85.Encode(buf, []byte(plain))
	encoded := string(buf[:n])

	if got := decodeOne(t, "ascii85", encoded); got != plain {
		t.Errorf("ascii85(%q) = %q, want %q", encoded, got, plain)
	}
	if got := decodeOne(t, "ascii85", "<~"+encoded+"~>"); got != plain {
		t.Errorf("framed ascii85 = %q, want %q", got, plain)
	}
}
