package internal

import (
	"testing"
)

// FuzzDecodeKey exercises key decoding with arbitrary strings.
// Goal: no panics; decoded keys re-encode to the same text.
func FuzzDecodeKey(f *testing.F) {
	f.Add("")
	f.Add("abc")
	f.Add("zVcjfPvRtDf7jkBdKz6egs3r3VjY6XO3UqTDlVf4A7yTPlbsYOb-2yjbTiivb6zyLmUY69oICciHl1D4FlcUYA")

	if text, err := NewKeyText(DefaultKeySize); err == nil {
		f.Add(text)
	}

	// Malformed base64.
	f.Add("!!!not-base64!!!")
	f.Add("aGVsbG8=")

	f.Fuzz(func(t *testing.T, input string) {
		key, err := DecodeKey(input)
		if err != nil {
			return
		}

		again, err := DecodeKey(EncodeKey(key))
		if err != nil {
			t.Fatalf("roundtrip decode failed: %v", err)
		}
		if string(again) != string(key) {
			t.Fatal("roundtrip changed the key")
		}
	})
}
