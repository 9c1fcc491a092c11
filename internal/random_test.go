package internal

import (
	"bytes"
	"errors"
	"testing"
)

func TestNewKey(t *testing.T) {
	a, err := NewKey(DefaultKeySize)
	if err != nil {
		t.Fatalf("NewKey failed: %v", err)
	}
	b, err := NewKey(DefaultKeySize)
	if err != nil {
		t.Fatalf("NewKey failed: %v", err)
	}
	if len(a) != DefaultKeySize || bytes.Equal(a, b) {
		t.Fatal("expected two distinct keys of default size")
	}

	if _, err := NewKey(MinKeySize - 1); !errors.Is(err, ErrKeyTooShort) {
		t.Fatalf("expected ErrKeyTooShort, got %v", err)
	}
}

func TestDecodeKeyRejectsPaddingAndStdAlphabet(t *testing.T) {
	for _, text := range []string{"aGVsbG8=", "a+b/", "!!!"} {
		if _, err := DecodeKey(text); !errors.Is(err, ErrKeyEncoding) {
			t.Fatalf("%q: expected ErrKeyEncoding, got %v", text, err)
		}
	}
}

func TestKnownKeyText(t *testing.T) {
	const text = "8LS0-N7QUIwkErzfWWuVAQa33rOXIkS-YW5VopF61Z4-wZCjvgu3smmJ3zEqtw2MRe0WFiamYoCkCclbuga1CA"
	key, err := DecodeKey(text)
	if err != nil {
		t.Fatalf("DecodeKey failed: %v", err)
	}
	if len(key) != 64 {
		t.Fatalf("expected 64 bytes, got %d", len(key))
	}
	if EncodeKey(key) != text {
		t.Fatal("encode is not the inverse of decode")
	}
}
