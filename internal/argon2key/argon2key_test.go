package argon2key

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"

	"golang.org/x/crypto/argon2"
)

func repeat(b byte, n int) []byte {
	return bytes.Repeat([]byte{b}, n)
}

func TestIDKeyRFC9106Vector(t *testing.T) {
	got, err := IDKey(repeat(0x01, 32), repeat(0x02, 16), repeat(0x03, 8), repeat(0x04, 12), Params{
		Memory:  32,
		Time:    3,
		Threads: 4,
		KeyLen:  32,
	})
	if err != nil {
		t.Fatalf("IDKey error: %v", err)
	}

	want := "0d640df58d78766c08c037a34a8b53c9d01ef0452d75b65eb52520e96b01e659"
	if hex.EncodeToString(got) != want {
		t.Fatalf("unexpected tag: got %x want %s", got, want)
	}
}

func TestIDKeyMatchesUnkeyedLibrary(t *testing.T) {
	cases := []Params{
		{Memory: 64, Time: 1, Threads: 1, KeyLen: 32},
		{Memory: 256, Time: 2, Threads: 2, KeyLen: 64},
		{Memory: 300, Time: 3, Threads: 3, KeyLen: 80},
	}

	pwd := []byte("correct horse battery staple")
	salt := []byte("0123456789abcdef")
	for _, p := range cases {
		got, err := IDKey(pwd, salt, nil, nil, p)
		if err != nil {
			t.Fatalf("IDKey(%+v) error: %v", p, err)
		}
		want := argon2.IDKey(pwd, salt, p.Time, p.Memory, p.Threads, p.KeyLen)
		if !bytes.Equal(got, want) {
			t.Fatalf("IDKey(%+v) diverges from argon2.IDKey", p)
		}
	}
}

func TestIDKeySecretChangesOutput(t *testing.T) {
	p := Params{Memory: 64, Time: 1, Threads: 1, KeyLen: 32}
	salt := repeat(0x07, 16)

	a, err := IDKey([]byte("pwd"), salt, []byte("key-a"), nil, p)
	if err != nil {
		t.Fatalf("IDKey error: %v", err)
	}
	b, err := IDKey([]byte("pwd"), salt, []byte("key-b"), nil, p)
	if err != nil {
		t.Fatalf("IDKey error: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatal("expected different secrets to produce different keys")
	}
}

func TestIDKeyRejectsInvalidParams(t *testing.T) {
	cases := []struct {
		name string
		salt []byte
		p    Params
	}{
		{name: "zero time", salt: repeat(1, 16), p: Params{Memory: 64, Time: 0, Threads: 1, KeyLen: 32}},
		{name: "zero threads", salt: repeat(1, 16), p: Params{Memory: 64, Time: 1, Threads: 0, KeyLen: 32}},
		{name: "short key", salt: repeat(1, 16), p: Params{Memory: 64, Time: 1, Threads: 1, KeyLen: 3}},
		{name: "low memory", salt: repeat(1, 16), p: Params{Memory: 15, Time: 1, Threads: 2, KeyLen: 32}},
		{name: "short salt", salt: repeat(1, 4), p: Params{Memory: 64, Time: 1, Threads: 1, KeyLen: 32}},
	}

	for _, tc := range cases {
		if _, err := IDKey([]byte("pwd"), tc.salt, nil, nil, tc.p); !errors.Is(err, ErrInvalidParams) {
			t.Fatalf("%s: expected ErrInvalidParams, got %v", tc.name, err)
		}
	}
}
