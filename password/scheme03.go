package password

import (
	"crypto/subtle"
	"encoding/hex"

	"lukechampine.com/blake3"
)

type scheme03 struct {
	key [32]byte
}

func newScheme03(pwdKey []byte) *scheme03 {
	return &scheme03{key: blake3.Sum256(pwdKey)}
}

func (s *scheme03) Hash(c ContentToHash) (string, error) {
	h := blake3.New(32, s.key[:])
	h.Write([]byte(c.Content))
	h.Write(c.Salt[:])
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (s *scheme03) Validate(c ContentToHash, ref string) error {
	computed, err := s.Hash(c)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(computed), []byte(ref)) != 1 {
		return ErrPwdValidate
	}
	return nil
}
