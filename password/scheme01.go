package password

import (
	"errors"

	"github.com/MrEthical07/goCrypt/internal/sign"
)

type scheme01 struct {
	key []byte
}

func (s *scheme01) Hash(c ContentToHash) (string, error) {
	return sign.Sign(s.key, c.Content, c.Salt)
}

func (s *scheme01) Validate(c ContentToHash, ref string) error {
	if err := sign.Verify(s.key, c.Content, c.Salt, ref); err != nil {
		if errors.Is(err, sign.ErrMismatch) {
			return ErrPwdValidate
		}
		return err
	}
	return nil
}
