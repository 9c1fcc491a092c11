package password

import (
	"crypto/sha512"
	"testing"

	"github.com/google/uuid"
)

const (
	fxContent = "password"
	fxSalt    = "dccda68f-6def-44f4-b901-fabe784dc335"

	fxScheme01 = "z8BcQC3PurNDD9GpQ9Pm5JpyjNT7KQTz_80vGR_wtnJI2o8aBk1Mzb6juR-PiycDtwYjePeQMOa1QoCMuy2wSQ"
	fxScheme02 = "$argon2id$v=19$m=19456,t=2,p=1$3M2mj23vRPS5Afq+eE3DNQ$25rhkW6uSEJMRW0R6LgvOInh9K8lowx2GgdjuQ8ODa0"
	fxScheme03 = "3209c3ba85be18935fc461f35f927d38c72e96f077eed4172be767b05448a40c"
)

func testKey() []byte {
	sum := sha512.Sum512([]byte("goCrypt test password key"))
	return sum[:]
}

func fixture() ContentToHash {
	return ContentToHash{Content: fxContent, Salt: uuid.MustParse(fxSalt)}
}

func newTestHasher(t *testing.T) *Hasher {
	t.Helper()

	h, err := NewHasher(Config{Key: testKey(), Workers: 2})
	if err != nil {
		t.Fatalf("NewHasher error: %v", err)
	}
	t.Cleanup(h.Close)
	return h
}
