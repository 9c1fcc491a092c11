package argon2key

import (
	"encoding/binary"
	"errors"
	"hash"
	"sync"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/blake2b"
)

const (
	modeID      = 2
	blockWords  = 128
	syncPoints  = 4
	minKeyLen   = 4
	minSaltLen  = 8
	maxInputLen = 1<<32 - 1
)

var (
	// ErrInvalidParams is returned when cost parameters cannot produce a key.
	ErrInvalidParams = errors.New("argon2key: invalid parameters")
)

// Params holds the Argon2id cost parameters. Memory is in KiB.
type Params struct {
	Memory  uint32
	Time    uint32
	Threads uint8
	KeyLen  uint32
}

// Validate reports whether p can be used for derivation.
func (p Params) Validate() error {
	switch {
	case p.Time < 1:
		return ErrInvalidParams
	case p.Threads < 1:
		return ErrInvalidParams
	case p.KeyLen < minKeyLen:
		return ErrInvalidParams
	case p.Memory < 8*uint32(p.Threads):
		return ErrInvalidParams
	}
	return nil
}

type block [blockWords]uint64

// IDKey derives an Argon2id key from password and salt, binding the secret
// and associated data into the initial hash.
func IDKey(password, salt, secret, data []byte, p Params) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(salt) < minSaltLen {
		return nil, ErrInvalidParams
	}
	if uint64(len(password)) > maxInputLen || uint64(len(secret)) > maxInputLen || uint64(len(data)) > maxInputLen {
		return nil, ErrInvalidParams
	}

	threads := uint32(p.Threads)
	h0 := initHash(password, salt, secret, data, p)

	memory := p.Memory / (syncPoints * threads) * (syncPoints * threads)
	if memory < 2*syncPoints*threads {
		memory = 2 * syncPoints * threads
	}

	B := initBlocks(&h0, memory, threads)
	fill(B, p.Time, memory, threads)
	return finalize(B, memory, threads, p.KeyLen), nil
}

func initHash(password, salt, secret, data []byte, p Params) [blake2b.Size + 8]byte {
	var (
		h0     [blake2b.Size + 8]byte
		params [24]byte
	)

	b2, _ := blake2b.New512(nil)
	binary.LittleEndian.PutUint32(params[0:4], uint32(p.Threads))
	binary.LittleEndian.PutUint32(params[4:8], p.KeyLen)
	binary.LittleEndian.PutUint32(params[8:12], p.Memory)
	binary.LittleEndian.PutUint32(params[12:16], p.Time)
	binary.LittleEndian.PutUint32(params[16:20], uint32(argon2.Version))
	binary.LittleEndian.PutUint32(params[20:24], modeID)
	b2.Write(params[:])
	for _, in := range [][]byte{password, salt, secret, data} {
		writePrefixed(b2, in)
	}
	b2.Sum(h0[:0])
	return h0
}

func writePrefixed(h hash.Hash, in []byte) {
	var n [4]byte
	binary.LittleEndian.PutUint32(n[:], uint32(len(in)))
	h.Write(n[:])
	h.Write(in)
}

func initBlocks(h0 *[blake2b.Size + 8]byte, memory, threads uint32) []block {
	var raw [1024]byte
	B := make([]block, memory)
	laneLen := memory / threads
	for lane := uint32(0); lane < threads; lane++ {
		binary.LittleEndian.PutUint32(h0[blake2b.Size+4:], lane)
		for i := uint32(0); i < 2; i++ {
			binary.LittleEndian.PutUint32(h0[blake2b.Size:], i)
			longHash(raw[:], h0[:])
			dst := &B[lane*laneLen+i]
			for w := range dst {
				dst[w] = binary.LittleEndian.Uint64(raw[w*8:])
			}
		}
	}
	return B
}

func fill(B []block, time, memory, threads uint32) {
	laneLen := memory / threads
	segLen := laneLen / syncPoints

	for pass := uint32(0); pass < time; pass++ {
		for slice := uint32(0); slice < syncPoints; slice++ {
			var wg sync.WaitGroup
			for lane := uint32(0); lane < threads; lane++ {
				wg.Add(1)
				go func(lane uint32) {
					defer wg.Done()
					fillSegment(B, pass, slice, lane, time, memory, threads, laneLen, segLen)
				}(lane)
			}
			wg.Wait()
		}
	}
}

func fillSegment(B []block, pass, slice, lane, time, memory, threads, laneLen, segLen uint32) {
	var addresses, input, zero block
	dataIndependent := pass == 0 && slice < syncPoints/2
	if dataIndependent {
		input[0] = uint64(pass)
		input[1] = uint64(lane)
		input[2] = uint64(slice)
		input[3] = uint64(memory)
		input[4] = uint64(time)
		input[5] = modeID
	}
	nextAddresses := func() {
		input[6]++
		compress(&addresses, &input, &zero, false)
		compress(&addresses, &addresses, &zero, false)
	}

	index := uint32(0)
	if pass == 0 && slice == 0 {
		index = 2
		if dataIndependent {
			nextAddresses()
		}
	}

	offset := lane*laneLen + slice*segLen + index
	for ; index < segLen; index, offset = index+1, offset+1 {
		prev := offset - 1
		if index == 0 && slice == 0 {
			prev += laneLen
		}

		var pseudo uint64
		if dataIndependent {
			if index%blockWords == 0 {
				nextAddresses()
			}
			pseudo = addresses[index%blockWords]
		} else {
			pseudo = B[prev][0]
		}

		ref := referenceIndex(pseudo, laneLen, segLen, threads, pass, slice, lane, index)
		compress(&B[offset], &B[prev], &B[ref], pass > 0)
	}
}

func referenceIndex(pseudo uint64, laneLen, segLen, threads, pass, slice, lane, index uint32) uint32 {
	refLane := uint32(pseudo>>32) % threads
	if pass == 0 && slice == 0 {
		refLane = lane
	}

	area, start := 3*segLen, ((slice+1)%syncPoints)*segLen
	if lane == refLane {
		area += index
	}
	if pass == 0 {
		area, start = slice*segLen, 0
		if slice == 0 || lane == refLane {
			area += index
		}
	}
	if index == 0 || lane == refLane {
		area--
	}

	x := pseudo & 0xFFFFFFFF
	x = (x * x) >> 32
	x = (uint64(area) * x) >> 32
	rel := (uint64(start) + uint64(area) - (x + 1)) % uint64(laneLen)
	return refLane*laneLen + uint32(rel)
}

func finalize(B []block, memory, threads, keyLen uint32) []byte {
	laneLen := memory / threads
	last := B[memory-1]
	for lane := uint32(0); lane < threads-1; lane++ {
		for i, v := range B[lane*laneLen+laneLen-1] {
			last[i] ^= v
		}
	}

	var raw [1024]byte
	for i, v := range last {
		binary.LittleEndian.PutUint64(raw[i*8:], v)
	}
	key := make([]byte, keyLen)
	longHash(key, raw[:])
	return key
}

// longHash is the variable-length hash H' of RFC 9106 section 3.3.
func longHash(out, in []byte) {
	var prefix [4]byte
	binary.LittleEndian.PutUint32(prefix[:], uint32(len(out)))

	if len(out) <= blake2b.Size {
		b2, _ := blake2b.New(len(out), nil)
		b2.Write(prefix[:])
		b2.Write(in)
		b2.Sum(out[:0])
		return
	}

	b2, _ := blake2b.New512(nil)
	b2.Write(prefix[:])
	b2.Write(in)
	var v [blake2b.Size]byte
	b2.Sum(v[:0])

	r := (len(out)+31)/32 - 2
	pos := copy(out, v[:32])
	for i := 1; i < r; i++ {
		v = blake2b.Sum512(v[:])
		pos += copy(out[pos:], v[:32])
	}

	tail, _ := blake2b.New(len(out)-32*r, nil)
	tail.Write(v[:])
	tail.Sum(out[pos:pos])
}
