package argon2key

// compress computes G(x, y) into out, XOR-ing with the previous content of
// out when xor is set (passes after the first).
func compress(out, x, y *block, xor bool) {
	var r, q block
	for i := range r {
		r[i] = x[i] ^ y[i]
	}
	q = r

	for i := 0; i < blockWords; i += 16 {
		permute(&q,
			i, i+1, i+2, i+3, i+4, i+5, i+6, i+7,
			i+8, i+9, i+10, i+11, i+12, i+13, i+14, i+15)
	}
	for i := 0; i < 16; i += 2 {
		permute(&q,
			i, i+1, 16+i, 17+i, 32+i, 33+i, 48+i, 49+i,
			64+i, 65+i, 80+i, 81+i, 96+i, 97+i, 112+i, 113+i)
	}

	if xor {
		for i := range q {
			out[i] ^= q[i] ^ r[i]
		}
		return
	}
	for i := range q {
		out[i] = q[i] ^ r[i]
	}
}

// permute applies the BLAKE2b round function P with the BlaMka
// multiplication to the sixteen words of v at the given indices.
func permute(v *block, i0, i1, i2, i3, i4, i5, i6, i7, i8, i9, i10, i11, i12, i13, i14, i15 int) {
	gb(v, i0, i4, i8, i12)
	gb(v, i1, i5, i9, i13)
	gb(v, i2, i6, i10, i14)
	gb(v, i3, i7, i11, i15)
	gb(v, i0, i5, i10, i15)
	gb(v, i1, i6, i11, i12)
	gb(v, i2, i7, i8, i13)
	gb(v, i3, i4, i9, i14)
}

func gb(v *block, a, b, c, d int) {
	v[a] = fBlaMka(v[a], v[b])
	v[d] = rotr(v[d]^v[a], 32)
	v[c] = fBlaMka(v[c], v[d])
	v[b] = rotr(v[b]^v[c], 24)
	v[a] = fBlaMka(v[a], v[b])
	v[d] = rotr(v[d]^v[a], 16)
	v[c] = fBlaMka(v[c], v[d])
	v[b] = rotr(v[b]^v[c], 63)
}

func fBlaMka(x, y uint64) uint64 {
	return x + y + 2*uint64(uint32(x))*uint64(uint32(y))
}

func rotr(x uint64, n uint) uint64 {
	return x>>n | x<<(64-n)
}
