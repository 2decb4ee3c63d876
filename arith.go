package drbg

// add writes (a + b) mod 2^(8*len(a)) into dst, treating both operands
// as big-endian unsigned integers with b right-aligned against a. The
// carry out of the top byte is discarded. dst may alias a, but not b.
func add(dst, a, b []byte) {
	if len(b) > len(a) {
		panic("addend wider than accumulator")
	}

	var carry uint
	j := len(b) - 1
	for i := len(a) - 1; i >= 0; i-- {
		s := uint(a[i]) + carry
		if j >= 0 {
			s += uint(b[j])
			j--
		}
		dst[i] = byte(s)
		carry = s >> 8
	}
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
