package drbg

import (
	"encoding/binary"
)

var (
	c00 = []byte{0x00}
	c01 = []byte{0x01}
	c02 = []byte{0x02}
	c03 = []byte{0x03}
)

// fail poisons the instance. The hash context is reset so that a
// partially fed digest computation doesn't leak in to a later
// operation.
func (d *DRBG) fail(reason string) {
	d.state = Failed
	d.errorReason = reason
	if d.ctx != nil {
		d.ctx.Reset()
	}
}

// digest computes the digest of the concatenation of the supplied byte
// ranges in to out, which must be at least outLen bytes, returning the
// digest length.
func (d *DRBG) digest(out []byte, in ...[]byte) (int, bool) {
	if !d.ctx.Init(d.alg.hash) {
		d.fail("digest init failed")
		return 0, false
	}
	for _, b := range in {
		if len(b) == 0 {
			continue
		}
		if !d.ctx.Update(b) {
			d.fail("digest update failed")
			return 0, false
		}
	}
	n, ok := d.ctx.Final(out)
	if !ok {
		d.fail("digest final failed")
		return 0, false
	}
	return n, true
}

// hashDF implements the derivation function described in section 10.3.1
// of SP-800-90A, producing len(out) bytes from the records queued in in.
// The counter and the bit length prefix are inserted at the head of the
// queue, so in is consumed by the call. The counter record is mutated in
// place between iterations.
func (d *DRBG) hashDF(in *byteQueue, out []byte) {
	var prefix [5]byte
	prefix[0] = 1
	binary.BigEndian.PutUint32(prefix[1:], uint32(len(out)*8))

	in.insert(prefix[1:])
	in.insert(prefix[:1])

	for len(out) > 0 {
		if !d.ctx.Init(d.alg.hash) {
			d.fail("digest init failed")
			return
		}
		in.reset()
		for b := in.next(); b != nil; b = in.next() {
			if !d.ctx.Update(b) {
				d.fail("digest update failed")
				return
			}
		}
		n, ok := d.ctx.Final(d.ebuf)
		if !ok {
			d.fail("digest final failed")
			return
		}
		if n > len(out) {
			n = len(out)
		}
		copy(out, d.ebuf[:n])
		out = out[n:]
		prefix[0]++
	}

	wipe(d.ebuf)
}

func (d *DRBG) instantiate(alg *Algorithm, strength int, entropyInput, nonce, personalization []byte) {
	d.alg = alg
	d.strength = strength
	d.state = Ready

	d.v = make([]byte, alg.seedLen)
	d.c = make([]byte, alg.seedLen)
	d.t = make([]byte, alg.seedLen)
	d.ebuf = make([]byte, alg.outLen)

	if !alg.hash.Available() {
		d.fail("digest algorithm unavailable")
		return
	}
	if d.ctx == nil {
		d.ctx = d.engine().NewContext()
	}

	// V = Hash_df(entropy_input || nonce || personalization)
	var seed byteQueue
	seed.push(entropyInput)
	seed.push(nonce)
	seed.push(personalization)
	d.hashDF(&seed, d.v)
	if d.state != Ready {
		return
	}

	// C = Hash_df(0x00 || V)
	var seedC byteQueue
	seedC.push(c00)
	seedC.push(d.v)
	d.hashDF(&seedC, d.c)
	if d.state != Ready {
		return
	}

	d.reseedCounter = 1
}

func (d *DRBG) reseed(entropyInput, additionalInput []byte) {
	// V = Hash_df(0x01 || V || entropy_input || additional_input). V is
	// both input and output here, so C doubles as the scratch target and
	// is recreated from the new V in the next step.
	var seed byteQueue
	seed.push(c01)
	seed.push(d.v)
	seed.push(entropyInput)
	seed.push(additionalInput)
	d.hashDF(&seed, d.c)
	if d.state != Ready {
		return
	}

	copy(d.v, d.c)

	// C = Hash_df(0x00 || V)
	var seedC byteQueue
	seedC.push(c00)
	seedC.push(d.v)
	d.hashDF(&seedC, d.c)
	if d.state != Ready {
		return
	}

	d.reseedCounter = 1
}

func (d *DRBG) generate(additionalInput, data []byte) {
	if len(additionalInput) > 0 {
		// w = Hash(0x02 || V || additional_input)
		n, ok := d.digest(d.ebuf, c02, d.v, additionalInput)
		if !ok {
			return
		}
		// V = V + w mod 2^(8*seedlen), w tail aligned
		add(d.v, d.v, d.ebuf[:n])
	}

	// Returned bytes = Hashgen(requested, V)
	copy(d.t, d.v)
	for out := data; len(out) > 0; {
		n, ok := d.digest(d.ebuf, d.t)
		if !ok {
			return
		}
		// data = data + 1
		add(d.t, d.t, c01)
		if n > len(out) {
			n = len(out)
		}
		copy(out, d.ebuf[:n])
		out = out[n:]
	}
	wipe(d.t)

	// H = Hash(0x03 || V)
	n, ok := d.digest(d.ebuf, c03, d.v)
	if !ok {
		return
	}

	// V = V + H + C + reseed_counter mod 2^(8*seedlen), with H and the
	// serialized counter tail aligned
	add(d.v, d.v, d.ebuf[:n])
	add(d.v, d.v, d.c)
	var rc [4]byte
	binary.BigEndian.PutUint32(rc[:], d.reseedCounter)
	add(d.v, d.v, rc[:])

	d.reseedCounter++
	wipe(d.ebuf)
}
