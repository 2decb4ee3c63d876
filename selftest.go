package drbg

import (
	"bytes"
)

// knownAnswerTests runs one known answer round for every supported
// strength slot that carries a vector. The rounds always run against
// the built in primitive engine: demotion is a statement about the real
// primitives, not about whatever engine a caller may have injected in
// to its own instances.
func (a *Algorithm) knownAnswerTests() bool {
	for i, strength := range a.strengths {
		if strength == 0 {
			continue
		}
		vec := &a.vectors[i]
		if len(vec.expected) == 0 {
			continue
		}
		if !a.knownAnswerTest(strength, vec) {
			return false
		}
	}
	return true
}

// knownAnswerTest drives Instantiate, an optional Reseed and a single
// Generate on a scratch instance and compares the generated bytes with
// the expected output. The scratch instance never escapes and is
// zeroized before returning.
func (a *Algorithm) knownAnswerTest(strength int, vec *katVector) (ok bool) {
	d := new(DRBG)
	defer d.Uninstantiate()

	d.instantiate(a, strength, vec.entropyInput, vec.nonce, vec.personalization)
	if d.state != Ready {
		return false
	}

	if len(vec.entropyInputReseed) > 0 {
		d.reseed(vec.entropyInputReseed, vec.additionalInputReseed)
		if d.state != Ready {
			return false
		}
	}

	got := make([]byte, len(vec.expected))
	defer wipe(got)

	d.generate(vec.additionalInput, got)
	if d.state != Ready {
		return false
	}

	return bytes.Equal(got, vec.expected)
}
