package drbg

import (
	"crypto"
	_ "crypto/sha1"
	_ "crypto/sha256"
	_ "crypto/sha512"
	"hash"
)

// Context is a handle on the primitive hash engine. Every operation
// reports success; the DRBG treats any failure as fatal for the
// instance that observed it.
type Context interface {
	// Init prepares the context for a new digest computation with the
	// supplied algorithm.
	Init(alg crypto.Hash) bool

	// Update feeds data in to the current digest computation.
	Update(data []byte) bool

	// Final writes the digest to out, which must have room for it, and
	// returns the digest length. The context must be initialized again
	// before it can be reused.
	Final(out []byte) (int, bool)

	// Reset abandons any digest computation in progress.
	Reset() bool

	// Free releases the context's resources.
	Free()
}

// Engine supplies primitive hash contexts to DRBG instances.
type Engine interface {
	NewContext() Context
}

type stdContext struct {
	h hash.Hash
}

func (c *stdContext) Init(alg crypto.Hash) bool {
	if !alg.Available() {
		return false
	}
	c.h = alg.New()
	return true
}

func (c *stdContext) Update(data []byte) bool {
	if c.h == nil {
		return false
	}
	c.h.Write(data)
	return true
}

func (c *stdContext) Final(out []byte) (int, bool) {
	if c.h == nil {
		return 0, false
	}
	sum := c.h.Sum(nil)
	c.h = nil
	return copy(out, sum), true
}

func (c *stdContext) Reset() bool {
	c.h = nil
	return true
}

func (c *stdContext) Free() {
	c.h = nil
}

type stdEngine struct{}

func (stdEngine) NewContext() Context { return new(stdContext) }

// defaultEngine backs instances with no explicit engine, and all
// descriptor health checks.
var defaultEngine Engine = stdEngine{}
