// Copyright 2021 Canonical Ltd.
// Licensed under the LGPLv3 with static-linking exception.
// See LICENCE file for details.

/*
Package drbg implements the hash DRBG mechanism recommended by NIST
SP-800-90A (see
http://csrc.nist.gov/publications/nistpubs/800-90A/SP800-90A.pdf) for
the SHA-1 and SHA-2 family of digest algorithms.

Each supported digest has a descriptor recording its seed length, its
boundary limits, the security strengths it can be instantiated at and a
set of known answer vectors. The known answer tests run before a
descriptor's first instantiation and again at a configurable interval;
a descriptor that fails them is permanently removed from the approved
set.

The four lifecycle operations (Instantiate, Reseed, Generate and
Uninstantiate) report the post-operation state rather than returning
errors. An instance that observes a primitive hash failure is poisoned
until Uninstantiate, which zeroizes the internal state.

DRBGs can be instantiated with the platform's default entropy source
(via the crypto/rand package) or with externally supplied entropy. An
instance with an entropy source attached is automatically reseeded once
the current seed period expires.

Note that prediction resistance is not implemented. A caller that
requires it must invoke Reseed with fresh entropy before each Generate.

A DRBG instance is a single writer resource: a caller sharing one
instance across goroutines must serialize the lifecycle calls
externally. Distinct instances are independent.
*/
package drbg

import (
	"crypto"
	"crypto/rand"
	"errors"
	"io"

	"golang.org/x/xerrors"
)

// ErrReseedRequired indicates that the DRBG must be reseeded before
// it can generate random bytes.
var ErrReseedRequired = errors.New("the DRBG must be reseeded")

// State describes the lifecycle state of a DRBG instance, or the
// outcome of a lifecycle operation.
type State int

const (
	// Uninitialized is the state of an instance shell before
	// Instantiate.
	Uninitialized State = iota

	// Ready indicates that the instance can generate random bytes.
	Ready

	// Failed indicates that a primitive hash operation failed. The
	// instance refuses everything except Uninstantiate and retains a
	// diagnostic, retrievable with ErrorReason.
	Failed

	// Terminated is the state after Uninstantiate.
	Terminated

	// InputError is returned when an operation is invoked in the wrong
	// lifecycle state or with arguments that violate the descriptor's
	// boundary limits. The instance is left unchanged.
	InputError

	// ReseedRequired is returned by Generate once the seed period has
	// expired. The instance remains Ready and no bytes are emitted; a
	// successful Reseed restores generation.
	ReseedRequired
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Ready:
		return "ready"
	case Failed:
		return "error"
	case Terminated:
		return "terminated"
	case InputError:
		return "input error"
	case ReseedRequired:
		return "reseed required"
	default:
		return "invalid"
	}
}

// DRBG corresponds to an instantiated hash DRBG. The zero value is an
// instance shell ready for Instantiate.
type DRBG struct {
	// Engine overrides the primitive hash engine backing the instance.
	// It must be set before Instantiate, if at all. A nil Engine selects
	// the built in one.
	Engine Engine

	// RequireApproved restricts instantiation to algorithms that are
	// FIPS approved and have not failed their known answer tests.
	RequireApproved bool

	entropySource io.Reader

	alg         *Algorithm
	strength    int
	state       State
	errorReason string

	v    []byte
	c    []byte
	t    []byte
	ebuf []byte

	ctx           Context
	reseedCounter uint32
}

func (d *DRBG) engine() Engine {
	if d.Engine != nil {
		return d.Engine
	}
	return defaultEngine
}

// State returns the lifecycle state the instance is currently in.
func (d *DRBG) State() State {
	return d.state
}

// ErrorReason returns the diagnostic recorded when the instance entered
// the Failed state.
func (d *DRBG) ErrorReason() string {
	return d.errorReason
}

// Algorithm returns the descriptor the instance was instantiated
// against, or nil.
func (d *DRBG) Algorithm() *Algorithm {
	return d.alg
}

// Instantiate seeds the instance from the supplied entropy input, nonce
// and optional personalization string, at the requested security
// strength. The descriptor's known answer tests run first when due; an
// instance with RequireApproved set refuses descriptors that are not
// FIPS approved or that have been demoted.
//
// The entropy input must provide at least strength bits and each input
// is bounded by the descriptor's limits. Violations return InputError
// and leave the instance untouched.
func (d *DRBG) Instantiate(alg *Algorithm, strength int, entropyInput, nonce, personalization []byte) State {
	if d.state != Uninitialized {
		return InputError
	}
	if alg == nil || !alg.Supports(strength) {
		return InputError
	}
	if len(entropyInput) > alg.maxEntropy || len(entropyInput)*8 < strength {
		return InputError
	}
	if len(nonce) > alg.maxNonce {
		return InputError
	}
	if len(personalization) > alg.maxPersonalization {
		return InputError
	}

	healthy := alg.healthCheck()
	if d.RequireApproved && !(healthy && alg.fips) {
		return InputError
	}

	d.instantiate(alg, strength, entropyInput, nonce, personalization)
	return d.state
}

// Reseed combines the current state with the supplied entropy input and
// optional additional input to derive a fresh seed, restarting the seed
// period.
func (d *DRBG) Reseed(entropyInput, additionalInput []byte) State {
	switch d.state {
	case Ready:
	case Failed:
		return d.state
	default:
		return InputError
	}
	if len(entropyInput) > d.alg.maxEntropy {
		return InputError
	}
	if len(additionalInput) > d.alg.maxAdditional {
		return InputError
	}

	d.reseed(entropyInput, additionalInput)
	return d.state
}

// Generate fills data with random bytes, mixing in the optional
// additional input first. At most the descriptor's request limit can be
// obtained per call. Once the seed period expires, ReseedRequired is
// returned without emitting bytes until the instance is reseeded.
func (d *DRBG) Generate(additionalInput, data []byte) State {
	switch d.state {
	case Ready:
	case Failed:
		return d.state
	default:
		return InputError
	}
	if len(data) > d.alg.maxRequest {
		return InputError
	}
	if len(additionalInput) > d.alg.maxAdditional {
		return InputError
	}
	if d.reseedCounter > d.alg.maxReseeds {
		return ReseedRequired
	}

	d.generate(additionalInput, data)
	return d.state
}

// Uninstantiate zeroizes the internal state, releases the hash context
// and moves the instance to Terminated. It is valid in every lifecycle
// state and idempotent.
func (d *DRBG) Uninstantiate() State {
	wipe(d.v)
	wipe(d.c)
	wipe(d.t)
	wipe(d.ebuf)
	d.v = nil
	d.c = nil
	d.t = nil
	d.ebuf = nil
	d.reseedCounter = 0
	if d.ctx != nil {
		d.ctx.Free()
		d.ctx = nil
	}
	d.state = Terminated
	return d.state
}

func (d *DRBG) stateErr(s State) error {
	switch s {
	case ReseedRequired:
		return ErrReseedRequired
	case Failed:
		return errors.New(d.errorReason)
	default:
		return errors.New("invalid request")
	}
}

func (d *DRBG) reseedFromSource(additionalInput []byte) error {
	entropyInput := make([]byte, d.strength/8)
	defer wipe(entropyInput)
	if _, err := io.ReadFull(d.entropySource, entropyInput); err != nil {
		return xerrors.Errorf("cannot get entropy: %w", err)
	}
	if s := d.Reseed(entropyInput, additionalInput); s != Ready {
		return d.stateErr(s)
	}
	return nil
}

// Read will read len(data) random bytes in to data, splitting the
// request at the descriptor's per call limit.
//
// If the DRBG needs to be reseeded in order to generate all of the
// random bytes and it has been initialized with a source of entropy,
// the reseed operation will be performed automatically. If the DRBG
// hasn't been initialized with a source of entropy and it needs to be
// reseeded, ErrReseedRequired will be returned.
func (d *DRBG) Read(data []byte) (int, error) {
	total := 0

	for len(data) > 0 {
		b := data
		if d.alg != nil && len(b) > d.alg.maxRequest {
			b = b[:d.alg.maxRequest]
		}

		switch s := d.Generate(nil, b); s {
		case Ready:
			total += len(b)
			data = data[len(b):]
		case ReseedRequired:
			if d.entropySource == nil {
				return total, ErrReseedRequired
			}
			if err := d.reseedFromSource(nil); err != nil {
				return total, xerrors.Errorf("cannot reseed: %w", err)
			}
		default:
			return total, xerrors.Errorf("cannot generate random data: %w", d.stateErr(s))
		}
	}

	return total, nil
}

// New creates a hash DRBG using the supplied digest algorithm at the
// requested security strength, drawing the entropy input and nonce from
// entropySource (rand.Reader from the crypto/rand package if nil).
//
// The optional personalization argument is combined with the entropy
// input to derive the initial seed. This argument can be used to
// differentiate this instantiation from others.
func New(h crypto.Hash, strength int, personalization []byte, entropySource io.Reader) (*DRBG, error) {
	alg := Lookup(h)
	if alg == nil {
		return nil, errors.New("unsupported digest algorithm")
	}
	if !alg.Supports(strength) {
		return nil, errors.New("unsupported security strength")
	}

	src := entropySource
	if src == nil {
		src = rand.Reader
	}

	entropyInput := make([]byte, strength/8)
	defer wipe(entropyInput)
	if _, err := io.ReadFull(src, entropyInput); err != nil {
		return nil, xerrors.Errorf("cannot get entropy: %w", err)
	}

	nonce := make([]byte, strength/16)
	defer wipe(nonce)
	if _, err := io.ReadFull(src, nonce); err != nil {
		return nil, xerrors.Errorf("cannot get nonce: %w", err)
	}

	d := &DRBG{entropySource: src}
	if s := d.Instantiate(alg, strength, entropyInput, nonce, personalization); s != Ready {
		return nil, xerrors.Errorf("cannot instantiate: %w", d.stateErr(s))
	}

	return d, nil
}

// NewWithExternalEntropy creates a hash DRBG using the supplied digest
// algorithm at the requested security strength. The entropyInput and
// nonce arguments provide the initial entropy to seed the created DRBG.
//
// The optional entropySource argument provides the entropy source for
// future reseeding. If it is not supplied, then the DRBG can only be
// reseeded with externally supplied entropy.
func NewWithExternalEntropy(h crypto.Hash, strength int, entropyInput, nonce, personalization []byte, entropySource io.Reader) (*DRBG, error) {
	alg := Lookup(h)
	if alg == nil {
		return nil, errors.New("unsupported digest algorithm")
	}

	d := &DRBG{entropySource: entropySource}
	if s := d.Instantiate(alg, strength, entropyInput, nonce, personalization); s != Ready {
		return nil, xerrors.Errorf("cannot instantiate: %w", d.stateErr(s))
	}

	return d, nil
}
