package drbg_test

import (
	"crypto"
	_ "crypto/sha1"
	_ "crypto/sha256"
	_ "crypto/sha512"
	"encoding/hex"
	"io"
	"testing"

	. "github.com/canonical/go-sp800.90a-hashdrbg"

	. "gopkg.in/check.v1"
)

func Test(t *testing.T) { TestingT(t) }

func decodeHexString(c *C, s string) []byte {
	x, err := hex.DecodeString(s)
	c.Assert(err, IsNil)
	return x
}

type drbgSuite struct{}

var _ = Suite(&drbgSuite{})

type entropySource struct {
	data []byte
}

func (s *entropySource) Read(data []byte) (int, error) {
	if len(s.data) == 0 {
		return 0, io.EOF
	}

	n := copy(data, s.data)
	s.data = s.data[n:]
	return n, nil
}

func makeEntropySource(data ...[]byte) (out *entropySource) {
	out = &entropySource{}
	for _, d := range data {
		out.data = append(out.data, d...)
	}
	return
}

type testData struct {
	entropyInput       []byte
	nonce              []byte
	personalization    []byte
	entropyInputReseed []byte
	additionalInput    []byte
	expected           []byte
}

func (s *drbgSuite) testHash(c *C, h crypto.Hash, strength int, data *testData) {
	d := new(DRBG)
	c.Assert(d.Instantiate(Lookup(h), strength, data.entropyInput, data.nonce, data.personalization), Equals, Ready)

	if data.entropyInputReseed != nil {
		c.Assert(d.Reseed(data.entropyInputReseed, nil), Equals, Ready)
	}

	r := make([]byte, len(data.expected))
	c.Check(d.Generate(data.additionalInput, r), Equals, Ready)
	c.Check(r, DeepEquals, data.expected)

	c.Check(d.Uninstantiate(), Equals, Terminated)
}

func (s *drbgSuite) TestSHA256At112(c *C) {
	s.testHash(c, crypto.SHA256, 112, &testData{
		entropyInput:       decodeHexString(c, "d956caa24039e76f58616e0969afa2d7b7087401ee2d8777"),
		nonce:              decodeHexString(c, "32a2ef15983e3c1f66e6032a"),
		entropyInputReseed: decodeHexString(c, "7ba5a522580b41e1a4f540f9fe3daaf95df772740a199651"),
		expected:           decodeHexString(c, "8772e9ef034ca519e92379801408b1b8d222ea9f27871c9d9897c0e355df9200"),
	})
}

func (s *drbgSuite) TestSHA512At128(c *C) {
	s.testHash(c, crypto.SHA512, 128, &testData{
		entropyInput: decodeHexString(c, "7ad08c07e26ff3ffd5001b9482ad715db3c5ff112442edb2259a3afd72c9b510"),
		nonce:        decodeHexString(c, "04b190551069f04ee6632b76da26a3d0"),
		entropyInputReseed: decodeHexString(c,
			"3be4bfaa70a92f0aab37c2e6ab89f625c9bce6cd549bc932296cad6095fc73c5"),
		expected: decodeHexString(c,
			"06c0aa2f10138f7964c4842355addf7ed29a8ecc6b520ae61a7637cd0769e22e"+
				"3c9ba0c4e24bd5bd66063405e59db7c1870369d1ecb27d088c00f76b1c8b2a1d"),
	})
}

func (s *drbgSuite) TestSHA512At256WithPersonalization(c *C) {
	s.testHash(c, crypto.SHA512, 256, &testData{
		entropyInput:    decodeHexString(c, "ee41942a7ffffec73cf65a2fadb572ad88b8178d2e9bbbe36a7f4f9967bb59bd"),
		nonce:           decodeHexString(c, "93d0caac1f57e79f3a95b3d089e28d84"),
		personalization: decodeHexString(c, "461a6307a195715a45890a449152ca8a29888e887f819fcc9e081ef0385db0b6"),
		expected: decodeHexString(c,
			"e7ffc20b3384eebd83ba0390e83862f77bccb455a678ad9ca27cd3ebe5752789"+
				"0315aa2f4a1c52d5ebfb7fe2634edce3fcd733d288e476045b9ac84b6415f08d"),
	})
}

func (s *drbgSuite) TestSHA1At112WithPersonalization(c *C) {
	s.testHash(c, crypto.SHA1, 112, &testData{
		entropyInput:    decodeHexString(c, "dc106ace9ff57c68131ea2ee75c6585a"),
		nonce:           decodeHexString(c, "6a360c6f7bd4601e"),
		personalization: decodeHexString(c, "6bd1589156952524ba1f9b140659baf2"),
		expected: decodeHexString(c,
			"3654d194a757d6293ccd301439a2f63e81cbbb031f6b47870ff0c41cf12af63f"+
				"1c8e4d25f44b909f276dd092373a20db2ad6680652ce9a87ba6e56eab201cbec"),
	})
}

func (s *drbgSuite) TestSHA384At112(c *C) {
	s.testHash(c, crypto.SHA384, 112, &testData{
		entropyInput:       decodeHexString(c, "d956caa24039e76f58616e0969afa2d7b7087401ee2d8777"),
		nonce:              decodeHexString(c, "32a2ef15983e3c1f66e6032a00010203"),
		entropyInputReseed: decodeHexString(c, "7ba5a522580b41e1a4f540f9fe3daaf95df772740a199651"),
		expected: decodeHexString(c,
			"e4b6ba788677246299e9f50f3d4ac082d9fe9828640af7652e9b4c0445a40655"+
				"35dffff63b34c9af29d150e9765bc1b8"),
	})
}

func (s *drbgSuite) TestSHA224At256(c *C) {
	s.testHash(c, crypto.SHA224, 256, &testData{
		entropyInput: decodeHexString(c,
			"5021b721ef6aa7abaaba5543d531de46a1a1202338e4f84b1a5ebf5cb9cf068b"+
				"2832534feee8bf4a9829a263c0401f1559a95240ce28a87e274b157503a8090f"),
		nonce: decodeHexString(c, "fc6eeae21b3f8d8fe38226fe65c35708"),
		entropyInputReseed: decodeHexString(c,
			"6ae65ac1e374038e40351cd35d2fddf7d42ae8e9638c571ba07304c0df131943"+
				"2832534feee8bf4a9829a263c0401f1559a95240ce28a87e274b157503a8090f"),
		expected: decodeHexString(c, "782aa930f5eb6dd5454838d7f0454f3be0ccb8828cab0e9ecfe11dc0"),
	})
}

func (s *drbgSuite) TestSelfTestAllAlgorithms(c *C) {
	for _, name := range []string{"SHA1", "SHA224", "SHA256", "SHA384", "SHA512"} {
		alg := LookupByName(name)
		c.Assert(alg, NotNil)
		c.Check(alg.SelfTest(), Equals, true, Commentf("algorithm %s", name))
	}
}

func (s *drbgSuite) TestApproved(c *C) {
	c.Check(LookupByName("SHA1").Approved(), Equals, false)
	c.Check(LookupByName("SHA256").Approved(), Equals, true)
	c.Check(ApprovedAlgorithms(), HasLen, 4)
}

func (s *drbgSuite) TestLookup(c *C) {
	c.Check(Lookup(crypto.SHA256), NotNil)
	c.Check(Lookup(crypto.MD5), IsNil)
	c.Check(LookupByName("SHA256"), NotNil)
	c.Check(LookupByName("MD5"), IsNil)
}

func (s *drbgSuite) instantiate(c *C, h crypto.Hash, strength int) *DRBG {
	d := new(DRBG)
	entropyInput := make([]byte, strength/8)
	nonce := make([]byte, strength/16)
	c.Assert(d.Instantiate(Lookup(h), strength, entropyInput, nonce, nil), Equals, Ready)
	return d
}

func (s *drbgSuite) TestGenerateIsDeterministic(c *C) {
	d1 := s.instantiate(c, crypto.SHA256, 128)
	d2 := s.instantiate(c, crypto.SHA256, 128)

	r1 := make([]byte, 48)
	r2 := make([]byte, 48)
	c.Check(d1.Generate([]byte{0xaa}, r1), Equals, Ready)
	c.Check(d2.Generate([]byte{0xaa}, r2), Equals, Ready)
	c.Check(r1, DeepEquals, r2)
}

func (s *drbgSuite) TestReseedWithoutEntropyIsDeterministic(c *C) {
	// Reseeding with no entropy or additional input derives the new
	// seed from the current state alone, which makes it a useful
	// regression anchor.
	d1 := s.instantiate(c, crypto.SHA256, 128)
	d2 := s.instantiate(c, crypto.SHA256, 128)

	c.Check(d1.Reseed(nil, nil), Equals, Ready)
	c.Check(d2.Reseed(nil, nil), Equals, Ready)

	r1 := make([]byte, 32)
	r2 := make([]byte, 32)
	c.Check(d1.Generate(nil, r1), Equals, Ready)
	c.Check(d2.Generate(nil, r2), Equals, Ready)
	c.Check(r1, DeepEquals, r2)
}

func (s *drbgSuite) TestGenerateRequestLimit(c *C) {
	d1 := s.instantiate(c, crypto.SHA256, 128)
	d2 := s.instantiate(c, crypto.SHA256, 128)

	c.Check(d1.Generate(nil, make([]byte, 2049)), Equals, InputError)
	c.Check(d1.State(), Equals, Ready)

	// The rejected request must not have advanced the state.
	r1 := make([]byte, 2048)
	r2 := make([]byte, 2048)
	c.Check(d1.Generate(nil, r1), Equals, Ready)
	c.Check(d2.Generate(nil, r2), Equals, Ready)
	c.Check(r1, DeepEquals, r2)
}

func (s *drbgSuite) TestWrongLifecycleState(c *C) {
	d := new(DRBG)
	c.Check(d.Reseed(nil, nil), Equals, InputError)
	c.Check(d.Generate(nil, make([]byte, 16)), Equals, InputError)
	c.Check(d.State(), Equals, Uninitialized)

	d = s.instantiate(c, crypto.SHA256, 128)
	c.Check(d.Instantiate(Lookup(crypto.SHA256), 128, make([]byte, 16), nil, nil), Equals, InputError)
	c.Check(d.State(), Equals, Ready)
}

func (s *drbgSuite) TestUnsupportedStrength(c *C) {
	d := new(DRBG)
	c.Check(d.Instantiate(Lookup(crypto.SHA1), 192, make([]byte, 24), nil, nil), Equals, InputError)
	c.Check(d.State(), Equals, Uninitialized)
}

func (s *drbgSuite) TestEntropyTooSmall(c *C) {
	d := new(DRBG)
	c.Check(d.Instantiate(Lookup(crypto.SHA256), 256, make([]byte, 31), nil, nil), Equals, InputError)
	c.Check(d.State(), Equals, Uninitialized)
}

func (s *drbgSuite) TestUninstantiateIsIdempotent(c *C) {
	d := s.instantiate(c, crypto.SHA256, 128)
	c.Check(d.Uninstantiate(), Equals, Terminated)
	c.Check(d.Uninstantiate(), Equals, Terminated)
	c.Check(d.Generate(nil, make([]byte, 16)), Equals, InputError)
}

func (s *drbgSuite) TestRequireApproved(c *C) {
	d := &DRBG{RequireApproved: true}
	c.Check(d.Instantiate(Lookup(crypto.SHA1), 112, make([]byte, 16), nil, nil), Equals, InputError)
	c.Check(d.State(), Equals, Uninitialized)

	c.Check(d.Instantiate(Lookup(crypto.SHA256), 128, make([]byte, 16), nil, nil), Equals, Ready)
}

func (s *drbgSuite) TestReadSplitsRequests(c *C) {
	d1 := s.instantiate(c, crypto.SHA256, 128)
	d2 := s.instantiate(c, crypto.SHA256, 128)

	r1 := make([]byte, 4096)
	n, err := d1.Read(r1)
	c.Check(err, IsNil)
	c.Check(n, Equals, len(r1))

	r2 := make([]byte, 4096)
	c.Check(d2.Generate(nil, r2[:2048]), Equals, Ready)
	c.Check(d2.Generate(nil, r2[2048:]), Equals, Ready)

	c.Check(r1, DeepEquals, r2)
}

func (s *drbgSuite) TestNewWithEntropySource(c *C) {
	entropyInput := decodeHexString(c, "5021b721ef6aa7abaaba5543d531de46")
	nonce := decodeHexString(c, "fc6eeae21b3f8d8f")

	d1, err := New(crypto.SHA256, 128, nil, makeEntropySource(entropyInput, nonce))
	c.Assert(err, IsNil)

	d2, err := NewWithExternalEntropy(crypto.SHA256, 128, entropyInput, nonce, nil, nil)
	c.Assert(err, IsNil)

	r1 := make([]byte, 32)
	r2 := make([]byte, 32)
	_, err = d1.Read(r1)
	c.Check(err, IsNil)
	_, err = d2.Read(r2)
	c.Check(err, IsNil)
	c.Check(r1, DeepEquals, r2)
}

func (s *drbgSuite) TestNewRejectsUnsupported(c *C) {
	_, err := New(crypto.MD5, 128, nil, nil)
	c.Check(err, ErrorMatches, "unsupported digest algorithm")

	_, err = New(crypto.SHA1, 256, nil, nil)
	c.Check(err, ErrorMatches, "unsupported security strength")
}
