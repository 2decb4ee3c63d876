package drbg

import (
	"bytes"
	"math/big"
	"math/rand"
	"testing"
)

func TestAddWrapsAroundModulus(t *testing.T) {
	a := []byte{0xff, 0xff, 0xff, 0xff}
	add(a, a, []byte{0x01})
	if !bytes.Equal(a, []byte{0x00, 0x00, 0x00, 0x00}) {
		t.Errorf("unexpected sum %x", a)
	}
}

func TestAddRightAlignsAddend(t *testing.T) {
	a := []byte{0x00, 0x00, 0x01, 0xff}
	add(a, a, []byte{0x02, 0x01})
	if !bytes.Equal(a, []byte{0x00, 0x00, 0x04, 0x00}) {
		t.Errorf("unexpected sum %x", a)
	}
}

func TestAddCarryPropagation(t *testing.T) {
	a := []byte{0x00, 0xff, 0xff, 0xff}
	add(a, a, []byte{0x01})
	if !bytes.Equal(a, []byte{0x01, 0x00, 0x00, 0x00}) {
		t.Errorf("unexpected sum %x", a)
	}
}

func TestAddMatchesBigInt(t *testing.T) {
	rnd := rand.New(rand.NewSource(99))

	for i := 0; i < 2000; i++ {
		w := 1 + rnd.Intn(111)
		a := make([]byte, w)
		b := make([]byte, 1+rnd.Intn(w))
		rnd.Read(a)
		rnd.Read(b)

		dst := make([]byte, w)
		add(dst, a, b)

		x := new(big.Int).SetBytes(a)
		x.Add(x, new(big.Int).SetBytes(b))
		x.Mod(x, new(big.Int).Lsh(big.NewInt(1), uint(8*w)))

		expected := make([]byte, w)
		xb := x.Bytes()
		copy(expected[w-len(xb):], xb)

		if !bytes.Equal(dst, expected) {
			t.Fatalf("width %d: got %x, expected %x (a=%x b=%x)", w, dst, expected, a, b)
		}
	}
}

func TestWipe(t *testing.T) {
	b := []byte{0x01, 0x02, 0x03}
	wipe(b)
	if !bytes.Equal(b, make([]byte, 3)) {
		t.Errorf("buffer not cleared")
	}
}
