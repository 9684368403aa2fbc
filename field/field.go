// Package field wraps the BN254 scalar field elements used as tree keys
// (paths) and values. It only adds the conversions the tree needs on top of
// gnark-crypto's fr.Element: big integers, strings and little-endian bits.
package field

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Capacity is the number of bits needed to represent any element of the
// field. It bounds the depth of a tree, since every path must fit into a
// single element.
const Capacity = fr.Bits

// Modulus returns a copy of the field modulus.
func Modulus() *big.Int {
	return fr.Modulus()
}

// Zero returns the canonical empty value.
func Zero() fr.Element {
	return fr.Element{}
}

// FromUint64 returns the element that represents v.
func FromUint64(v uint64) fr.Element {
	return fr.NewElement(v)
}

// FromBigInt returns the element that represents v reduced modulo the field
// modulus. A nil input is treated as zero.
func FromBigInt(v *big.Int) fr.Element {
	var e fr.Element
	if v == nil {
		return e
	}
	e.SetBigInt(v)
	return e
}

// FromString parses a decimal or 0x prefixed hexadecimal string into an
// element. Values bigger than the modulus are rejected instead of reduced,
// so a string always round trips.
func FromString(s string) (fr.Element, error) {
	s = strings.TrimSpace(s)
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s, base = s[2:], 16
	}
	v, ok := new(big.Int).SetString(s, base)
	if !ok {
		return fr.Element{}, fmt.Errorf("invalid field element %q", s)
	}
	if v.Sign() < 0 || v.Cmp(fr.Modulus()) >= 0 {
		return fr.Element{}, fmt.Errorf("value %s is out of the field range", v)
	}
	return FromBigInt(v), nil
}

// BigInt returns the regular (non Montgomery) integer value of e.
func BigInt(e fr.Element) *big.Int {
	return e.BigInt(new(big.Int))
}

// BitLen returns the number of bits needed to represent e, that is, the
// position of its highest set bit plus one. Zero has length 0.
func BitLen(e fr.Element) int {
	return BigInt(e).BitLen()
}

// Bit returns the little-endian bit of e at position i.
func Bit(e fr.Element, i int) bool {
	return BigInt(e).Bit(i) == 1
}

// BitsLE decomposes e into exactly n little-endian bits, truncating the high
// bits or padding with zeros as needed.
func BitsLE(e fr.Element, n int) []bool {
	v := BigInt(e)
	bits := make([]bool, n)
	for i := range bits {
		bits[i] = v.Bit(i) == 1
	}
	return bits
}

// FromBitsLE composes an element from little-endian bits (index 0 is the
// least significant bit). It fails if more than Capacity bits are provided.
func FromBitsLE(bits []bool) (fr.Element, error) {
	if len(bits) > Capacity {
		return fr.Element{}, fmt.Errorf("too many bits: %d, field capacity is %d", len(bits), Capacity)
	}
	v := new(big.Int)
	for i, b := range bits {
		if b {
			v.SetBit(v, i, 1)
		}
	}
	if v.Cmp(fr.Modulus()) >= 0 {
		return fr.Element{}, fmt.Errorf("bits compose %s, out of the field range", v)
	}
	return FromBigInt(v), nil
}

// Short returns the decimal representation of e, shortened to its first and
// last five digits when it is longer than ten digits (12345..67890).
func Short(e fr.Element) string {
	s := e.String()
	if len(s) > 10 {
		return s[:5] + ".." + s[len(s)-5:]
	}
	return s
}
