package felt

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
)

type Felt struct {
	val fp.Element
}

func NewFelt(element *fp.Element) *Felt {
	return &Felt{
		val: *element,
	}
}

// NewFromUint64 returns a new felt holding v
func NewFromUint64(v uint64) *Felt {
	return new(Felt).SetUint64(v)
}

const (
	Limbs = fp.Limbs // number of 64 bits words needed to represent a Element
	Bits  = fp.Bits  // number of bits needed to represent a Element
	Bytes = fp.Bytes // number of bytes needed to represent a Element
)

const (
	Base16 = 16
	Base10 = 10
)

// zero felt constant
var Zero = Felt{}

// One felt constant
var One = Felt{val: fp.One()}

var bigIntPool = sync.Pool{
	New: func() interface{} {
		return new(big.Int)
	},
}

// Impl returns the underlying field element type
func (z *Felt) Impl() *fp.Element {
	return &z.val
}

// UnmarshalJSON accepts numbers and strings as input.
// See Element.SetString for valid prefixes (0x, 0b, ...).
// If there is an error, we try to explicitly unmarshal from hex before
// returning an error.
func (z *Felt) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) > fp.Bits*3 {
		return errors.New("value too large (max = Element.Bits * 3)")
	}

	// we accept numbers and strings, remove leading and trailing quotes if any
	if len(s) > 0 && s[0] == '"' {
		s = s[1:]
	}
	if len(s) > 0 && s[len(s)-1] == '"' {
		s = s[:len(s)-1]
	}

	return z.setText(s)
}

// MarshalJSON encodes the felt as a 0x prefixed hex string, which is what the Starknet JSON-RPC expects
func (z *Felt) MarshalJSON() ([]byte, error) {
	return []byte(`"` + z.String() + `"`), nil
}

// UnmarshalText lets felts be read from flags, environment variables and config files
func (z *Felt) UnmarshalText(text []byte) error {
	return z.setText(strings.TrimSpace(string(text)))
}

func (z *Felt) MarshalText() ([]byte, error) {
	return []byte(z.String()), nil
}

func (z *Felt) setText(s string) error {
	// get temporary big int from the pool
	vv := bigIntPool.Get().(*big.Int)
	defer bigIntPool.Put(vv)

	if _, ok := vv.SetString(s, 0); !ok {
		if _, ok := vv.SetString(s, 16); !ok {
			return errors.New("can't parse into a big.Int: " + s)
		}
	}
	if vv.Sign() < 0 || vv.Cmp(fp.Modulus()) >= 0 {
		return fmt.Errorf("%s is not a valid field element", s)
	}

	z.val.SetBigInt(vv)
	return nil
}

// MarshalCBOR stores the felt as its canonical big-endian bytes
func (z Felt) MarshalCBOR() ([]byte, error) {
	b := z.val.Bytes()
	return append([]byte{0x58, Bytes}, b[:]...), nil
}

func (z *Felt) UnmarshalCBOR(data []byte) error {
	if len(data) != Bytes+2 || data[0] != 0x58 || data[1] != Bytes {
		return errors.New("felt: malformed cbor byte string")
	}
	return z.SetBytesCanonical(data[2:])
}

// SetBytes forwards the call to underlying field element implementation
func (z *Felt) SetBytes(e []byte) *Felt {
	z.val.SetBytes(e)
	return z
}

// SetBytesCanonical forwards the call to underlying field element implementation
func (z *Felt) SetBytesCanonical(e []byte) error {
	return z.val.SetBytesCanonical(e)
}

// SetString forwards the call to underlying field element implementation
func (z *Felt) SetString(number string) (*Felt, error) {
	_, err := z.val.SetString(number)
	return z, err
}

// SetUint64 forwards the call to underlying field element implementation
func (z *Felt) SetUint64(v uint64) *Felt {
	z.val.SetUint64(v)
	return z
}

// SetBigInt forwards the call to underlying field element implementation
func (z *Felt) SetBigInt(v *big.Int) *Felt {
	z.val.SetBigInt(v)
	return z
}

// SetRandom forwards the call to underlying field element implementation
func (z *Felt) SetRandom() (*Felt, error) {
	_, err := z.val.SetRandom()
	return z, err
}

// BigInt forwards the call to underlying field element implementation
func (z *Felt) BigInt(res *big.Int) *big.Int {
	return z.val.BigInt(res)
}

// String returns the 0x prefixed hex representation of the felt
func (z *Felt) String() string {
	return "0x" + z.val.Text(Base16)
}

// ShortString prints the felt to a string in a shortened format
func (z *Felt) ShortString() string {
	hex := z.val.Text(Base16)
	if len(hex) <= 8 {
		return "0x" + hex
	}
	return "0x" + hex[:4] + "..." + hex[len(hex)-4:]
}

// Text forwards the call to underlying field element implementation
func (z *Felt) Text(base int) string {
	return z.val.Text(base)
}

// Set forwards the call to underlying field element implementation
func (z *Felt) Set(x *Felt) *Felt {
	z.val.Set(&x.val)
	return z
}

// Equal forwards the call to underlying field element implementation
func (z *Felt) Equal(x *Felt) bool {
	return z.val.Equal(&x.val)
}

// Marshal forwards the call to underlying field element implementation
func (z *Felt) Marshal() []byte {
	return z.val.Marshal()
}

// Bytes forwards the call to underlying field element implementation
func (z *Felt) Bytes() [32]byte {
	return z.val.Bytes()
}

// IsOne forwards the call to underlying field element implementation
func (z *Felt) IsOne() bool {
	return z.val.IsOne()
}

// IsZero forwards the call to underlying field element implementation
func (z *Felt) IsZero() bool {
	return z.val.IsZero()
}

// IsUint64 forwards the call to underlying field element implementation
func (z *Felt) IsUint64() bool {
	return z.val.IsUint64()
}

// Uint64 returns the low 64 bits of the felt, callers should check IsUint64 first
func (z *Felt) Uint64() uint64 {
	return z.val.Uint64()
}

// Add forwards the call to underlying field element implementation
func (z *Felt) Add(x, y *Felt) *Felt {
	z.val.Add(&x.val, &y.val)
	return z
}

// Sub forwards the call to underlying field element implementation
func (z *Felt) Sub(x, y *Felt) *Felt {
	z.val.Sub(&x.val, &y.val)
	return z
}

// Cmp forwards the call to underlying field element implementation
func (z *Felt) Cmp(x *Felt) int {
	return z.val.Cmp(&x.val)
}
