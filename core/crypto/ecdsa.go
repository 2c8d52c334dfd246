package crypto

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/NethermindEth/kakarot-relayer/core/felt"
	"github.com/consensys/gnark-crypto/ecc/stark-curve/ecdsa"
	"github.com/consensys/gnark-crypto/ecc/stark-curve/fr"
)

var (
	ErrInvalidPublicKey  = errors.New("not a valid public key")
	ErrInvalidPrivateKey = errors.New("not a valid private key")
	ErrMessageTooLarge   = errors.New("message hash does not fit in 251 bits")
)

const (
	// leading bits of a compressed point encoding selecting one of the two y
	compressedSmallest byte = 0b10 << 6
	compressedLargest  byte = 0b11 << 6

	maxSignAttempts = 8
)

// r, s and the message hash must all be below 2^251
var ecdsaBound = new(big.Int).Lsh(big.NewInt(1), 251)

type Signature struct {
	R, S felt.Felt
}

func (s *Signature) bytes() []byte {
	r, sBytes := s.R.Bytes(), s.S.Bytes()
	return append(r[:], sBytes[:]...)
}

// PublicKey is the x coordinate of a stark curve point
type PublicKey struct {
	x felt.Felt
}

func NewPublicKey(x *felt.Felt) PublicKey {
	return PublicKey{x: *x}
}

func (k *PublicKey) X() *felt.Felt {
	x := k.x
	return &x
}

// Verify checks sig against msg. Since only the x coordinate of the key is known, both
// candidate points are tried.
func (k *PublicKey) Verify(sig *Signature, msg *felt.Felt) (bool, error) {
	xBytes := k.x.Bytes()
	candidates := make([]ecdsa.PublicKey, 0, 2)
	for _, flag := range []byte{compressedSmallest, compressedLargest} {
		buf := xBytes
		buf[0] |= flag

		var pub ecdsa.PublicKey
		if _, err := pub.A.SetBytes(buf[:]); err != nil {
			return false, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
		}
		candidates = append(candidates, pub)
	}

	if !inECDSARange(&sig.R) || !inECDSARange(&sig.S) || !belowBound(msg) {
		return false, nil
	}

	sigBytes := sig.bytes()
	msgBytes := msg.Bytes()
	for i := range candidates {
		valid, err := candidates[i].Verify(sigBytes, msgBytes[:], nil)
		if err != nil {
			return false, err
		}
		if valid {
			return true, nil
		}
	}
	return false, nil
}

type PrivateKey struct {
	key *ecdsa.PrivateKey
	pub PublicKey
}

func NewPrivateKey(d *felt.Felt) (*PrivateKey, error) {
	scalar := d.BigInt(new(big.Int))
	if scalar.Sign() == 0 || scalar.Cmp(fr.Modulus()) >= 0 {
		return nil, ErrInvalidPrivateKey
	}

	// gnark-crypto only builds private keys from their public point followed by the scalar
	key := new(ecdsa.PrivateKey)
	key.PublicKey.A.ScalarMultiplicationBase(scalar)
	pubBytes := key.PublicKey.Bytes()
	scalarBytes := d.Bytes()
	if _, err := key.SetBytes(append(pubBytes, scalarBytes[:]...)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}

	return &PrivateKey{
		key: key,
		pub: PublicKey{x: *felt.NewFelt(&key.PublicKey.A.X)},
	}, nil
}

func (k *PrivateKey) PublicKey() PublicKey {
	return k.pub
}

// Sign produces a stark curve ECDSA signature over msg. Signatures whose components do
// not fit in 251 bits are rejected by Starknet and are drawn again.
func (k *PrivateKey) Sign(msg *felt.Felt) (*Signature, error) {
	if !belowBound(msg) {
		return nil, ErrMessageTooLarge
	}

	msgBytes := msg.Bytes()
	for range maxSignAttempts {
		sigBytes, err := k.key.Sign(msgBytes[:], nil)
		if err != nil {
			return nil, err
		}

		sig := new(Signature)
		sig.R.SetBytes(sigBytes[:felt.Bytes])
		sig.S.SetBytes(sigBytes[felt.Bytes:])
		if inECDSARange(&sig.R) && inECDSARange(&sig.S) {
			return sig, nil
		}
	}
	return nil, errors.New("no signature in the stark ECDSA range")
}

func inECDSARange(v *felt.Felt) bool {
	return !v.IsZero() && belowBound(v)
}

func belowBound(v *felt.Felt) bool {
	return v.BigInt(new(big.Int)).Cmp(ecdsaBound) < 0
}
