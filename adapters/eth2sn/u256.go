package eth2sn

import (
	"errors"
	"fmt"

	"github.com/NethermindEth/kakarot-relayer/core/felt"
	"github.com/holiman/uint256"
)

var ErrLimbOverflow = errors.New("u256 limb does not fit in 128 bits")

// SplitU256 splits v into its low and high 128 bit limbs, the way Cairo lays out a u256.
func SplitU256(v *uint256.Int) (low, high *felt.Felt) {
	lowInt := uint256.Int{v[0], v[1], 0, 0}
	highInt := uint256.Int{v[2], v[3], 0, 0}

	lowBytes, highBytes := lowInt.Bytes32(), highInt.Bytes32()
	return new(felt.Felt).SetBytes(lowBytes[:]), new(felt.Felt).SetBytes(highBytes[:])
}

// JoinU256 is the inverse of SplitU256.
func JoinU256(low, high *felt.Felt) (*uint256.Int, error) {
	lowInt, err := limb(low)
	if err != nil {
		return nil, fmt.Errorf("low: %w", err)
	}
	highInt, err := limb(high)
	if err != nil {
		return nil, fmt.Errorf("high: %w", err)
	}

	return &uint256.Int{lowInt[0], lowInt[1], highInt[0], highInt[1]}, nil
}

func limb(f *felt.Felt) (*uint256.Int, error) {
	b := f.Bytes()
	v := new(uint256.Int).SetBytes32(b[:])
	if v[2] != 0 || v[3] != 0 {
		return nil, ErrLimbOverflow
	}
	return v, nil
}
