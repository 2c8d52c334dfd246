package eth2sn

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/NethermindEth/kakarot-relayer/core/felt"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
)

// SignatureLen is the number of felts in an encoded EVM signature.
const SignatureLen = 5

var (
	ErrInvalidSignature   = errors.New("invalid signature values")
	ErrUnsupportedTxType  = errors.New("unsupported transaction type")
	errSignatureLenFormat = "expected %d signature felts, got %d"
)

var (
	big27 = big.NewInt(27)
	big35 = big.NewInt(35)
)

// SignatureToFelts lays out the signature of tx as [r.low, r.high, s.low, s.high, v].
// v is 35 + 2*chainId + parity for replay protected legacy transactions, 27 + parity for
// unprotected ones, and the bare parity for typed transactions.
func SignatureToFelts(tx *types.Transaction) ([]*felt.Felt, error) {
	rawV, rawR, rawS := tx.RawSignatureValues()
	if rawV == nil || rawR == nil || rawS == nil || rawR.Sign() == 0 || rawS.Sign() == 0 {
		return nil, ErrInvalidSignature
	}

	r, overflow := uint256.FromBig(rawR)
	if overflow {
		return nil, fmt.Errorf("%w: r overflows 256 bits", ErrInvalidSignature)
	}
	s, overflow := uint256.FromBig(rawS)
	if overflow {
		return nil, fmt.Errorf("%w: s overflows 256 bits", ErrInvalidSignature)
	}

	parity, err := YParity(tx)
	if err != nil {
		return nil, err
	}
	v, err := encodeV(tx, parity)
	if err != nil {
		return nil, err
	}

	rLow, rHigh := SplitU256(r)
	sLow, sHigh := SplitU256(s)
	return []*felt.Felt{rLow, rHigh, sLow, sHigh, new(felt.Felt).SetBigInt(v)}, nil
}

// FeltsToSignature decodes the output of SignatureToFelts for a transaction of the given
// type and chain id. chainID is ignored for typed transactions and for unprotected legacy
// ones; an EIP-155 v without a chain id is an error.
func FeltsToSignature(felts []*felt.Felt, txType uint8, chainID *big.Int) (r, s *uint256.Int, parity uint64, err error) {
	if len(felts) != SignatureLen {
		return nil, nil, 0, fmt.Errorf(errSignatureLenFormat, SignatureLen, len(felts))
	}
	if r, err = JoinU256(felts[0], felts[1]); err != nil {
		return nil, nil, 0, err
	}
	if s, err = JoinU256(felts[2], felts[3]); err != nil {
		return nil, nil, 0, err
	}

	v := felts[4].BigInt(new(big.Int))
	switch txType {
	case types.LegacyTxType:
		if v.Cmp(big35) >= 0 {
			if chainID == nil {
				return nil, nil, 0, fmt.Errorf("%w: v=%s needs a chain id", ErrInvalidSignature, felts[4])
			}
			v.Sub(v, big35)
			v.Sub(v, new(big.Int).Lsh(chainID, 1))
		} else {
			v.Sub(v, big27)
		}
	case types.AccessListTxType, types.DynamicFeeTxType:
	default:
		return nil, nil, 0, fmt.Errorf("%w: %d", ErrUnsupportedTxType, txType)
	}

	if !v.IsUint64() || v.Uint64() > 1 {
		return nil, nil, 0, fmt.Errorf("%w: v=%s", ErrInvalidSignature, felts[4])
	}
	return r, s, v.Uint64(), nil
}

// YParity recovers the y parity bit from the raw v value of tx.
func YParity(tx *types.Transaction) (uint64, error) {
	rawV, _, _ := tx.RawSignatureValues()
	v := new(big.Int).Set(rawV)

	switch tx.Type() {
	case types.LegacyTxType:
		if tx.Protected() {
			v.Sub(v, big35)
			v.Sub(v, new(big.Int).Lsh(tx.ChainId(), 1))
		} else {
			v.Sub(v, big27)
		}
	case types.AccessListTxType, types.DynamicFeeTxType:
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedTxType, tx.Type())
	}

	if !v.IsUint64() || v.Uint64() > 1 {
		return 0, fmt.Errorf("%w: v=%s", ErrInvalidSignature, rawV)
	}
	return v.Uint64(), nil
}

func encodeV(tx *types.Transaction, parity uint64) (*big.Int, error) {
	v := new(big.Int).SetUint64(parity)
	switch tx.Type() {
	case types.LegacyTxType:
		if tx.Protected() {
			v.Add(v, big35)
			v.Add(v, new(big.Int).Lsh(tx.ChainId(), 1))
		} else {
			v.Add(v, big27)
		}
	case types.AccessListTxType, types.DynamicFeeTxType:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedTxType, tx.Type())
	}
	return v, nil
}
