package translator

import (
	"fmt"

	"github.com/NethermindEth/kakarot-relayer/core/felt"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
)

// bytesPerFelt is the widest chunk that always fits below the field modulus.
const bytesPerFelt = 31

// UnsignedPayload returns the signing preimage of tx, i.e. the bytes whose keccak the
// sender signed. The account contract re-hashes them to check the signature.
func UnsignedPayload(tx *types.Transaction) ([]byte, error) {
	switch tx.Type() {
	case types.LegacyTxType:
		if tx.Protected() {
			return rlp.EncodeToBytes([]any{
				tx.Nonce(), tx.GasPrice(), tx.Gas(), tx.To(), tx.Value(), tx.Data(),
				tx.ChainId(), uint(0), uint(0),
			})
		}
		return rlp.EncodeToBytes([]any{
			tx.Nonce(), tx.GasPrice(), tx.Gas(), tx.To(), tx.Value(), tx.Data(),
		})
	case types.AccessListTxType:
		return typedPayload(tx.Type(), []any{
			tx.ChainId(), tx.Nonce(), tx.GasPrice(), tx.Gas(), tx.To(), tx.Value(), tx.Data(),
			tx.AccessList(),
		})
	case types.DynamicFeeTxType:
		return typedPayload(tx.Type(), []any{
			tx.ChainId(), tx.Nonce(), tx.GasTipCap(), tx.GasFeeCap(), tx.Gas(), tx.To(), tx.Value(),
			tx.Data(), tx.AccessList(),
		})
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedTxType, tx.Type())
	}
}

func typedPayload(txType byte, fields []any) ([]byte, error) {
	enc, err := rlp.EncodeToBytes(fields)
	if err != nil {
		return nil, err
	}
	return append([]byte{txType}, enc...), nil
}

// PackBytes prefixes b with its length and packs it into big-endian 31 byte felts.
// The last felt holds whatever bytes remain.
func PackBytes(b []byte) []*felt.Felt {
	packed := make([]*felt.Felt, 0, 1+(len(b)+bytesPerFelt-1)/bytesPerFelt)
	packed = append(packed, felt.NewFromUint64(uint64(len(b))))
	for start := 0; start < len(b); start += bytesPerFelt {
		end := min(start+bytesPerFelt, len(b))
		packed = append(packed, new(felt.Felt).SetBytes(b[start:end]))
	}
	return packed
}

// UnpackBytes reverses PackBytes.
func UnpackBytes(packed []*felt.Felt) ([]byte, error) {
	if len(packed) == 0 || !packed[0].IsUint64() {
		return nil, fmt.Errorf("missing byte length prefix")
	}
	size := packed[0].Uint64()
	chunks := packed[1:]
	if uint64(len(chunks)) != (size+bytesPerFelt-1)/bytesPerFelt {
		return nil, fmt.Errorf("%d chunks cannot hold %d bytes", len(chunks), size)
	}

	out := make([]byte, 0, size)
	for i, chunk := range chunks {
		width := uint64(bytesPerFelt)
		if i == len(chunks)-1 {
			width = size - uint64(i)*bytesPerFelt
		}
		b := chunk.Bytes()
		if !allZero(b[:felt.Bytes-width]) {
			return nil, fmt.Errorf("chunk %d is wider than %d bytes", i, width)
		}
		out = append(out, b[felt.Bytes-width:]...)
	}
	return out, nil
}

func allZero(b []byte) bool {
	for _, x := range b {
		if x != 0 {
			return false
		}
	}
	return true
}
