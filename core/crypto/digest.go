package crypto

import "github.com/NethermindEth/kakarot-relayer/core/felt"

type Digest interface {
	Update(...*felt.Felt) Digest
	Finish() *felt.Felt
}
