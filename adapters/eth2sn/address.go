package eth2sn

import (
	"fmt"

	"github.com/NethermindEth/kakarot-relayer/core"
	"github.com/NethermindEth/kakarot-relayer/core/felt"
	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru/v2"
)

// AddressToFelt embeds a 20 byte EVM address into a felt.
func AddressToFelt(addr common.Address) *felt.Felt {
	return new(felt.Felt).SetBytes(addr.Bytes())
}

// FeltToAddress is the inverse of AddressToFelt. It fails when f does not fit in 160 bits.
func FeltToAddress(f *felt.Felt) (common.Address, error) {
	b := f.Bytes()
	for _, x := range b[:32-common.AddressLength] {
		if x != 0 {
			return common.Address{}, fmt.Errorf("%s does not fit in an EVM address", f)
		}
	}
	return common.BytesToAddress(b[:]), nil
}

// StarknetAddress is the address of the account contract Kakarot deploys for evm.
// The deployer is Kakarot itself and the EVM address doubles as the salt.
func StarknetAddress(kakarot, accountClassHash *felt.Felt, evm common.Address) *felt.Felt {
	evmFelt := AddressToFelt(evm)
	return core.ContractAddress(kakarot, accountClassHash, evmFelt, []*felt.Felt{kakarot, evmFelt})
}

// AddressDeriver memoises StarknetAddress for a fixed Kakarot deployment.
type AddressDeriver struct {
	kakarot          *felt.Felt
	accountClassHash *felt.Felt
	cache            *lru.Cache[common.Address, felt.Felt]
}

func NewAddressDeriver(kakarot, accountClassHash *felt.Felt, cacheSize int) (*AddressDeriver, error) {
	cache, err := lru.New[common.Address, felt.Felt](cacheSize)
	if err != nil {
		return nil, err
	}
	return &AddressDeriver{
		kakarot:          kakarot,
		accountClassHash: accountClassHash,
		cache:            cache,
	}, nil
}

func (d *AddressDeriver) Kakarot() *felt.Felt {
	return d.kakarot
}

func (d *AddressDeriver) StarknetAddress(evm common.Address) *felt.Felt {
	if addr, ok := d.cache.Get(evm); ok {
		return &addr
	}

	addr := StarknetAddress(d.kakarot, d.accountClassHash, evm)
	d.cache.Add(evm, *addr)
	return addr
}
