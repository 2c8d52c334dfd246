package eth2sn_test

import (
	"testing"

	"github.com/NethermindEth/kakarot-relayer/adapters/eth2sn"
	"github.com/NethermindEth/kakarot-relayer/core"
	"github.com/NethermindEth/kakarot-relayer/core/felt"
	"github.com/NethermindEth/kakarot-relayer/utils"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressFeltConversion(t *testing.T) {
	addr := common.HexToAddress("0x95222290DD7278Aa3Ddd389Cc1E1d165CC4BAfe5")

	f := eth2sn.AddressToFelt(addr)
	assert.Equal(t, utils.HexToFelt(t, "0x95222290dd7278aa3ddd389cc1e1d165cc4bafe5"), f)
	back, err := eth2sn.FeltToAddress(f)
	require.NoError(t, err)
	assert.Equal(t, addr, back)

	_, err = eth2sn.FeltToAddress(utils.HexToFelt(t, "0x1000000000000000000000000000000000000000000"))
	assert.Error(t, err)
}

func TestStarknetAddress(t *testing.T) {
	kakarot := utils.HexToFelt(t, "0x11c5faab8a76b3caff6e243b8d13059a7fb723a0ca12bbaadde95fb9e501bda")
	classHash := utils.HexToFelt(t, "0x600f6862938312a05a0cfecba0dcaf37693efc9e4075a6adfb62e196022678e")
	evm := common.HexToAddress("0xc0ffee254729296a45a3885639AC7E10F9d54979")
	evmFelt := eth2sn.AddressToFelt(evm)

	want := core.ContractAddress(kakarot, classHash, evmFelt, []*felt.Felt{kakarot, evmFelt})

	t.Run("matches contract address derivation", func(t *testing.T) {
		assert.Equal(t, want, eth2sn.StarknetAddress(kakarot, classHash, evm))
	})

	t.Run("pure", func(t *testing.T) {
		first := eth2sn.StarknetAddress(kakarot, classHash, evm)
		second := eth2sn.StarknetAddress(kakarot, classHash, evm)
		assert.Equal(t, first, second)
	})

	t.Run("depends on every input", func(t *testing.T) {
		other := common.HexToAddress("0xc0ffee254729296a45a3885639AC7E10F9d54978")
		assert.NotEqual(t, want, eth2sn.StarknetAddress(kakarot, classHash, other))
		assert.NotEqual(t, want, eth2sn.StarknetAddress(classHash, classHash, evm))
		assert.NotEqual(t, want, eth2sn.StarknetAddress(kakarot, kakarot, evm))
	})

	t.Run("deriver caches", func(t *testing.T) {
		deriver, err := eth2sn.NewAddressDeriver(kakarot, classHash, 2)
		require.NoError(t, err)

		assert.Equal(t, want, deriver.StarknetAddress(evm))
		got := deriver.StarknetAddress(evm)
		assert.Equal(t, want, got)

		// mutating a returned address must not poison the cache
		got.SetUint64(1)
		assert.Equal(t, want, deriver.StarknetAddress(evm))
	})
}
