package validator_test

import (
	"testing"

	"github.com/NethermindEth/kakarot-relayer/core/felt"
	"github.com/NethermindEth/kakarot-relayer/validator"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestValidator(t *testing.T) {
	type config struct {
		Kakarot  felt.Felt   `validate:"required"`
		Relayers []felt.Felt `validate:"min=1,dive,required"`
		Hash     common.Hash `validate:"required"`
	}

	valid := config{
		Kakarot:  *new(felt.Felt).SetUint64(1),
		Relayers: []felt.Felt{*new(felt.Felt).SetUint64(2)},
		Hash:     common.HexToHash("0x1"),
	}
	assert.NoError(t, validator.Validator().Struct(valid))

	tests := map[string]func(c *config){
		"zero kakarot address": func(c *config) { c.Kakarot = felt.Zero },
		"no relayers":          func(c *config) { c.Relayers = nil },
		"zero relayer":         func(c *config) { c.Relayers = []felt.Felt{felt.Zero} },
		"zero hash":            func(c *config) { c.Hash = common.Hash{} },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := valid
			mutate(&c)
			assert.Error(t, validator.Validator().Struct(c))
		})
	}
}
