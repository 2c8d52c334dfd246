package validator

import (
	"reflect"
	"sync"

	"github.com/NethermindEth/kakarot-relayer/core/felt"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
)

var (
	once sync.Once
	v    *validator.Validate
)

// Validator returns a singleton that can be used to validate various objects
func Validator() *validator.Validate {
	once.Do(func() {
		v = validator.New()

		// Register these types to use their string representation for validation
		// purposes
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			switch f := field.Interface().(type) {
			case felt.Felt:
				if f.IsZero() {
					return ""
				}
				return f.String()
			case *felt.Felt:
				if f == nil || f.IsZero() {
					return ""
				}
				return f.String()
			}
			panic("not a felt")
		}, felt.Felt{}, &felt.Felt{})
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if h, ok := field.Interface().(common.Hash); ok {
				if h == (common.Hash{}) {
					return ""
				}
				return h.Hex()
			}
			panic("not a common.Hash")
		}, common.Hash{})
	})
	return v
}
