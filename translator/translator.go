package translator

import (
	"errors"
	"fmt"
	"math"

	"github.com/NethermindEth/kakarot-relayer/adapters/eth2sn"
	"github.com/NethermindEth/kakarot-relayer/core/crypto"
	"github.com/NethermindEth/kakarot-relayer/core/felt"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var (
	ExecuteSelector            = crypto.Selector("__execute__")
	ExecuteFromOutsideSelector = crypto.Selector("execute_from_outside")
	EthSendTransactionSelector = crypto.Selector("eth_send_transaction")
)

// DefaultMaxFeltsInCalldata mirrors the sequencer limit on invoke calldata.
const DefaultMaxFeltsInCalldata = 22500

// Call is a single Starknet contract invocation.
type Call struct {
	To       *felt.Felt
	Selector *felt.Felt
	Calldata []*felt.Felt
}

type Translator struct {
	deriver            *eth2sn.AddressDeriver
	maxFeltsInCalldata uint64
}

func New(deriver *eth2sn.AddressDeriver, maxFeltsInCalldata uint64) *Translator {
	return &Translator{
		deriver:            deriver,
		maxFeltsInCalldata: maxFeltsInCalldata,
	}
}

func (t *Translator) Kakarot() *felt.Felt {
	return t.deriver.Kakarot()
}

func (t *Translator) StarknetAddress(evm common.Address) *felt.Felt {
	return t.deriver.StarknetAddress(evm)
}

// Translate turns a signed EVM transaction into an execute_from_outside call on the sender's
// Kakarot account, submitted with relayer as the outside caller.
func (t *Translator) Translate(tx *types.Transaction, sender common.Address, relayer *felt.Felt) (*Call, error) {
	payload, err := UnsignedPayload(tx)
	if err != nil {
		return nil, err
	}

	signature, err := eth2sn.SignatureToFelts(tx)
	if err != nil {
		if errors.Is(err, eth2sn.ErrUnsupportedTxType) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrSignature, err)
	}

	packed := PackBytes(payload)
	dataLen := felt.NewFromUint64(uint64(len(packed)))

	// OutsideExecution{caller, nonce, execute_after, execute_before, calls: [kakarot.eth_send_transaction]}
	calldata := make([]*felt.Felt, 0, 11+len(packed)+len(signature))
	calldata = append(calldata,
		relayer,
		new(felt.Felt),
		new(felt.Felt),
		felt.NewFromUint64(math.MaxUint32),
		felt.NewFromUint64(1),
		t.deriver.Kakarot(),
		EthSendTransactionSelector,
		new(felt.Felt),
		dataLen,
		dataLen,
	)
	calldata = append(calldata, packed...)
	calldata = append(calldata, felt.NewFromUint64(uint64(len(signature))))
	calldata = append(calldata, signature...)

	if t.maxFeltsInCalldata > 0 && uint64(len(calldata)) > t.maxFeltsInCalldata {
		return nil, &CalldataBudgetError{Len: uint64(len(calldata)), Max: t.maxFeltsInCalldata}
	}

	return &Call{
		To:       t.deriver.StarknetAddress(sender),
		Selector: ExecuteFromOutsideSelector,
		Calldata: calldata,
	}, nil
}

// CheckBudget reports whether tx would fit once translated, independently of the relayer.
func (t *Translator) CheckBudget(tx *types.Transaction, sender common.Address) error {
	_, err := t.Translate(tx, sender, new(felt.Felt))
	return err
}

// ExecuteCalldata flattens calls into the calldata of an account's __execute__ entry point.
func ExecuteCalldata(calls ...*Call) []*felt.Felt {
	size := 1
	for _, call := range calls {
		size += 3 + len(call.Calldata)
	}

	calldata := make([]*felt.Felt, 0, size)
	calldata = append(calldata, felt.NewFromUint64(uint64(len(calls))))
	for _, call := range calls {
		calldata = append(calldata, call.To, call.Selector, felt.NewFromUint64(uint64(len(call.Calldata))))
		calldata = append(calldata, call.Calldata...)
	}
	return calldata
}
