package relayer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/NethermindEth/kakarot-relayer/clients/starknet"
	"github.com/NethermindEth/kakarot-relayer/core"
	"github.com/NethermindEth/kakarot-relayer/core/crypto"
	"github.com/NethermindEth/kakarot-relayer/core/felt"
	"github.com/NethermindEth/kakarot-relayer/mempool"
	"github.com/NethermindEth/kakarot-relayer/translator"
	"github.com/NethermindEth/kakarot-relayer/utils"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// maxFeeCap is the largest fee a Starknet v1 transaction can declare.
var maxFeeCap = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 128), uint256.NewInt(1))

// Account is a funded Starknet account that submits transactions on behalf of EVM users.
type Account struct {
	Address *felt.Felt

	mu    sync.Mutex
	nonce *felt.Felt

	balance atomic.Pointer[uint256.Int]
	stale   atomic.Bool
}

func newAccount(address, nonce *felt.Felt, balance *uint256.Int) *Account {
	a := &Account{Address: address, nonce: nonce}
	a.balance.Store(balance)
	return a
}

// Nonce returns the next nonce the account will use. It blocks while the account is
// relaying.
func (a *Account) Nonce() *felt.Felt {
	a.mu.Lock()
	defer a.mu.Unlock()
	return new(felt.Felt).Set(a.nonce)
}

func (a *Account) Balance() *uint256.Int {
	return new(uint256.Int).Set(a.balance.Load())
}

// Stale reports whether the account nonce must be resynchronised with the chain.
func (a *Account) Stale() bool {
	return a.stale.Load()
}

// Attempt is a successful broadcast of a pending transaction.
type Attempt struct {
	Relayer *felt.Felt
	Nonce   *felt.Felt
	MaxFee  *felt.Felt
	Hash    *felt.Felt
}

type Mempool interface {
	Get(hash common.Hash) (*mempool.Record, bool)
	DropOneSubmitted() (common.Hash, bool, error)
}

type Config struct {
	Addresses     []*felt.Felt
	FeeToken      *felt.Felt
	BalanceFloor  *uint256.Int
	SweepInterval time.Duration
}

// Relayers is the fleet of relayer accounts. Each account relays one transaction at a
// time, accounts relay concurrently.
type Relayers struct {
	accounts []*Account
	cursor   atomic.Uint64

	provider      starknet.Provider
	translator    *translator.Translator
	key           *crypto.PrivateKey
	chainID       *felt.Felt
	feeToken      *felt.Felt
	balanceFloor  *uint256.Int
	sweepInterval time.Duration
	pool          Mempool
	listener      EventListener
	log           utils.SimpleLogger

	attemptsMu sync.RWMutex
	attempts   map[common.Hash][]Attempt
}

// New loads the nonce and balance of every configured account.
func New(ctx context.Context, cfg *Config, provider starknet.Provider, tr *translator.Translator,
	key *crypto.PrivateKey, pool Mempool, log utils.SimpleLogger,
) (*Relayers, error) {
	if len(cfg.Addresses) == 0 {
		return nil, ErrNoRelayers
	}

	chainID, err := provider.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("get chain id: %w", err)
	}

	floor := cfg.BalanceFloor
	if floor == nil {
		floor = new(uint256.Int)
	}
	r := &Relayers{
		accounts:      make([]*Account, 0, len(cfg.Addresses)),
		provider:      provider,
		translator:    tr,
		key:           key,
		chainID:       chainID,
		feeToken:      cfg.FeeToken,
		balanceFloor:  floor,
		sweepInterval: cfg.SweepInterval,
		pool:          pool,
		listener:      &SelectiveListener{},
		log:           log,
		attempts:      make(map[common.Hash][]Attempt),
	}

	for _, address := range cfg.Addresses {
		nonce, err := provider.Nonce(ctx, address)
		if err != nil {
			return nil, fmt.Errorf("get nonce of relayer %s: %w", address, err)
		}
		balance, err := starknet.BalanceOf(ctx, provider, cfg.FeeToken, address)
		if err != nil {
			return nil, fmt.Errorf("get balance of relayer %s: %w", address, err)
		}
		r.accounts = append(r.accounts, newAccount(address, nonce, balance))
		log.Infow("Loaded relayer account", "address", address, "nonce", nonce, "balance", balance)
	}
	return r, nil
}

func (r *Relayers) WithListener(listener EventListener) *Relayers {
	r.listener = listener
	return r
}

func (r *Relayers) Accounts() []*Account {
	return r.accounts
}

func (r *Relayers) Len() int {
	return len(r.accounts)
}

// acquire locks the first idle account starting from the round-robin cursor. When every
// account is busy it waits for the account under the cursor.
func (r *Relayers) acquire() *Account {
	n := uint64(len(r.accounts))
	start := r.cursor.Add(1) - 1
	for i := range n {
		a := r.accounts[(start+i)%n]
		if a.mu.TryLock() {
			return a
		}
	}
	a := r.accounts[start%n]
	a.mu.Lock()
	return a
}

// Relay signs and broadcasts txn from one of the relayer accounts and returns the Starknet
// transaction hash. Once started, the broadcast is not cancelled with ctx.
func (r *Relayers) Relay(ctx context.Context, txn *mempool.Transaction) (*felt.Felt, error) {
	r.listener.OnInFlight(1)
	defer r.listener.OnInFlight(-1)
	start := time.Now()

	a := r.acquire()
	defer a.mu.Unlock()

	hash, err := r.relay(ctx, a, txn)
	took := time.Since(start)
	switch {
	case err == nil:
		r.listener.OnRelay(OutcomeSuccess, took)
	case errors.Is(err, ErrNonceConflict):
		r.listener.OnRelay(OutcomeNonceConflict, took)
	case errors.As(err, new(*BroadcastError)):
		r.listener.OnRelay(OutcomeBroadcastError, took)
	default:
		r.listener.OnRelay(OutcomeRejected, took)
	}
	return hash, err
}

// relay runs with the account lock held.
func (r *Relayers) relay(ctx context.Context, a *Account, txn *mempool.Transaction) (*felt.Felt, error) {
	// TODO: replace balance-1 with a fee estimate once the estimation endpoint is wired in
	balance := a.balance.Load()
	if balance.IsZero() {
		return nil, &BroadcastError{Relayer: a.Address, Nonce: a.nonce, Err: ErrUnfunded}
	}
	maxFee := new(uint256.Int).SubUint64(balance, 1)
	if maxFee.Gt(maxFeeCap) {
		maxFee.Set(maxFeeCap)
	}
	maxFeeBytes := maxFee.Bytes32()

	invoke, err := r.invoke(txn, a.Address, a.nonce, new(felt.Felt).SetBytes(maxFeeBytes[:]))
	if err != nil {
		return nil, err
	}
	hash, err := invoke.Hash(r.chainID)
	if err != nil {
		return nil, err
	}
	sig, err := r.key.Sign(hash)
	if err != nil {
		return nil, fmt.Errorf("sign %s: %w", hash, err)
	}
	invoke.TransactionHash = hash
	invoke.Signature = []*felt.Felt{&sig.R, &sig.S}

	snHash, err := r.provider.AddInvokeTransaction(context.WithoutCancel(ctx), invoke)
	if err != nil {
		if starknet.IsErrorCode(err, starknet.InvalidTransactionNonce) {
			a.stale.Store(true)
			err = fmt.Errorf("%w: %w", ErrNonceConflict, err)
		}
		r.log.Warnw("Failed to relay transaction", "hash", txn.Hash(), "relayer", a.Address, "nonce", a.nonce, "err", err)
		return nil, &BroadcastError{Relayer: a.Address, Nonce: a.nonce, Err: err}
	}
	if !snHash.Equal(hash) {
		r.log.Warnw("Starknet node returned an unexpected transaction hash", "expected", hash, "got", snHash)
	}

	r.attemptsMu.Lock()
	r.attempts[txn.Hash()] = append(r.attempts[txn.Hash()], Attempt{
		Relayer: a.Address,
		Nonce:   invoke.Nonce,
		MaxFee:  invoke.MaxFee,
		Hash:    snHash,
	})
	r.attemptsMu.Unlock()

	a.nonce = new(felt.Felt).Add(a.nonce, &felt.One)
	r.log.Debugw("Relayed transaction", "hash", txn.Hash(), "starknetHash", snHash, "relayer", a.Address)
	return snHash, nil
}

func (r *Relayers) invoke(txn *mempool.Transaction, relayer, nonce, maxFee *felt.Felt) (*core.InvokeTransaction, error) {
	call, err := r.translator.Translate(txn.Tx, txn.Sender, relayer)
	if err != nil {
		return nil, err
	}
	return &core.InvokeTransaction{
		CallData:      translator.ExecuteCalldata(call),
		MaxFee:        maxFee,
		Version:       new(felt.Felt).Set(&felt.One),
		Nonce:         new(felt.Felt).Set(nonce),
		SenderAddress: relayer,
	}, nil
}

// ForeignTransactionHash recomputes the Starknet hash of the given successful relay of a
// pending transaction, counting from zero.
func (r *Relayers) ForeignTransactionHash(ethHash common.Hash, retries uint8) (*felt.Felt, error) {
	r.attemptsMu.RLock()
	attempts := r.attempts[ethHash]
	r.attemptsMu.RUnlock()

	record, ok := r.pool.Get(ethHash)
	if !ok {
		return nil, ErrUnknownTransaction
	}
	if int(retries) >= len(attempts) {
		return nil, fmt.Errorf("%w: %d of %d", ErrUnknownAttempt, retries, len(attempts))
	}

	a := attempts[retries]
	invoke, err := r.invoke(&record.Transaction, a.Relayer, a.Nonce, a.MaxFee)
	if err != nil {
		return nil, err
	}
	return invoke.Hash(r.chainID)
}

// Attempts returns the successful relays of a pending transaction.
func (r *Relayers) Attempts(ethHash common.Hash) []Attempt {
	r.attemptsMu.RLock()
	defer r.attemptsMu.RUnlock()
	return append([]Attempt(nil), r.attempts[ethHash]...)
}

// Release forgets the relays of a transaction that left the pool.
func (r *Relayers) Release(ethHash common.Hash) {
	r.attemptsMu.Lock()
	delete(r.attempts, ethHash)
	r.attemptsMu.Unlock()
}
