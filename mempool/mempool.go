package mempool

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math/big"
	"slices"
	"sync"
	"time"

	"github.com/NethermindEth/kakarot-relayer/db"
	"github.com/NethermindEth/kakarot-relayer/utils"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// PriceBump is the minimum tip increase, in percent, for a transaction to replace a pooled
// transaction with the same sender and nonce.
const PriceBump = 10

// Pool holds the transactions accepted from clients until they are seen as confirmed.
// Every change is written through to the database so the pool survives restarts.
type Pool struct {
	db         db.DB
	validator  *Validator
	signer     types.Signer
	maxNumTxns int
	log        utils.SimpleLogger

	mu       sync.RWMutex
	records  map[common.Hash]*Record
	seq      uint64
	txPushed chan struct{}
}

// New creates the pool and restores the records persisted in database.
func New(database db.DB, validator *Validator, chainID *big.Int, maxNumTxns int, log utils.SimpleLogger) (*Pool, error) {
	pool := &Pool{
		db:         database,
		validator:  validator,
		signer:     types.LatestSignerForChainID(chainID),
		maxNumTxns: maxNumTxns,
		log:        log,
		records:    make(map[common.Hash]*Record),
		txPushed:   make(chan struct{}, 1),
	}

	if err := pool.loadFromDB(); err != nil {
		return nil, fmt.Errorf("load pending transactions: %w", err)
	}
	return pool, nil
}

// loadFromDB restores the in-memory pool. Relay attempts are not persisted, so restored
// records are queued for relaying again.
func (p *Pool) loadFromDB() error {
	records, err := LoadRecords(p.db)
	if err != nil {
		return err
	}

	for _, r := range records {
		p.records[r.Hash()] = r
		if r.seq >= p.seq {
			p.seq = r.seq + 1
		}
	}
	if len(records) > 0 {
		p.log.Infow("Restored pending transactions", "count", len(records))
		p.notify()
	}
	return nil
}

// Add decodes a raw signed transaction and queues it for relaying.
func (p *Pool) Add(ctx context.Context, raw []byte) (common.Hash, error) {
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(raw); err != nil {
		return common.Hash{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := p.AddTransaction(ctx, tx); err != nil {
		return common.Hash{}, err
	}
	return tx.Hash(), nil
}

// AddTransaction recovers the sender of tx, validates it and queues it for relaying.
func (p *Pool) AddTransaction(ctx context.Context, tx *types.Transaction) error {
	sender, err := types.Sender(p.signer, tx)
	if err != nil {
		if errors.Is(err, types.ErrInvalidChainId) {
			return fmt.Errorf("%w: %v", ErrInvalidChainID, err)
		}
		return fmt.Errorf("%w: %v", ErrSignature, err)
	}

	txn := Transaction{Tx: tx, Sender: sender}
	if p.Has(txn.Hash()) {
		return ErrAlreadyKnown
	}
	if err = p.validator.Validate(ctx, &txn); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.records[txn.Hash()]; ok {
		return ErrAlreadyKnown
	}
	replaced := p.sameNonce(sender, tx.Nonce())
	if replaced != nil {
		if replaced.Submitted {
			return ErrReplaceRelaying
		}
		if !outbids(tx, replaced.Tx) {
			return ErrReplaceUnderpriced
		}
	} else if len(p.records) >= p.maxNumTxns {
		return ErrTxPoolFull
	}

	r := &Record{
		Transaction: txn,
		Origin:      Local,
		AddedAt:     time.Now(),
		seq:         p.seq,
	}
	if err = p.db.Update(func(dbTxn db.Transaction) error {
		if replaced != nil {
			if err := DeleteRecord(dbTxn, replaced.Hash()); err != nil {
				return err
			}
		}
		return WriteRecord(dbTxn, r)
	}); err != nil {
		return fmt.Errorf("persist transaction %s: %w", txn.Hash(), err)
	}
	if replaced != nil {
		delete(p.records, replaced.Hash())
		p.log.Debugw("Transaction replaced", "old", replaced.Hash(), "new", txn.Hash())
	}
	p.records[txn.Hash()] = r
	p.seq++
	p.notify()

	p.log.Debugw("Transaction added to the pool", "hash", txn.Hash(), "sender", sender, "nonce", tx.Nonce())
	return nil
}

// sameNonce returns the record of sender with the given nonce. Callers hold p.mu.
func (p *Pool) sameNonce(sender common.Address, nonce uint64) *Record {
	for _, r := range p.records {
		if r.Sender == sender && r.Tx.Nonce() == nonce {
			return r
		}
	}
	return nil
}

// outbids reports whether tx may replace old: its tip cap must be at least PriceBump
// percent higher and its fee cap no lower.
func outbids(tx, old *types.Transaction) bool {
	if tx.GasFeeCapIntCmp(old.GasFeeCap()) < 0 {
		return false
	}
	threshold := new(big.Int).Mul(old.GasTipCap(), big.NewInt(100+PriceBump))
	threshold.Div(threshold, big.NewInt(100))
	return tx.GasTipCapIntCmp(threshold) >= 0 && tx.GasTipCapCmp(old) > 0
}

func (p *Pool) notify() {
	select {
	case p.txPushed <- struct{}{}:
	default:
	}
}

// Wait returns a channel signalled when new transactions are available.
func (p *Pool) Wait() <-chan struct{} {
	return p.txPushed
}

// Get returns a copy of the record with the given hash.
func (p *Pool) Get(hash common.Hash) (*Record, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	r, ok := p.records[hash]
	if !ok {
		return nil, false
	}
	cp := *r
	return &cp, true
}

func (p *Pool) Has(hash common.Hash) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	_, ok := p.records[hash]
	return ok
}

// Len returns the number of transactions in the pool
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.records)
}

// Records returns copies of all records in arrival order.
func (p *Pool) Records() []*Record {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot(func(*Record) bool { return true })
}

func (p *Pool) snapshot(keep func(*Record) bool) []*Record {
	records := make([]*Record, 0, len(p.records))
	for _, r := range p.records {
		if keep(r) {
			cp := *r
			records = append(records, &cp)
		}
	}
	slices.SortFunc(records, func(a, b *Record) int {
		return cmp.Compare(a.seq, b.seq)
	})
	return records
}

// Remove deletes the transactions from the pool. Unknown hashes are ignored.
func (p *Pool) Remove(hashes ...common.Hash) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.db.Update(func(txn db.Transaction) error {
		for _, hash := range hashes {
			if _, ok := p.records[hash]; !ok {
				continue
			}
			if err := DeleteRecord(txn, hash); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}

	for _, hash := range hashes {
		delete(p.records, hash)
	}
	return nil
}

// MarkSubmitted flags the record as handed to a relayer and counts the hand-off.
// It returns the updated number of hand-offs.
func (p *Pool) MarkSubmitted(hash common.Hash) (uint8, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	r, ok := p.records[hash]
	if !ok {
		return 0, ErrTxNotFound
	}

	updated := *r
	updated.Submitted = true
	if updated.Retries < 255 {
		updated.Retries++
	}
	if err := p.db.Update(func(txn db.Transaction) error {
		return WriteRecord(txn, &updated)
	}); err != nil {
		return 0, err
	}
	*r = updated
	return r.Retries, nil
}

// UnmarkSubmitted returns the record to the set of transactions waiting for a relayer after a
// failed hand-off. The hand-off counted by MarkSubmitted is taken back, so Retries only counts
// relays that reached the Starknet node.
func (p *Pool) UnmarkSubmitted(hash common.Hash) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	r, ok := p.records[hash]
	if !ok {
		return ErrTxNotFound
	}

	updated := *r
	updated.Submitted = false
	if updated.Retries > 0 {
		updated.Retries--
	}
	if err := p.db.Update(func(txn db.Transaction) error {
		return WriteRecord(txn, &updated)
	}); err != nil {
		return err
	}
	*r = updated
	p.notify()
	return nil
}

// DropOneSubmitted removes the oldest submitted record. The boolean is false when no
// record is submitted.
func (p *Pool) DropOneSubmitted() (common.Hash, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var oldest *Record
	for _, r := range p.records {
		if r.Submitted && (oldest == nil || r.seq < oldest.seq) {
			oldest = r
		}
	}
	if oldest == nil {
		return common.Hash{}, false, nil
	}

	hash := oldest.Hash()
	if err := p.db.Update(func(txn db.Transaction) error {
		return DeleteRecord(txn, hash)
	}); err != nil {
		return common.Hash{}, false, err
	}
	delete(p.records, hash)
	return hash, true, nil
}

// Best returns up to n records ready to be relayed, highest effective tip first. Only the
// lowest nonce record of a sender is eligible, and only when no other record of that
// sender is submitted, so a sender's transactions reach Kakarot in nonce order. A nil
// baseFee ranks by tip cap.
func (p *Pool) Best(baseFee *big.Int, n int) []*Record {
	p.mu.RLock()
	defer p.mu.RUnlock()

	heads := make(map[common.Address]*Record)
	busy := make(map[common.Address]bool)
	for _, r := range p.records {
		if r.Submitted {
			busy[r.Sender] = true
			continue
		}
		head, ok := heads[r.Sender]
		if !ok || r.Tx.Nonce() < head.Tx.Nonce() || (r.Tx.Nonce() == head.Tx.Nonce() && r.seq < head.seq) {
			heads[r.Sender] = r
		}
	}

	type ranked struct {
		record *Record
		tip    *big.Int
	}
	candidates := make([]ranked, 0, len(heads))
	for sender, r := range heads {
		if busy[sender] {
			continue
		}
		// the tip is negative when the fee cap is below baseFee; such records rank last
		tip, _ := r.Tx.EffectiveGasTip(baseFee)
		candidates = append(candidates, ranked{record: r, tip: tip})
	}
	slices.SortFunc(candidates, func(a, b ranked) int {
		if c := b.tip.Cmp(a.tip); c != 0 {
			return c
		}
		return cmp.Compare(a.record.seq, b.record.seq)
	})

	if n > len(candidates) || n <= 0 {
		n = len(candidates)
	}
	best := make([]*Record, 0, n)
	for _, c := range candidates[:n] {
		cp := *c.record
		best = append(best, &cp)
	}
	return best
}
