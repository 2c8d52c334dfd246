package pebble

import (
	"errors"
	"io"
	"sync"

	"github.com/NethermindEth/kakarot-relayer/db"
	"github.com/cockroachdb/pebble"
)

var (
	ErrDiscardedTransaction = errors.New("discarded txn")
	ErrReadOnlyTransaction  = errors.New("read only transaction")
)

var _ db.Transaction = (*Transaction)(nil)

type Transaction struct {
	batch    *pebble.Batch
	snapshot *pebble.Snapshot
	lock     *sync.Mutex
}

// Discard : see db.Transaction.Discard
func (t *Transaction) Discard() (err error) {
	if t.batch != nil {
		err = t.batch.Close()
		t.batch = nil
	}
	if t.snapshot != nil {
		err = t.snapshot.Close()
		t.snapshot = nil
	}

	if t.lock != nil {
		t.lock.Unlock()
		t.lock = nil
	}
	return
}

// Commit : see db.Transaction.Commit
func (t *Transaction) Commit() (err error) {
	defer db.CloseAndWrapOnError(t.Discard, &err)

	if t.batch == nil {
		return ErrDiscardedTransaction
	}
	return t.batch.Commit(pebble.Sync)
}

// Set : see db.Transaction.Set
func (t *Transaction) Set(key, val []byte) error {
	if t.batch == nil {
		return ErrReadOnlyTransaction
	} else if len(key) == 0 {
		return errors.New("empty key")
	}
	return t.batch.Set(key, val, pebble.Sync)
}

// Delete : see db.Transaction.Delete
func (t *Transaction) Delete(key []byte) error {
	if t.batch == nil {
		return ErrReadOnlyTransaction
	}
	return t.batch.Delete(key, pebble.Sync)
}

// Get : see db.Transaction.Get
func (t *Transaction) Get(key []byte, cb func([]byte) error) (err error) {
	var val []byte
	var closer io.Closer

	switch {
	case t.batch != nil:
		val, closer, err = t.batch.Get(key)
	case t.snapshot != nil:
		val, closer, err = t.snapshot.Get(key)
	default:
		return ErrDiscardedTransaction
	}
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return db.ErrKeyNotFound
		}
		return err
	}
	defer db.CloseAndWrapOnError(closer.Close, &err)
	return cb(val)
}

// Has : see db.Transaction.Has
func (t *Transaction) Has(key []byte) (bool, error) {
	err := t.Get(key, func([]byte) error { return nil })
	if errors.Is(err, db.ErrKeyNotFound) {
		return false, nil
	}
	return err == nil, err
}

// NewIterator : see db.Transaction.NewIterator
func (t *Transaction) NewIterator(prefix []byte) (db.Iterator, error) {
	opts := &pebble.IterOptions{LowerBound: prefix, UpperBound: upperBound(prefix)}

	var (
		iter *pebble.Iterator
		err  error
	)
	switch {
	case t.batch != nil:
		iter, err = t.batch.NewIter(opts)
	case t.snapshot != nil:
		iter, err = t.snapshot.NewIter(opts)
	default:
		return nil, ErrDiscardedTransaction
	}
	if err != nil {
		return nil, err
	}

	return &iterator{iter: iter}, nil
}

// upperBound returns the smallest key greater than every key with the given prefix
func upperBound(prefix []byte) []byte {
	ub := append([]byte(nil), prefix...)
	for i := len(ub) - 1; i >= 0; i-- {
		ub[i]++
		if ub[i] != 0 {
			return ub[:i+1]
		}
	}
	return nil
}
