package pebble_test

import (
	"testing"

	"github.com/NethermindEth/kakarot-relayer/db"
	"github.com/NethermindEth/kakarot-relayer/db/pebble"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noop = func(val []byte) error {
	return nil
}

func TestTransaction(t *testing.T) {
	t.Run("new transaction can retrieve exising value", func(t *testing.T) {
		testDB := pebble.NewMemTest(t)

		txn, err := testDB.NewTransaction(true)
		require.NoError(t, err)
		require.NoError(t, txn.Set([]byte("key"), []byte("value")))
		require.NoError(t, txn.Commit())

		readOnlyTxn, err := testDB.NewTransaction(false)
		require.NoError(t, err)
		assert.NoError(t, readOnlyTxn.Get([]byte("key"), func(val []byte) error {
			assert.Equal(t, "value", string(val))
			return nil
		}))
		require.NoError(t, readOnlyTxn.Discard())
	})

	t.Run("discarded transaction is not committed to DB", func(t *testing.T) {
		testDB := pebble.NewMemTest(t)

		txn, err := testDB.NewTransaction(true)
		require.NoError(t, err)
		require.NoError(t, txn.Set([]byte("key"), []byte("value")))
		require.NoError(t, txn.Discard())

		readOnlyTxn, err := testDB.NewTransaction(false)
		require.NoError(t, err)
		assert.ErrorIs(t, readOnlyTxn.Get([]byte("key"), noop), db.ErrKeyNotFound)
		require.NoError(t, readOnlyTxn.Discard())
	})

	t.Run("read only transaction cannot write", func(t *testing.T) {
		testDB := pebble.NewMemTest(t)

		txn, err := testDB.NewTransaction(false)
		require.NoError(t, err)
		assert.ErrorIs(t, txn.Set([]byte("key"), []byte("value")), pebble.ErrReadOnlyTransaction)
		assert.ErrorIs(t, txn.Delete([]byte("key")), pebble.ErrReadOnlyTransaction)
		require.NoError(t, txn.Discard())
	})

	t.Run("discarded transaction cannot commit", func(t *testing.T) {
		testDB := pebble.NewMemTest(t)

		txn, err := testDB.NewTransaction(true)
		require.NoError(t, err)
		require.NoError(t, txn.Discard())
		assert.ErrorIs(t, txn.Commit(), pebble.ErrDiscardedTransaction)
	})
}

func TestViewUpdate(t *testing.T) {
	testDB := pebble.NewMemTest(t)

	require.NoError(t, testDB.Update(func(txn db.Transaction) error {
		return txn.Set([]byte("key"), []byte("value"))
	}))

	require.NoError(t, testDB.View(func(txn db.Transaction) error {
		has, err := txn.Has([]byte("key"))
		require.NoError(t, err)
		assert.True(t, has)

		has, err = txn.Has([]byte("missing"))
		require.NoError(t, err)
		assert.False(t, has)
		return nil
	}))

	require.NoError(t, testDB.Update(func(txn db.Transaction) error {
		return txn.Delete([]byte("key"))
	}))
	require.NoError(t, testDB.View(func(txn db.Transaction) error {
		assert.ErrorIs(t, txn.Get([]byte("key"), noop), db.ErrKeyNotFound)
		return nil
	}))

	t.Run("update rolls back on error", func(t *testing.T) {
		require.Error(t, testDB.Update(func(txn db.Transaction) error {
			require.NoError(t, txn.Set([]byte("rolled back"), []byte{1}))
			return db.ErrKeyNotFound
		}))
		require.NoError(t, testDB.View(func(txn db.Transaction) error {
			assert.ErrorIs(t, txn.Get([]byte("rolled back"), noop), db.ErrKeyNotFound)
			return nil
		}))
	})
}

func TestPrefixIterator(t *testing.T) {
	testDB := pebble.NewMemTest(t)

	require.NoError(t, testDB.Update(func(txn db.Transaction) error {
		for _, key := range [][]byte{
			db.SchemaVersion.Key(),
			db.PendingTx.Key([]byte{1}),
			db.PendingTx.Key([]byte{2}),
			db.PendingTx.Key([]byte{0xff}),
			{byte(db.PendingTx) + 1, 0},
		} {
			if err := txn.Set(key, []byte{key[len(key)-1]}); err != nil {
				return err
			}
		}
		return nil
	}))

	var values []byte
	require.NoError(t, testDB.View(func(txn db.Transaction) error {
		it, err := txn.NewIterator(db.PendingTx.Key())
		require.NoError(t, err)
		defer func() { require.NoError(t, it.Close()) }()

		for it.Next() {
			v, err := it.Value()
			require.NoError(t, err)
			values = append(values, v...)
		}
		return nil
	}))
	assert.Equal(t, []byte{1, 2, 0xff}, values)
}
