package mempool

import (
	"fmt"
	"time"

	"github.com/NethermindEth/kakarot-relayer/db"
	"github.com/NethermindEth/kakarot-relayer/encoder"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

type dbRecord struct {
	Raw     []byte
	Sender  []byte
	Origin  Origin
	Retries uint8
	AddedAt int64
	Seq     uint64
}

func recordKey(hash common.Hash) []byte {
	return db.PendingTx.Key(hash.Bytes())
}

func WriteRecord(txn db.Transaction, r *Record) error {
	raw, err := r.Tx.MarshalBinary()
	if err != nil {
		return err
	}
	item, err := encoder.Marshal(dbRecord{
		Raw:     raw,
		Sender:  r.Sender.Bytes(),
		Origin:  r.Origin,
		Retries: r.Retries,
		AddedAt: r.AddedAt.UnixNano(),
		Seq:     r.seq,
	})
	if err != nil {
		return err
	}
	return txn.Set(recordKey(r.Hash()), item)
}

func DeleteRecord(txn db.Transaction, hash common.Hash) error {
	return txn.Delete(recordKey(hash))
}

func decodeRecord(data []byte) (*Record, error) {
	var item dbRecord
	if err := encoder.Unmarshal(data, &item); err != nil {
		return nil, err
	}
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(item.Raw); err != nil {
		return nil, err
	}
	return &Record{
		Transaction: Transaction{
			Tx:     tx,
			Sender: common.BytesToAddress(item.Sender),
		},
		Origin:  item.Origin,
		Retries: item.Retries,
		AddedAt: time.Unix(0, item.AddedAt),
		seq:     item.Seq,
	}, nil
}

// LoadRecords reads every persisted pending record, ordered by key.
func LoadRecords(database db.DB) ([]*Record, error) {
	var records []*Record
	err := database.View(func(txn db.Transaction) (err error) {
		it, err := txn.NewIterator(db.PendingTx.Key())
		if err != nil {
			return err
		}
		defer db.CloseAndWrapOnError(it.Close, &err)

		for it.Next() {
			value, err := it.Value()
			if err != nil {
				return err
			}
			r, err := decodeRecord(value)
			if err != nil {
				return fmt.Errorf("decode pending record %x: %w", it.Key(), err)
			}
			records = append(records, r)
		}
		return nil
	})
	return records, err
}
