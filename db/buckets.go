package db

import (
	"fmt"
	"slices"
)

type Bucket byte

// Pebble does not support buckets to differentiate between groups of
// keys like Bolt or MDBX does. We use a global prefix list as a poor
// man's bucket alternative.
const (
	SchemaVersion Bucket = iota
	PendingTx            // Eth transaction hash -> persisted pending record
)

var bucketNames = map[Bucket]string{
	SchemaVersion: "SchemaVersion",
	PendingTx:     "PendingTx",
}

func (b Bucket) String() string {
	if name, ok := bucketNames[b]; ok {
		return name
	}
	return fmt.Sprintf("Bucket(%d)", b)
}

// Key flattens a prefix and series of byte arrays into a single []byte.
func (b Bucket) Key(key ...[]byte) []byte {
	return append([]byte{byte(b)}, slices.Concat(key...)...)
}
