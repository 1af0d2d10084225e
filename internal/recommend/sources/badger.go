// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

package sources

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/notness3/RecoService/internal/recommend"
)

// LoadBadgerExport reads every "<prefix><user>" entry of a badger directory
// into an export source. Values are msgpack-encoded item arrays.
//
// The directory is opened read-only, read in one transaction and closed
// again; the serving process keeps no handle on it. A missing directory or
// a prefix with no entries fails the load.
func LoadBadgerExport(dir, prefix, name string) (*MappingSource, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, unavailable(name, fmt.Errorf("badger export %s: %w", dir, err))
	}
	if !info.IsDir() {
		return nil, unavailable(name, fmt.Errorf("badger export %s is not a directory", dir))
	}

	db, err := badger.Open(badger.DefaultOptions(dir).WithReadOnly(true).WithLogger(nil))
	if err != nil {
		return nil, unavailable(name, fmt.Errorf("open badger %s: %w", dir, err))
	}
	defer func() { _ = db.Close() }() //nolint:errcheck // read-only use, close error is not actionable

	lists := make(map[recommend.UserID][]recommend.ItemID)
	err = db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := strings.TrimPrefix(string(item.Key()), prefix)

			user, err := ParseUserKey(key)
			if err != nil {
				return err
			}

			var items []recommend.ItemID
			if err := item.Value(func(val []byte) error {
				return msgpack.Unmarshal(val, &items)
			}); err != nil {
				return fmt.Errorf("user %d: %w", user, err)
			}
			lists[user] = items
		}
		return nil
	})
	if err != nil {
		return nil, unavailable(name, err)
	}
	if len(lists) == 0 {
		return nil, unavailable(name, errors.New("no entries under prefix "+prefix))
	}

	return NewExportSource(name, lists), nil
}

// WriteBadgerExport stores lists in the layout LoadBadgerExport reads.
func WriteBadgerExport(dir, prefix string, lists map[recommend.UserID][]recommend.ItemID) error {
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return fmt.Errorf("open badger %s: %w", dir, err)
	}

	wb := db.NewWriteBatch()
	for user, items := range lists {
		val, err := msgpack.Marshal(items)
		if err != nil {
			wb.Cancel()
			_ = db.Close() //nolint:errcheck // encode error takes precedence
			return fmt.Errorf("encode user %d: %w", user, err)
		}
		if err := wb.Set([]byte(fmt.Sprintf("%s%d", prefix, user)), val); err != nil {
			wb.Cancel()
			_ = db.Close() //nolint:errcheck // write error takes precedence
			return fmt.Errorf("write user %d: %w", user, err)
		}
	}
	if err := wb.Flush(); err != nil {
		_ = db.Close() //nolint:errcheck // flush error takes precedence
		return fmt.Errorf("flush export: %w", err)
	}
	return db.Close()
}
