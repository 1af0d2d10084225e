// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

package sources

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/notness3/RecoService/internal/recommend"
)

// LoadMsgpackMapping reads a msgpack map of user keys to item arrays.
// Keys may be integers or canonical decimal strings, mixed freely.
func LoadMsgpackMapping(path, name, kind string) (*MappingSource, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, unavailable(name, err)
	}

	lists, err := decodeMsgpackMapping(data)
	if err != nil {
		return nil, unavailable(name, fmt.Errorf("decode %s: %w", path, err))
	}
	return NewMappingSource(name, kind, lists), nil
}

func decodeMsgpackMapping(data []byte) (map[recommend.UserID][]recommend.ItemID, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))

	n, err := dec.DecodeMapLen()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return map[recommend.UserID][]recommend.ItemID{}, nil
	}

	lists := make(map[recommend.UserID][]recommend.ItemID, n)
	for i := 0; i < n; i++ {
		rawKey, err := dec.DecodeInterfaceLoose()
		if err != nil {
			return nil, fmt.Errorf("entry %d key: %w", i, err)
		}
		user, err := msgpackUserKey(rawKey)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}

		var items []recommend.ItemID
		if err := dec.Decode(&items); err != nil {
			return nil, fmt.Errorf("entry %d (user %d) items: %w", i, user, err)
		}

		if _, dup := lists[user]; dup {
			return nil, fmt.Errorf("user %d appears twice", user)
		}
		lists[user] = items
	}
	return lists, nil
}

func msgpackUserKey(key interface{}) (recommend.UserID, error) {
	switch k := key.(type) {
	case int64:
		return k, nil
	case uint64:
		if k > math.MaxInt64 {
			return 0, fmt.Errorf("user key %d overflows int64", k)
		}
		return int64(k), nil
	case string:
		return ParseUserKey(k)
	case []byte:
		return ParseUserKey(string(k))
	default:
		return 0, fmt.Errorf("unsupported user key type %T", key)
	}
}

// WriteMsgpackMapping writes lists in the format LoadMsgpackMapping reads.
func WriteMsgpackMapping(path string, lists map[recommend.UserID][]recommend.ItemID) error {
	data, err := msgpack.Marshal(lists)
	if err != nil {
		return fmt.Errorf("encode mapping: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write mapping: %w", err)
	}
	return nil
}
