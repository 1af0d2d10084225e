// RecoService - Recommendation Serving API
// Copyright 2026 notness3
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/notness3/RecoService

package sources

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/notness3/RecoService/internal/recommend"
)

// LoadJSONMapping reads a {"<user>": [items...]} table and returns a source
// of the given kind.
func LoadJSONMapping(path, name, kind string) (*MappingSource, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, unavailable(name, err)
	}

	var raw map[string][]recommend.ItemID
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, unavailable(name, fmt.Errorf("decode %s: %w", path, err))
	}

	lists, err := normalizeKeys(raw)
	if err != nil {
		return nil, unavailable(name, err)
	}
	return NewMappingSource(name, kind, lists), nil
}

// LoadPopularity reads a ranked popularity list.
//
// The file holds either an array of item ids or an object whose values are
// item ids; object values are taken in document order.
func LoadPopularity(path string) (*recommend.Popularity, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, unavailable("popularity", err)
	}

	items, err := decodeRanked(data)
	if err != nil {
		return nil, unavailable("popularity", fmt.Errorf("decode %s: %w", path, err))
	}
	if len(items) == 0 {
		return nil, unavailable("popularity", errors.New("popularity list is empty"))
	}
	return recommend.NewPopularity(items), nil
}

// decodeRanked streams tokens so the order of object values is preserved.
func decodeRanked(data []byte) ([]recommend.ItemID, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok || (delim != '[' && delim != '{') {
		return nil, fmt.Errorf("expected array or object, got %v", tok)
	}
	isObject := delim == '{'

	var items []recommend.ItemID
	for dec.More() {
		if isObject {
			if _, err := dec.Token(); err != nil { // key
				return nil, err
			}
		}
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		num, ok := tok.(json.Number)
		if !ok {
			return nil, fmt.Errorf("expected item id, got %v", tok)
		}
		id, err := num.Int64()
		if err != nil {
			return nil, fmt.Errorf("item id %s: %w", num, err)
		}
		items = append(items, id)
	}

	if _, err := dec.Token(); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return items, nil
}
