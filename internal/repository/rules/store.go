package rules

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// docStore is the consumer interface over the document store (ISP).
type docStore interface {
	Scan(ctx context.Context, pattern string) ([]string, error)
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
}

// StoreSource reads published per-modality rule documents from the document
// store. Keys follow the published-rules layout: <prefix><modality>, where
// the modality segment uses underscores for separators (PET_CT).
type StoreSource struct {
	store  docStore
	prefix string
}

// NewStoreSource creates a document-store rule source.
func NewStoreSource(store docStore, prefix string) *StoreSource {
	return &StoreSource{store: store, prefix: prefix}
}

// Name identifies the source in warnings and logs.
func (s *StoreSource) Name() string { return "store:" + s.prefix + "*" }

// Fetch scans for published rule documents and returns one Document per
// modality, sorted by key so builds stay deterministic.
func (s *StoreSource) Fetch(ctx context.Context) ([]Document, error) {
	keys, err := s.store.Scan(ctx, s.prefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan %s*: %w", s.prefix, err)
	}
	sort.Strings(keys)

	docs := make([]Document, 0, len(keys))
	for _, key := range keys {
		data, err := s.store.JSONGet(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("get %s: %w", key, err)
		}
		docs = append(docs, Document{
			Name:         "store:" + key,
			ModalityHint: modalityFromKey(strings.TrimPrefix(key, s.prefix)),
			Data:         data,
		})
	}
	return docs, nil
}

// modalityFromKey restores a display-ish label from a sanitized key segment:
// "PET_CT" becomes "PET/CT" only via folding downstream, so underscores are
// simply turned into spaces here.
func modalityFromKey(segment string) string {
	return strings.ReplaceAll(segment, "_", " ")
}
