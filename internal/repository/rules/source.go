package rules

import "context"

// Document is one raw rule payload fetched from a source. ModalityHint
// labels per-modality documents that carry no modality field of their own.
type Document struct {
	Name         string
	ModalityHint string
	Data         []byte
}

// Source fetches rule documents. A source may return several documents (the
// store source yields one per modality). Sources do no parsing; decoding and
// shape checks belong to the catalog builder.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]Document, error)
}
