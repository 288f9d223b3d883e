// Package search mirrors the inventory ledger into an external full-text
// index. The mirror is best-effort: failures are logged by the worker and
// never reach the request that triggered them, and the index may briefly
// trail the ledger.
package search

import (
	"context"
	"strconv"

	"alltech-pos/internal/models"

	"github.com/meilisearch/meilisearch-go"
)

// Indexer receives product snapshots after every successful ledger mutation.
type Indexer interface {
	IndexProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
}

// document is the snapshot shape stored in the index.
type document struct {
	ID          uint    `json:"id"`
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

// Meili pushes snapshots to a Meilisearch index.
type Meili struct {
	index meilisearch.IndexManager
}

func NewMeili(url, apiKey, indexName string) *Meili {
	client := meilisearch.New(url, meilisearch.WithAPIKey(apiKey))
	return &Meili{index: client.Index(indexName)}
}

func (m *Meili) IndexProduct(ctx context.Context, p *models.Product) error {
	docs := []document{{
		ID:          p.ID,
		ProductName: p.Name,
		Price:       p.Price.InexactFloat64(),
		Quantity:    p.Quantity,
	}}
	_, err := m.index.UpdateDocumentsWithContext(ctx, docs)
	return err
}

func (m *Meili) DeleteProduct(ctx context.Context, id uint) error {
	_, err := m.index.DeleteDocumentWithContext(ctx, strconv.FormatUint(uint64(id), 10))
	return err
}

// Noop stands in when no search backend is configured.
type Noop struct{}

func (Noop) IndexProduct(context.Context, *models.Product) error { return nil }
func (Noop) DeleteProduct(context.Context, uint) error           { return nil }
