package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/wot-oss/resx/internal/resx"
	"github.com/wot-oss/resx/internal/utils"
)

const maxIndexingBatchSize = 200

// indexedEntry is the document indexed for an entry. Text holds the text form of the value when the value
// has one.
type indexedEntry struct {
	Name     string `json:"name"`
	Comment  string `json:"comment"`
	Type     string `json:"type"`
	Text     string `json:"text"`
	Metadata bool   `json:"metadata"`
}

type SearchHit struct {
	Name     string  `json:"name"`
	Metadata bool    `json:"metadata,omitempty"`
	Score    float64 `json:"score"`
}

// EntryIndex is an in-memory full text index over the entries of a container
type EntryIndex struct {
	index bleve.Index
	docs  map[string]indexedEntry
}

// NewEntryIndex indexes name, comment, type name and value text of all data and metadata entries of r.
// Values which cannot be materialized are indexed without text.
func NewEntryIndex(ctx context.Context, r *resx.Reader) (*EntryIndex, error) {
	log := utils.GetLogger(ctx, "commands.NewEntryIndex")
	nodes, err := nodes(r, true)
	if err != nil {
		return nil, err
	}
	index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, err
	}
	ei := &EntryIndex{index: index, docs: make(map[string]indexedEntry)}

	batch := index.NewBatch()
	for _, e := range nodes {
		n := e.node
		doc := indexedEntry{
			Name:     n.Name(),
			Comment:  n.Comment(),
			Type:     n.ValueTypeName(nil),
			Metadata: e.metadata,
		}
		if v, err := n.Value(nil); err != nil {
			log.Debug("indexing entry without value", "entry", n.Name(), "error", err)
		} else if s, ok := Text(v, doc.Type); ok {
			doc.Text = s
		}
		id := docID(doc.Name, doc.Metadata)
		ei.docs[id] = doc
		if err := batch.Index(id, doc); err != nil {
			_ = index.Close()
			return nil, fmt.Errorf("can't index entry: %w", err)
		}
		if batch.Size() >= maxIndexingBatchSize {
			if err := index.Batch(batch); err != nil {
				_ = index.Close()
				return nil, fmt.Errorf("can't run batch: %w", err)
			}
			batch.Reset()
		}
	}
	if batch.Size() > 0 {
		if err := index.Batch(batch); err != nil {
			_ = index.Close()
			return nil, fmt.Errorf("can't run batch: %w", err)
		}
	}
	log.Debug("indexed entries", "count", len(ei.docs))
	return ei, nil
}

func docID(name string, metadata bool) string {
	if metadata {
		return "meta:" + name
	}
	return "data:" + name
}

// Search runs a bleve query string query against the index and returns the matching entries, best match first.
// The query syntax is described at https://blevesearch.com/docs/Query-String-Query/
func (ei *EntryIndex) Search(ctx context.Context, query string) ([]SearchHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", ErrInvalidArgs)
	}
	req := bleve.NewSearchRequestOptions(bleve.NewQueryStringQuery(query), len(ei.docs), 0, false)
	res, err := ei.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgs, err)
	}
	hits := make([]SearchHit, 0, len(res.Hits))
	for _, h := range res.Hits {
		doc, ok := ei.docs[h.ID]
		if !ok {
			continue
		}
		hits = append(hits, SearchHit{Name: doc.Name, Metadata: doc.Metadata, Score: h.Score})
	}
	return hits, nil
}

func (ei *EntryIndex) Close() error {
	return ei.index.Close()
}

// Search indexes the entries of r and runs query against them
func Search(ctx context.Context, r *resx.Reader, query string) ([]SearchHit, error) {
	ei, err := NewEntryIndex(ctx, r)
	if err != nil {
		return nil, err
	}
	defer ei.Close()
	return ei.Search(ctx, query)
}
