package docs

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	chromem "github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"

	"github.com/tanpawarit/Chative-Parts-Assistant/agent/catalog"
	contractx "github.com/tanpawarit/Chative-Parts-Assistant/agent/contract"
)

const (
	collectionName   = "repair_docs"
	maxResults       = 3
	docTypeBonus     = 0.1
	partMatchBonus   = 0.1
	indexConcurrency = 4
)

// Retriever ranks repair documents held in an in-memory chromem collection.
type Retriever struct {
	collection *chromem.Collection
	docs       map[string]contractx.Doc
}

var _ contractx.DocRetriever = (*Retriever)(nil)

// NewRetriever embeds and indexes docs. Documents without indexable text are
// skipped.
func NewRetriever(ctx context.Context, docs []contractx.Doc, embedder Embedder) (*Retriever, error) {
	if embedder == nil {
		return nil, errors.New("embedder is required")
	}

	db := chromem.NewDB()
	col, err := db.GetOrCreateCollection(collectionName, nil, toChromemFunc(embedder))
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	r := &Retriever{collection: col, docs: make(map[string]contractx.Doc, len(docs))}
	records := make([]chromem.Document, 0, len(docs))
	for _, doc := range docs {
		text := indexText(doc)
		if len(catalog.Tokenize(text)) == 0 {
			log.Debug().Str("doc_id", doc.ID).Msg("skipping doc without indexable text")
			continue
		}
		if _, dup := r.docs[doc.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate doc id %q", contractx.ErrValidation, doc.ID)
		}
		r.docs[doc.ID] = doc
		records = append(records, chromem.Document{
			ID:       doc.ID,
			Content:  text,
			Metadata: docMetadata(doc),
		})
	}
	if len(records) == 0 {
		return r, nil
	}

	if err := col.AddDocuments(ctx, records, indexConcurrency); err != nil {
		return nil, fmt.Errorf("%w: index docs: %v", contractx.ErrStoreUnavailable, err)
	}
	log.Info().Int("docs", len(records)).Str("embedder", embedder.Name()).Msg("doc index built")
	return r, nil
}

func (r *Retriever) Count() int {
	return r.collection.Count()
}

// RetrieveDocs returns at most three docs for the query, restricted to the
// appliance family and, when a part is given, to that part's docs plus
// general ones.
func (r *Retriever) RetrieveDocs(ctx context.Context, q contractx.DocQuery) ([]contractx.Doc, error) {
	normalizedQuery := strings.ToLower(strings.TrimSpace(q.Query))
	if len(catalog.Tokenize(normalizedQuery)) == 0 {
		return []contractx.Doc{}, nil
	}

	count := r.collection.Count()
	if count == 0 {
		return []contractx.Doc{}, nil
	}

	var where map[string]string
	if q.ApplianceType != contractx.ApplianceUnknown {
		where = map[string]string{"applianceType": string(q.ApplianceType)}
	}

	results, err := r.collection.Query(ctx, q.Query, count, where, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: query docs: %v", contractx.ErrStoreUnavailable, err)
	}

	type scored struct {
		doc   contractx.Doc
		score float32
	}
	ranked := make([]scored, 0, len(results))
	for _, res := range results {
		doc, ok := r.docs[res.ID]
		if !ok {
			continue
		}
		if q.PsNumber != "" && doc.PartNumber != "" && doc.PartNumber != q.PsNumber {
			continue
		}
		score := res.Similarity
		if doc.DocType != "" && strings.Contains(normalizedQuery, strings.ToLower(doc.DocType)) {
			score += docTypeBonus
		}
		if q.PsNumber != "" && doc.PartNumber == q.PsNumber {
			score += partMatchBonus
		}
		ranked = append(ranked, scored{doc: doc, score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		if ranked[i].doc.UpdatedAt != ranked[j].doc.UpdatedAt {
			return ranked[i].doc.UpdatedAt > ranked[j].doc.UpdatedAt
		}
		return ranked[i].doc.ID < ranked[j].doc.ID
	})

	limit := min(len(ranked), maxResults)
	out := make([]contractx.Doc, 0, limit)
	for _, item := range ranked[:limit] {
		out = append(out, item.doc)
	}
	return out, nil
}

func indexText(doc contractx.Doc) string {
	return strings.TrimSpace(doc.Title + " " + doc.Content)
}

func docMetadata(doc contractx.Doc) map[string]string {
	return map[string]string{
		"applianceType": doc.ApplianceType,
		"partNumber":    doc.PartNumber,
		"docType":       doc.DocType,
		"updatedAt":     doc.UpdatedAt,
	}
}
