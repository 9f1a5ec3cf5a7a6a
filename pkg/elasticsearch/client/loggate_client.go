package client

import (
	"context"

	"github.com/elastic/go-elasticsearch/v8"
)

const SearchResultSize = 10

type RefreshRate string

const (
	// Wait for the changes made by the request to be made visible by a refresh before replying.
	Wait RefreshRate = "wait_for"
	// Immediate Refresh the relevant primary and replica shards (not the whole index) immediately after the operation occurs.
	Immediate RefreshRate = "true"
	// Async Take no refresh related actions. The changes made by this request will be made visible at some point after the request returns.
	Async RefreshRate = "false"
)

// LoggateClient is the storage contract admission depends on: one count-style
// existence check and one single-document insert per candidate, plus a search
// used by the read surface and a delete-by-query used by retention.
type LoggateClient interface {
	// Count counts the number of documents in the index matching the query
	// https://www.elastic.co/guide/en/elasticsearch/reference/master/search-count.html
	Count(ctx context.Context, query string, index string) (int64, error)
	// Index inserts a single document with the given id
	// https://www.elastic.co/guide/en/elasticsearch/reference/master/docs-index_.html
	Index(ctx context.Context, document []byte, id string, index string) error
	// Search searches for documents in the index
	// https://www.elastic.co/guide/en/elasticsearch/reference/master/search-search.html
	// queryResultSize is the number of results to return, -1 for default
	Search(ctx context.Context, query string, index string, queryResultSize *int) ([]map[string]interface{}, error)
	// DeleteByQuery deletes documents in the index matching the query
	// https://www.elastic.co/guide/en/elasticsearch/reference/current/docs-delete-by-query.html
	DeleteByQuery(ctx context.Context, query string, index string) (int64, error)
}

type LoggateClientImpl struct {
	es          *elasticsearch.Client
	refreshRate string
}

func NewLoggateClientImpl(es *elasticsearch.Client, refreshRate RefreshRate) *LoggateClientImpl {
	return &LoggateClientImpl{es: es, refreshRate: string(refreshRate)}
}
