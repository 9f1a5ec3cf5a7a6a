package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

func (c *LoggateClientImpl) Index(
	ctx context.Context,
	document []byte,
	id string,
	index string,
) error {
	res, err := c.es.Index(
		index,
		bytes.NewReader(document),
		c.es.Index.WithDocumentID(id),
		c.es.Index.WithContext(ctx),
		c.es.Index.WithRefresh(c.refreshRate),
	)
	if err != nil {
		return fmt.Errorf("failed to index document in Elasticsearch: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index error: %s", res.String())
	}
	return nil
}

func (c *LoggateClientImpl) DeleteByQuery(
	ctx context.Context,
	query string,
	index string,
) (int64, error) {
	res, err := c.es.DeleteByQuery(
		[]string{index},
		strings.NewReader(query),
		c.es.DeleteByQuery.WithContext(ctx),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete by query in Elasticsearch: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, fmt.Errorf("delete by query error: %s", res.String())
	}

	var deleteResponse struct {
		Deleted int64 `json:"deleted"`
	}
	if err := json.NewDecoder(res.Body).Decode(&deleteResponse); err != nil {
		return 0, fmt.Errorf("failed to decode response body: %w", err)
	}
	return deleteResponse.Deleted, nil
}
