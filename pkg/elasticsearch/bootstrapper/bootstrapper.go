package bootstrapper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"
)

const retries = 30
const waitTime = 5

type Bootstrapper struct {
	esClient *elasticsearch.Client
	logger   *zap.Logger
}

func NewBootstrapper(esClient *elasticsearch.Client, logger *zap.Logger) *Bootstrapper {
	return &Bootstrapper{
		esClient: esClient,
		logger:   logger,
	}
}

func (bs *Bootstrapper) BootstrapElasticsearch() error {

	if err := bs.waitForElasticsearch(retries, waitTime*time.Second); err != nil {
		return fmt.Errorf("failed to connect to Elasticsearch: %w", err)
	}

	if err := bs.createLifecyclePolicy(RetentionPolicyName, retentionPolicy); err != nil {
		return fmt.Errorf("error creating retention policy: %w", err)
	}

	if err := bs.createIndex(LogRecordIndexName, logRecordIndex); err != nil {
		return fmt.Errorf("error creating log record index: %w", err)
	}

	return nil
}

func (bs *Bootstrapper) waitForElasticsearch(maxRetries int, delay time.Duration) error {
	for i := 0; i < maxRetries; i++ {
		res, err := bs.esClient.Info()
		if err == nil && res.StatusCode == 200 {
			bs.logger.Info("Elasticsearch is available")
			return nil
		}
		bs.logger.Warn(fmt.Sprintf("Elasticsearch not available (attempt %d/%d), retrying...", i+1, maxRetries))

		time.Sleep(delay)
	}

	return fmt.Errorf("Elasticsearch is not available after %d attempts", maxRetries)
}

func (bs *Bootstrapper) createIndex(indexName string, index map[string]interface{}) error {
	body, err := json.Marshal(index)
	if err != nil {
		return fmt.Errorf("error marshaling index input during bootstrap: %w", err)
	}

	res, err := bs.esClient.Indices.Create(
		indexName,
		bs.esClient.Indices.Create.WithBody(strings.NewReader(string(body))),
	)
	if err != nil {
		return fmt.Errorf("error creating index during bootstrap %s: %w", indexName, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error response for index %s: %s", indexName, res.String())
	}

	bs.logger.Info("Successfully created index", zap.String("index_name", indexName))
	return nil
}

func (bs *Bootstrapper) createLifecyclePolicy(policyName string, policy map[string]interface{}) error {
	body, err := json.Marshal(policy)
	if err != nil {
		return fmt.Errorf("error marshaling lifecycle policy during bootstrap: %w", err)
	}

	res, err := bs.esClient.ILM.PutLifecycle(
		policyName,
		bs.esClient.ILM.PutLifecycle.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return fmt.Errorf("error creating lifecycle policy during bootstrap %s: %w", policyName, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error response for lifecycle policy %s: %s", policyName, res.String())
	}

	bs.logger.Info("Successfully created lifecycle policy", zap.String("policy_name", policyName))
	return nil
}
