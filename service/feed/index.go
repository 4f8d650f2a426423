package feed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/elastic/go-elasticsearch/v8"

	entity "magesync.GO/model/entity"
)

var (
	indexerInstance *Indexer
	indexerOnce     sync.Once
)

// GetIndexer returns the singleton Indexer.
func GetIndexer() *Indexer {
	indexerOnce.Do(func() {
		indexerInstance = NewIndexer()
	})
	return indexerInstance
}

// Indexer pushes generated feed rows into Elasticsearch so the catalog feed
// is searchable per app. When Elasticsearch is not configured the indexer is
// a no-op.
type Indexer struct {
	client *elasticsearch.Client
	prefix string
}

func NewIndexer() *Indexer {
	host := os.Getenv("ELASTICSEARCH_HOST")
	if host == "" {
		return &Indexer{}
	}
	prefix := os.Getenv("ELASTICSEARCH_INDEX_PREFIX")
	if prefix == "" {
		prefix = "magesync"
	}

	cfg := elasticsearch.Config{
		Addresses: []string{host},
	}
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return &Indexer{prefix: prefix}
	}

	return &Indexer{
		client: client,
		prefix: prefix,
	}
}

// IndexRows bulk-indexes the feed rows into {prefix}_catalog_feed_{appCode}.
// Documents are keyed by sku plus store so localized rows do not clobber the
// default-language row.
func (ix *Indexer) IndexRows(app *entity.MagentoApp, rows []map[string]string) error {
	if ix.client == nil {
		return nil
	}
	if len(rows) == 0 {
		return nil
	}
	indexName := fmt.Sprintf("%s_catalog_feed_%s", ix.prefix, app.Code)

	var buf bytes.Buffer
	for _, row := range rows {
		id := row["sku"]
		if store := row["store"]; store != "" {
			id += "_" + store
		}
		meta := map[string]interface{}{
			"index": map[string]interface{}{
				"_index": indexName,
				"_id":    id,
			},
		}
		metaBytes, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		docBytes, err := json.Marshal(row)
		if err != nil {
			return err
		}
		buf.Write(metaBytes)
		buf.WriteByte('\n')
		buf.Write(docBytes)
		buf.WriteByte('\n')
	}

	res, err := ix.client.Bulk(
		bytes.NewReader(buf.Bytes()),
		ix.client.Bulk.WithIndex(indexName),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch bulk error: %s", res.String())
	}

	var esResp struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			Status int    `json:"status"`
			Error  *json.RawMessage `json:"error"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&esResp); err != nil {
		return err
	}
	if esResp.Errors {
		var failed []string
		for _, item := range esResp.Items {
			for _, v := range item {
				if v.Status >= 300 && v.Error != nil {
					failed = append(failed, string(*v.Error))
				}
			}
		}
		return fmt.Errorf("elasticsearch bulk: %d failed items: %s",
			len(failed), strings.Join(failed, "; "))
	}
	return nil
}
