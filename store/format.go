package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/josephgoksu/pkghistory/models"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	yaml "gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatTOML = "toml"
)

// rawDocument keeps the file's key order, which is the transaction order.
type rawDocument = orderedmap.OrderedMap[string, models.RawTransaction]

func toRawDocument(doc *models.Document) *rawDocument {
	raw := orderedmap.New[string, models.RawTransaction]()
	for _, tx := range doc.Transactions() {
		raw.Set(tx.ID, models.EncodeTransaction(tx))
	}
	return raw
}

func fromRawDocument(raw *rawDocument) (*models.Document, error) {
	txs := make([]models.Transaction, 0, raw.Len())
	for pair := raw.Oldest(); pair != nil; pair = pair.Next() {
		tx, err := models.DecodeTransaction(pair.Key, pair.Value)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return models.NewDocument(txs...), nil
}

// marshalDocument renders the document in a human readable form.
func marshalDocument(doc *models.Document, format string) ([]byte, error) {
	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(toRawDocument(doc), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return append(data, '\n'), nil
	case formatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(toRawDocument(doc)); err != nil {
			return nil, fmt.Errorf("failed to marshal YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return buf.Bytes(), nil
	case formatTOML:
		plain := make(map[string]models.RawTransaction, doc.Len())
		for _, tx := range doc.Transactions() {
			plain[tx.ID] = models.EncodeTransaction(tx)
		}
		buf := new(bytes.Buffer)
		if err := toml.NewEncoder(buf).Encode(plain); err != nil {
			return nil, fmt.Errorf("failed to marshal TOML: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported data format for saving: %s", format)
	}
}

// unmarshalDocument parses stored content. Empty content is not a valid document.
func unmarshalDocument(data []byte, format string) (*models.Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("document is empty")
	}
	switch format {
	case formatJSON:
		raw := orderedmap.New[string, models.RawTransaction]()
		if err := json.Unmarshal(data, raw); err != nil {
			return nil, fmt.Errorf("failed to unmarshal JSON: %w", err)
		}
		return fromRawDocument(raw)
	case formatYAML:
		raw := orderedmap.New[string, models.RawTransaction]()
		if err := yaml.Unmarshal(data, raw); err != nil {
			return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
		}
		return fromRawDocument(raw)
	case formatTOML:
		var plain map[string]models.RawTransaction
		if err := toml.Unmarshal(data, &plain); err != nil {
			return nil, fmt.Errorf("failed to unmarshal TOML: %w", err)
		}
		return fromTOMLTables(plain)
	default:
		return nil, fmt.Errorf("unsupported data format for loading: %s", format)
	}
}

// TOML tables carry no order, so transactions are ordered by numeric ID.
func fromTOMLTables(plain map[string]models.RawTransaction) (*models.Document, error) {
	ids := make([]string, 0, len(plain))
	for id := range plain {
		if _, err := strconv.Atoi(id); err != nil {
			return nil, fmt.Errorf("transaction id %q is not numeric", id)
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, _ := strconv.Atoi(ids[i])
		b, _ := strconv.Atoi(ids[j])
		return a < b
	})
	raw := orderedmap.New[string, models.RawTransaction]()
	for _, id := range ids {
		raw.Set(id, plain[id])
	}
	return fromRawDocument(raw)
}
