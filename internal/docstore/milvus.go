package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"
)

const (
	queryBatchSize = 1000
	// Hard stop for pagination so a misbehaving server cannot loop us forever.
	queryMaxOffset = 16000
)

// MilvusStore queries a Milvus collection over its HTTP v2 API.
// Expected collection fields: resource, required_fields (JSON string), text.
type MilvusStore struct {
	http       *http.Client
	addr       string
	collection string
}

// NewMilvusStore creates a store for the collection served at addr
// (e.g. "http://localhost:19530").
func NewMilvusStore(addr, collection string, timeout time.Duration) *MilvusStore {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &MilvusStore{
		http:       &http.Client{Timeout: timeout},
		addr:       strings.TrimRight(addr, "/"),
		collection: collection,
	}
}

type milvusQueryReq struct {
	CollectionName string   `json:"collectionName"`
	Filter         string   `json:"filter"`
	OutputFields   []string `json:"outputFields"`
	Limit          int      `json:"limit"`
	Offset         int      `json:"offset,omitempty"`
}

type milvusQueryResp struct {
	Code    int               `json:"code"`
	Message string            `json:"message,omitempty"`
	Data    []milvusQueryData `json:"data"`
}

type milvusQueryData struct {
	Resource       string `json:"resource"`
	RequiredFields string `json:"required_fields"`
	Text           string `json:"text"`
}

// Search returns the chunks stored for the resource named by query. The
// collection keys chunks by exact resource identifier, so retrieval after
// resolution is a filtered scan, batched to respect the query window limit.
func (m *MilvusStore) Search(ctx context.Context, query string, topK int) ([]Chunk, error) {
	filter := fmt.Sprintf("resource == %q", query)
	var chunks []Chunk
	for offset := 0; offset < queryMaxOffset; offset += queryBatchSize {
		rows, err := m.query(ctx, filter, []string{"resource", "required_fields", "text"}, queryBatchSize, offset)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			if row.Text == "" {
				continue
			}
			chunks = append(chunks, Chunk{
				Text:           row.Text,
				Resource:       row.Resource,
				RequiredFields: parseRequiredFields(row.RequiredFields),
			})
			if topK > 0 && len(chunks) >= topK {
				return chunks, nil
			}
		}
		if len(rows) < queryBatchSize {
			break
		}
	}
	return chunks, nil
}

// Resources returns the distinct resource identifiers present in the
// collection, sorted ascending.
func (m *MilvusStore) Resources(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	for offset := 0; offset < queryMaxOffset; offset += queryBatchSize {
		rows, err := m.query(ctx, `resource != ""`, []string{"resource"}, queryBatchSize, offset)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			if row.Resource != "" {
				seen[row.Resource] = true
			}
		}
		if len(rows) < queryBatchSize {
			break
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *MilvusStore) query(ctx context.Context, filter string, fields []string, limit, offset int) ([]milvusQueryData, error) {
	reqBody := milvusQueryReq{
		CollectionName: m.collection,
		Filter:         filter,
		OutputFields:   fields,
		Limit:          limit,
		Offset:         offset,
	}
	b, _ := json.Marshal(reqBody)
	url := m.addr + "/v2/vectordb/entities/query"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("milvus: query failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		const max = 1024
		if len(body) > max {
			body = body[:max]
		}
		return nil, fmt.Errorf("milvus: unexpected status %s: %s", resp.Status, string(body))
	}
	var out milvusQueryResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("milvus: decoding response: %w", err)
	}
	if out.Code != 0 {
		return nil, fmt.Errorf("milvus: server error %d: %s", out.Code, out.Message)
	}
	return out.Data, nil
}

// parseRequiredFields decodes the JSON string array stored in the
// required_fields metadata column. Malformed metadata yields nil rather
// than failing the whole retrieval.
func parseRequiredFields(raw string) []string {
	if raw == "" {
		return nil
	}
	var fields []string
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil
	}
	return fields
}
