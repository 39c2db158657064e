package docstore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMilvusStore_Search(t *testing.T) {
	t.Parallel()

	var gotReq milvusQueryReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/vectordb/entities/query", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		resp := map[string]any{
			"code": 0,
			"data": []map[string]any{
				{"resource": "cloudstack_instance", "required_fields": `["name","zone"]`, "text": "docs one"},
				{"resource": "cloudstack_instance", "required_fields": "", "text": "docs two"},
				{"resource": "cloudstack_instance", "required_fields": "", "text": ""},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	store := NewMilvusStore(srv.URL, "cloudstack_docs", time.Second)
	chunks, err := store.Search(context.Background(), "cloudstack_instance", 0)
	require.NoError(t, err)

	assert.Equal(t, "cloudstack_docs", gotReq.CollectionName)
	assert.Equal(t, `resource == "cloudstack_instance"`, gotReq.Filter)

	// Empty-text rows are dropped; metadata is decoded from its JSON column.
	require.Len(t, chunks, 2)
	assert.Equal(t, []string{"name", "zone"}, chunks[0].RequiredFields)
	assert.Nil(t, chunks[1].RequiredFields)
}

func TestMilvusStore_SearchHonorsTopK(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"code": 0,
			"data": []map[string]any{
				{"resource": "r", "text": "a"},
				{"resource": "r", "text": "b"},
				{"resource": "r", "text": "c"},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	store := NewMilvusStore(srv.URL, "c", time.Second)
	chunks, err := store.Search(context.Background(), "r", 2)
	require.NoError(t, err)
	assert.Len(t, chunks, 2)
}

func TestMilvusStore_Resources(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"code": 0,
			"data": []map[string]any{
				{"resource": "cloudstack_network"},
				{"resource": "cloudstack_instance"},
				{"resource": "cloudstack_instance"},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	store := NewMilvusStore(srv.URL, "c", time.Second)
	names, err := store.Resources(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"cloudstack_instance", "cloudstack_network"}, names)
}

func TestMilvusStore_ServerError(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		handler http.HandlerFunc
		wantErr string
	}{
		"http error status": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "collection not loaded", http.StatusInternalServerError)
			},
			wantErr: "unexpected status",
		},
		"application error code": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{"code": 1100, "message": "collection not found"})
			},
			wantErr: "server error 1100",
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			store := NewMilvusStore(srv.URL, "c", time.Second)
			_, err := store.Search(context.Background(), "r", 0)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseRequiredFields(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		raw  string
		want []string
	}{
		"valid":     {raw: `["name","zone"]`, want: []string{"name", "zone"}},
		"empty":     {raw: "", want: nil},
		"malformed": {raw: "{not json", want: nil},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, parseRequiredFields(tt.raw))
		})
	}
}
