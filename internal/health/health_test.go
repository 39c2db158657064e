package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terragen/internal/config"
)

func TestCheckGroqKey(t *testing.T) {
	t.Parallel()

	assert.True(t, CheckGroqKey("gsk_something").Passed)
	missing := CheckGroqKey("")
	assert.False(t, missing.Passed)
	assert.Contains(t, missing.Message, "GROQ_API_KEY")
}

func TestCheckMilvus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"code": 0,
			"data": []map[string]any{{"resource": "cloudstack_instance"}},
		})
	}))
	defer srv.Close()

	cfg := &config.Configuration{MilvusAddr: srv.URL, MilvusCollection: "cloudstack_docs"}
	res := CheckMilvus(context.Background(), cfg)
	assert.True(t, res.Passed)
	assert.Contains(t, res.Message, "1 resource types")
}

func TestCheckMilvus_Unreachable(t *testing.T) {
	t.Parallel()

	cfg := &config.Configuration{MilvusAddr: "http://127.0.0.1:1", MilvusCollection: "c"}
	res := CheckMilvus(context.Background(), cfg)
	assert.False(t, res.Passed)
	assert.Contains(t, res.Message, "unreachable")
}

func TestRunChecks_TerraformIsAdvisory(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"code": 0, "data": []map[string]any{}})
	}))
	defer srv.Close()

	cfg := &config.Configuration{
		GroqAPIKey:       "gsk_x",
		MilvusAddr:       srv.URL,
		MilvusCollection: "c",
	}
	report := RunChecks(context.Background(), cfg)
	require.Len(t, report.Checks, 3)

	// Whatever the terraform check found, the report passes on the two
	// blocking checks alone.
	assert.True(t, report.Passed)
}

func TestFormatReport(t *testing.T) {
	t.Parallel()

	report := &Report{Checks: []CheckResult{
		{Name: "Groq API key", Passed: true, Message: "configured"},
		{Name: "Milvus", Passed: false, Message: "unreachable at http://x"},
	}}
	out := FormatReport(report)
	assert.Contains(t, out, "✓ Groq API key: configured")
	assert.Contains(t, out, "✗ Milvus: unreachable")
}
