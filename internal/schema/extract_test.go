package schema

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terragen/internal/docstore"
	"terragen/internal/llm"
)

const instanceDocs = "# cloudstack_instance\n\n" +
	"## Argument Reference\n\n" +
	"* `name` - (Required) The name of the instance. For example: web-1\n" +
	"* `service_offering` - (Required) The service offering. Valid options are: small, medium, large\n" +
	"* `zone` - (Required) The zone name.\n" +
	"* `expunge` - (Optional) Destroy immediately. Defaults to false\n" +
	"* `keypair` - (Optional) The SSH keypair name.\n"

func instanceChunks() []docstore.Chunk {
	return []docstore.Chunk{
		{
			Text:           instanceDocs,
			Resource:       "cloudstack_instance",
			RequiredFields: []string{"name", "service_offering", "zone"},
		},
	}
}

func TestBuild_NoChunks(t *testing.T) {
	t.Parallel()

	b := &Builder{}
	_, err := b.Build(context.Background(), "cloudstack_instance", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no documentation chunks")
}

func TestBuild_RequiredFromMetadata(t *testing.T) {
	t.Parallel()

	// No completion service wired: everything comes from the doc text.
	b := &Builder{}
	sch, err := b.Build(context.Background(), "cloudstack_instance", instanceChunks())
	require.NoError(t, err)

	assert.Equal(t, "cloudstack_instance", sch.Identifier)
	assert.Equal(t, []string{"name", "service_offering", "zone"}, sch.RequiredNames())
}

func TestBuild_OptionalFromDocsFallback(t *testing.T) {
	t.Parallel()

	b := &Builder{}
	sch, err := b.Build(context.Background(), "cloudstack_instance", instanceChunks())
	require.NoError(t, err)

	var names []string
	for _, f := range sch.Optional {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"expunge", "keypair"}, names)
}

func TestBuild_DetailHeuristics(t *testing.T) {
	t.Parallel()

	b := &Builder{}
	sch, err := b.Build(context.Background(), "cloudstack_instance", instanceChunks())
	require.NoError(t, err)

	byName := make(map[string]FieldSpec)
	for _, f := range append(sch.Required, sch.Optional...) {
		byName[f.Name] = f
	}

	assert.Equal(t, []string{"small", "medium", "large"}, byName["service_offering"].Options)
	assert.Equal(t, "false", byName["expunge"].Default)
	assert.Equal(t, "web-1", byName["name"].Example)
}

func TestBuild_LLMAnswersWin(t *testing.T) {
	t.Parallel()

	completer := llm.CompleterFunc(func(ctx context.Context, prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "OPTIONAL argument"):
			return `["display_name"]`, nil
		default:
			// Per-field detail extraction.
			return `{"example": "ex", "default": null, "options": null}`, nil
		}
	})

	b := &Builder{LLM: completer}
	sch, err := b.Build(context.Background(), "cloudstack_instance", instanceChunks())
	require.NoError(t, err)

	require.Len(t, sch.Optional, 1)
	assert.Equal(t, "display_name", sch.Optional[0].Name)
	assert.Equal(t, "ex", sch.Required[0].Example)
}

func TestBuild_OptionalNeverShadowsRequired(t *testing.T) {
	t.Parallel()

	completer := llm.CompleterFunc(func(ctx context.Context, prompt string) (string, error) {
		if strings.Contains(prompt, "OPTIONAL argument") {
			// The model echoes a required field back; it must be dropped.
			return `["zone", "keypair", "keypair"]`, nil
		}
		return `{}`, nil
	})

	b := &Builder{LLM: completer}
	sch, err := b.Build(context.Background(), "cloudstack_instance", instanceChunks())
	require.NoError(t, err)

	require.Len(t, sch.Optional, 1)
	assert.Equal(t, "keypair", sch.Optional[0].Name)
	require.NoError(t, sch.Validate())
}
