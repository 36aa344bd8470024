package serve_test

import (
	"bytes"
	"context"
	"os"
	"sync"
	"testing"

	"fjacquet/invoice-summaries/cmd/root"
	"fjacquet/invoice-summaries/cmd/serve"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var setupOnce sync.Once

func executeContext(t *testing.T, ctx context.Context, args ...string) error {
	t.Helper()
	setupOnce.Do(func() {
		root.Init()
		root.Cmd.AddCommand(serve.Cmd)
	})
	root.SharedFlags = root.CommonFlags{}

	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Chdir(dir)
	t.Setenv("INVOICE_LOG_LEVEL", "error")

	var out bytes.Buffer
	root.Cmd.SetOut(&out)
	root.Cmd.SetErr(&out)
	root.Cmd.SetArgs(args)
	return root.Cmd.ExecuteContext(ctx)
}

func TestServeCommand_Metadata(t *testing.T) {
	assert.Equal(t, "serve", serve.Cmd.Use)
	assert.Contains(t, serve.Cmd.Long, "invoice_with_ai_summaries.csv")
	assert.NotNil(t, serve.Cmd.Flags().Lookup("addr"))
}

func TestServeCommand_StopsWithContext(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := executeContext(t, ctx, "serve", "--addr", "127.0.0.1:0")
	assert.NoError(t, err)
}

func TestServeCommand_MissingAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	require.NoError(t, os.Unsetenv("OPENAI_API_KEY"))
	t.Setenv("INVOICE_AI_API_KEY", "")
	require.NoError(t, os.Unsetenv("INVOICE_AI_API_KEY"))

	err := executeContext(t, context.Background(), "serve", "--addr", "127.0.0.1:0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is not set")
}
