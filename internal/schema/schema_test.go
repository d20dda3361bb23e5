package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jenian/envsensei/internal/detect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd_CreatesMinimalSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "src", "env.schema.ts")

	added, err := Add(path, "JWT_SECRET", detect.CategorySecret)
	require.NoError(t, err)
	assert.True(t, added)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "import { z } from 'zod';")
	assert.Contains(t, string(content), "  JWT_SECRET: z.string().min(1),\n});")
}

func TestAdd_InsertsBeforeLastClosing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.schema.ts")
	require.NoError(t, os.WriteFile(path, []byte(Minimal("API_KEY", detect.CategorySecret)), 0644))

	added, err := Add(path, "BASE_URL", detect.CategoryConfig)
	require.NoError(t, err)
	assert.True(t, added)

	content, _ := os.ReadFile(path)
	assert.Contains(t, string(content), "  API_KEY: z.string().min(1),\n  BASE_URL: z.string().optional(),\n});")
}

func TestAdd_ExistingName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.schema.ts")
	original := Minimal("API_KEY", detect.CategorySecret)
	require.NoError(t, os.WriteFile(path, []byte(original), 0644))

	added, err := Add(path, "API_KEY", detect.CategorySecret)
	require.NoError(t, err)
	assert.False(t, added)

	content, _ := os.ReadFile(path)
	assert.Equal(t, original, string(content))
}

func TestInsert_NameIsMatchedAsWord(t *testing.T) {
	content := Minimal("API_KEY_ID", detect.CategorySecret)
	updated, ok := Insert(content, "API_KEY", detect.CategorySecret)
	assert.True(t, ok)
	assert.Contains(t, updated, "  API_KEY: z.string().min(1),\n")
}

func TestInsert_Nested(t *testing.T) {
	content := `export const env = z.object({
  DB: z.object({
    HOST: z.string(),
  }),
  PORT: z.string(),
});
`
	updated, ok := Insert(content, "REDIS_URL", detect.CategoryConfig)
	require.True(t, ok)
	assert.Contains(t, updated, "  PORT: z.string(),\n  REDIS_URL: z.string().optional(),\n});")
}

func TestInsert_NoClosingFallback(t *testing.T) {
	content := "export const env = createEnv(schema)\n"
	updated, ok := Insert(content, "TOKEN", detect.CategorySecret)
	require.True(t, ok)
	assert.Equal(t, content+"\n// Add TOKEN to your schema\n// TOKEN: z.string().min(1)\n", updated)
}
