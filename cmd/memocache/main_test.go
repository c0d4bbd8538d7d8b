package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	t.Setenv("MEMOCACHE_BACKEND", "redis")
	t.Setenv("MEMOCACHE_REDIS_URL", "redis://"+mr.Addr()+"/0")
	t.Setenv("MEMOCACHE_NAMESPACE", "app")
	t.Setenv("MEMOCACHE_LOG_LEVEL", "error")
	return mr
}

func runCLI(t *testing.T, args ...string) (int, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := run(context.Background(), args, &out, &errOut)
	return code, out.String()
}

func TestSetGetExistsDelete(t *testing.T) {
	mr := setupEnv(t)

	code, _ := runCLI(t, "set", "-prefix", "v1", "-param", "en", "greet", "hello")
	require.Equal(t, 0, code)
	assert.True(t, mr.Exists("app:v1:greet:en"))

	code, out := runCLI(t, "get", "-prefix", "v1", "-param", "en", "greet")
	require.Equal(t, 0, code)
	assert.Equal(t, "hello\n", out)

	_, out = runCLI(t, "exists", "-prefix", "v1", "-param", "en", "greet")
	assert.Equal(t, "true\n", out)

	_, out = runCLI(t, "del", "-prefix", "v1", "-param", "en", "greet")
	assert.Equal(t, "1\n", out)

	_, out = runCLI(t, "get", "-prefix", "v1", "-param", "en", "greet")
	assert.Equal(t, "(nil)\n", out)
}

func TestSetJSONObject(t *testing.T) {
	setupEnv(t)

	code, _ := runCLI(t, "set", "cfg", `{"a":1}`)
	require.Equal(t, 0, code)
	_, out := runCLI(t, "get", "cfg")
	assert.Equal(t, `{"a":1}`+"\n", out)
}

func TestDeletePrefixAndKeys(t *testing.T) {
	mr := setupEnv(t)
	for _, lang := range []string{"en", "fr"} {
		code, _ := runCLI(t, "set", "-prefix", "v1", "-param", lang, "greet", "hi")
		require.Equal(t, 0, code)
	}
	require.NoError(t, mr.Set("app:v1:greeter", "x"))

	_, out := runCLI(t, "keys", "-prefix", "v1", "greet")
	lines := strings.Fields(out)
	assert.ElementsMatch(t, []string{"app:v1:greet:en", "app:v1:greet:fr", "app:v1:greeter"}, lines)

	_, out = runCLI(t, "del-prefix", "-prefix", "v1", "greet")
	assert.Equal(t, "2\n", out)
	assert.True(t, mr.Exists("app:v1:greeter"))
}

func TestExpire(t *testing.T) {
	mr := setupEnv(t)
	runCLI(t, "set", "session", "s")

	_, out := runCLI(t, "expire", "-ttl", "30s", "session")
	assert.Equal(t, "true\n", out)
	assert.Greater(t, mr.TTL("app:session").Seconds(), 0.0)
}

func TestUsageErrors(t *testing.T) {
	setupEnv(t)

	code, _ := runCLI(t)
	assert.Equal(t, 2, code)
	code, _ = runCLI(t, "get")
	assert.Equal(t, 2, code)
	code, _ = runCLI(t, "set", "only-name")
	assert.Equal(t, 2, code)
	code, _ = runCLI(t, "frobnicate", "x")
	assert.Equal(t, 2, code)
}

func TestFlagsBeforeCommandRejected(t *testing.T) {
	mr := setupEnv(t)

	code, _ := runCLI(t, "-prefix", "v1", "set", "greet", "hi")
	assert.Equal(t, 2, code)
	assert.Empty(t, mr.Keys())
}
