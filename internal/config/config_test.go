package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFunc(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadSingleInstanceFromEnv(t *testing.T) {
	cfg, err := Load(envFunc(map[string]string{
		EnvAPIURL:   "https://acme.kanbanize.com",
		EnvAPIToken: "secret",
	}))
	require.NoError(t, err)

	assert.Equal(t, []Instance{{Name: DefaultInstanceName, APIURL: "https://acme.kanbanize.com", APIToken: "secret"}}, cfg.Instances)
	assert.False(t, cfg.ReadOnly)
	assert.Equal(t, 10.0, cfg.RateLimit)
	assert.Equal(t, 3, cfg.RetryMax)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 8, cfg.AnalysisConcurrency)
	assert.False(t, cfg.OTelEnabled)
}

func TestLoadRequiresAnInstance(t *testing.T) {
	_, err := Load(envFunc(nil))
	assert.ErrorContains(t, err, EnvAPIURL)
}

func TestLoadRequiresToken(t *testing.T) {
	_, err := Load(envFunc(map[string]string{EnvAPIURL: "https://acme.kanbanize.com"}))
	assert.ErrorContains(t, err, "api token is required")
}

func TestLoadOverridesFromEnv(t *testing.T) {
	cfg, err := Load(envFunc(map[string]string{
		EnvAPIURL:              "https://acme.kanbanize.com",
		EnvAPIToken:            "secret",
		EnvReadOnly:            "true",
		EnvRateLimit:           "2.5",
		EnvRetryMax:            "0",
		EnvTimeout:             "5s",
		EnvAnalysisConcurrency: "2",
		EnvOTelEnabled:         "1",
	}))
	require.NoError(t, err)

	assert.True(t, cfg.ReadOnly)
	assert.Equal(t, 2.5, cfg.RateLimit)
	assert.Equal(t, 0, cfg.RetryMax)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 2, cfg.AnalysisConcurrency)
	assert.True(t, cfg.OTelEnabled)
}

func TestLoadRejectsMalformedEnv(t *testing.T) {
	_, err := Load(envFunc(map[string]string{
		EnvAPIURL:   "https://acme.kanbanize.com",
		EnvAPIToken: "secret",
		EnvTimeout:  "soon",
	}))
	assert.ErrorContains(t, err, EnvTimeout)
}

func TestLoadInstancesFile(t *testing.T) {
	path := writeFile(t, "instances.yaml", `
default_instance: prod
read_only: true
instances:
  - name: prod
    api_url: https://acme.kanbanize.com
    api_token_env: BM_PROD_TOKEN
  - name: staging
    api_url: https://acme-staging.kanbanize.com
    api_token: staging-secret
`)

	cfg, err := Load(envFunc(map[string]string{
		EnvInstancesFile: path,
		"BM_PROD_TOKEN":  "prod-secret",
	}))
	require.NoError(t, err)

	require.Len(t, cfg.Instances, 2)
	assert.Equal(t, "prod-secret", cfg.Instances[0].APIToken)
	assert.Equal(t, "staging-secret", cfg.Instances[1].APIToken)
	assert.Equal(t, "prod", cfg.DefaultInstance)
	assert.True(t, cfg.ReadOnly)
	assert.ElementsMatch(t, []string{"prod-secret", "staging-secret"}, cfg.Tokens())
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "instances.json", `{
  "default_instance": "prod",
  "read_only": true,
  "instances": [
    {"name": "prod", "api_url": "https://acme.kanbanize.com", "api_token": "file-secret"}
  ]
}`)

	cfg, err := Load(envFunc(map[string]string{
		EnvInstancesFile:   path,
		EnvReadOnly:        "false",
		EnvAPIURL:          "https://other.kanbanize.com",
		EnvAPIToken:        "env-secret",
		EnvDefaultInstance: DefaultInstanceName,
	}))
	require.NoError(t, err)

	assert.False(t, cfg.ReadOnly)
	assert.Equal(t, DefaultInstanceName, cfg.DefaultInstance)
	require.Len(t, cfg.Instances, 2)
	assert.Equal(t, Instance{Name: DefaultInstanceName, APIURL: "https://other.kanbanize.com", APIToken: "env-secret"}, cfg.Instances[1])
}

func TestLoadValidatesInstancesFile(t *testing.T) {
	cases := map[string]string{
		"duplicate name": `
instances:
  - name: prod
    api_url: https://a.kanbanize.com
    api_token: x
  - name: prod
    api_url: https://b.kanbanize.com
    api_token: y
`,
		"missing default": `
default_instance: qa
instances:
  - name: prod
    api_url: https://a.kanbanize.com
    api_token: x
`,
		"unresolved token env": `
instances:
  - name: prod
    api_url: https://a.kanbanize.com
    api_token_env: BM_MISSING
`,
		"missing url": `
instances:
  - name: prod
    api_token: x
`,
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, "instances.yaml", content)
			_, err := Load(envFunc(map[string]string{EnvInstancesFile: path}))
			assert.Error(t, err)
		})
	}
}

func TestLoadReportsMissingFile(t *testing.T) {
	_, err := Load(envFunc(map[string]string{EnvInstancesFile: filepath.Join(t.TempDir(), "absent.yaml")}))
	assert.ErrorContains(t, err, "read instances file")
}
