package businessmap

import (
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInstances() []InstanceConfig {
	return []InstanceConfig{
		{Name: "staging", BaseURL: "https://staging.kanbanize.com", Token: "s-token"},
		{Name: "prod", BaseURL: "https://prod.kanbanize.com", Token: "p-token"},
	}
}

func TestNewFactoryValidates(t *testing.T) {
	logger := log.New(io.Discard, "", 0)

	_, err := NewFactory(nil, "", logger)
	assert.Error(t, err)

	_, err = NewFactory([]InstanceConfig{{Name: " "}}, "", logger)
	assert.Error(t, err)

	dup := append(testInstances(), InstanceConfig{Name: "prod", BaseURL: "https://x.kanbanize.com", Token: "t"})
	_, err = NewFactory(dup, "", logger)
	assert.ErrorContains(t, err, "duplicate")

	_, err = NewFactory(testInstances(), "missing", logger)
	assert.ErrorContains(t, err, "missing")
}

func TestFactoryDefaultsToFirstInstance(t *testing.T) {
	factory, err := NewFactory(testInstances(), "", log.New(io.Discard, "", 0))
	require.NoError(t, err)

	assert.Equal(t, "staging", factory.DefaultInstance())

	svc, err := factory.Service("")
	require.NoError(t, err)
	assert.Equal(t, "https://staging.kanbanize.com/api/v2", svc.BaseURL())
}

func TestFactoryCachesServices(t *testing.T) {
	factory, err := NewFactory(testInstances(), "prod", log.New(io.Discard, "", 0))
	require.NoError(t, err)

	first, err := factory.Service("prod")
	require.NoError(t, err)
	second, err := factory.Service(" prod ")
	require.NoError(t, err)
	assert.Same(t, first, second)

	_, err = factory.Service("qa")
	assert.ErrorContains(t, err, "available: prod, staging")
}

func TestFactoryInstancesHideTokens(t *testing.T) {
	factory, err := NewFactory(testInstances(), "prod", log.New(io.Discard, "", 0))
	require.NoError(t, err)

	assert.Equal(t, []InstanceInfo{
		{Name: "prod", BaseURL: "https://prod.kanbanize.com", IsDefault: true},
		{Name: "staging", BaseURL: "https://staging.kanbanize.com"},
	}, factory.Instances())
}

func TestFactoryReportsInvalidInstanceOnUse(t *testing.T) {
	factory, err := NewFactory([]InstanceConfig{{Name: "broken", BaseURL: "not a url"}}, "", log.New(io.Discard, "", 0))
	require.NoError(t, err)

	_, err = factory.Service("broken")
	assert.ErrorContains(t, err, `instance "broken"`)
}
