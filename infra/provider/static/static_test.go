package static

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/songpengyi/enertalk-alwayson-calculator/core/factory"
	"github.com/songpengyi/enertalk-alwayson-calculator/core/model"
	"github.com/songpengyi/enertalk-alwayson-calculator/core/provider"
)

const fixture = `{
  "sites": {
    "abc": {
      "timezone": "Asia/Seoul",
      "items": [
        {"timestamp": 1000, "usage": 10},
        {"timestamp": 2000, "usage": 20},
        {"timestamp": 3000, "usage": 30}
      ]
    },
    "nozone": {"items": []}
  }
}`

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.json")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	p, err := Load(writeFixture(t))
	require.NoError(t, err)

	tz, err := p.Timezone(context.Background(), "abc", nil)
	require.NoError(t, err)
	assert.Equal(t, "Asia/Seoul", tz)

	tz, err = p.Timezone(context.Background(), "nozone", nil)
	require.NoError(t, err)
	assert.Equal(t, "UTC", tz)
}

func TestUsagesRange(t *testing.T) {
	p, err := Load(writeFixture(t))
	require.NoError(t, err)

	resp, err := p.Usages(context.Background(), "abc", model.UsageQuery{Start: 2000, End: 3000})
	require.NoError(t, err)
	assert.Equal(t, []model.Reading{{Timestamp: 2000, Usage: 20}}, resp.Items)

	resp, err = p.Usages(context.Background(), "abc", model.UsageQuery{})
	require.NoError(t, err)
	assert.Len(t, resp.Items, 3)

	resp, err = p.Usages(context.Background(), "nozone", model.UsageQuery{})
	require.NoError(t, err)
	assert.NotNil(t, resp.Items)
	assert.Empty(t, resp.Items)
}

func TestUnknownSite(t *testing.T) {
	p := New()
	_, err := p.Usages(context.Background(), "missing", model.UsageQuery{})
	var unknown *ErrUnknownSite
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "missing", unknown.SiteHash)
}

func TestPutCopiesItems(t *testing.T) {
	items := []model.Reading{{Timestamp: 1, Usage: 5}}
	p := New()
	p.Put("abc", Site{Items: items})
	items[0].Usage = 99

	resp, err := p.Usages(context.Background(), "abc", model.UsageQuery{})
	require.NoError(t, err)
	assert.Equal(t, 5.0, resp.Items[0].Usage)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
	_, err = Load(bad)
	assert.Error(t, err)
}

func TestRegisteredFactory(t *testing.T) {
	p, err := provider.New(factory.ModuleConfig{Type: Type, Conf: map[string]any{"path": writeFixture(t)}})
	require.NoError(t, err)
	tz, err := p.Timezone(context.Background(), "abc", nil)
	require.NoError(t, err)
	assert.Equal(t, "Asia/Seoul", tz)
}

const yamlFixture = `sites:
  abc:
    timezone: Asia/Seoul
    items:
      - timestamp: 1506870000000
        usage: 120.5
      - timestamp: 1506870900000
        usage: 0
`

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlFixture), 0o600))
	p, err := Load(path)
	require.NoError(t, err)

	tz, err := p.Timezone(context.Background(), "abc", nil)
	require.NoError(t, err)
	assert.Equal(t, "Asia/Seoul", tz)

	resp, err := p.Usages(context.Background(), "abc", model.UsageQuery{})
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, model.Reading{Timestamp: 1506870000000, Usage: 120.5}, resp.Items[0])
}
