package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memoryhunter/hunter/internal/notify"
)

func envFrom(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestDetect(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want Lang
	}{
		{"empty", nil, Chinese},
		{"english utf8", map[string]string{"LANG": "en_US.UTF-8"}, English},
		{"british", map[string]string{"LANG": "en_GB"}, English},
		{"chinese", map[string]string{"LANG": "zh_CN.UTF-8"}, Chinese},
		{"lc_all wins", map[string]string{"LC_ALL": "en_US.UTF-8", "LANG": "zh_CN.UTF-8"}, English},
		{"posix skipped", map[string]string{"LC_ALL": "C", "LANG": "en_US"}, English},
		{"unsupported falls back", map[string]string{"LANG": "de_DE.UTF-8"}, Chinese},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Detect(envFrom(tc.env)))
		})
	}
}

func TestParseLang(t *testing.T) {
	l, ok := ParseLang(" EN ")
	require.True(t, ok)
	assert.Equal(t, English, l)
	_, ok = ParseLang("fr")
	assert.False(t, ok)
}

func TestBundle_TranslateAndFallback(t *testing.T) {
	b := NewBundle(Chinese)
	assert.Equal(t, "连接失败", b.T("status.connection_failed"))
	assert.Equal(t, "索引中 3/9", b.T("index.progress", "3/9"))
	assert.Equal(t, "no.such.key", b.T("no.such.key"))

	b.Set(English)
	assert.Equal(t, "Connection failed", b.T("status.connection_failed"))

	assert.Equal(t, Default, NewBundle("xx").Lang())
}

func TestBundle_ToggleBroadcasts(t *testing.T) {
	b := NewBundle(Chinese)
	var seen []Lang
	unsubscribe := b.Subscribe(func(l Lang) { seen = append(seen, l) })

	assert.Equal(t, English, b.Toggle())
	assert.Equal(t, Chinese, b.Toggle())
	b.Set(Chinese)
	assert.Equal(t, []Lang{English, Chinese}, seen)

	unsubscribe()
	b.Toggle()
	assert.Len(t, seen, 2)
}

func TestBundle_Notice(t *testing.T) {
	b := NewBundle(Chinese)

	n := notify.Notice{Level: notify.Error, Key: "index.start_failed", Detail: "disk full"}
	assert.Equal(t, "索引启动失败: disk full", b.Notice(n))

	n = notify.Notice{Level: notify.Error, Key: "search.failed", Generic: true, Cause: notify.CauseNetwork}
	assert.Equal(t, "搜索失败: 网络请求失败", b.Notice(n))

	n = notify.Notice{Level: notify.Error, Key: "search.failed", Generic: true, Cause: notify.CauseResponse}
	assert.Equal(t, "搜索失败: 服务器响应无法解析", b.Notice(n))

	b.Set(English)
	n = notify.Notice{Level: notify.Error, Key: "search.failed", Generic: true, Cause: notify.CauseStatus, Status: 502}
	assert.Equal(t, "Search failed: server returned 502", b.Notice(n))

	n = notify.Notice{Level: notify.Error, Key: "search.failed", Generic: true, Cause: notify.CauseResponse}
	assert.Equal(t, "Search failed: unreadable response from server", b.Notice(n))

	n = notify.Notice{Level: notify.Error, Key: "search.failed", Generic: true}
	assert.Equal(t, "Search failed: request failed", b.Notice(n))

	n = notify.Message(notify.Success, "folders.scanned", 42)
	assert.Equal(t, "Scan finished: 42 valid images", b.Notice(n))
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	for key := range catalogs[Chinese] {
		_, ok := catalogs[English][key]
		assert.True(t, ok, "english catalog missing %q", key)
	}
	for key := range catalogs[English] {
		_, ok := catalogs[Chinese][key]
		assert.True(t, ok, "chinese catalog missing %q", key)
	}
}
