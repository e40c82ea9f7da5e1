package folders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memoryhunter/hunter/internal/memhunter"
)

func denied() *bool {
	f := false
	return &f
}

func seedTree(srvSet func(string, memhunter.BrowseResponse)) {
	srvSet("", memhunter.BrowseResponse{
		IsRoot: true,
		Folders: []memhunter.BrowseEntry{
			{Name: "/", Path: "/", IsFolder: true},
		},
	})
	srvSet("/", memhunter.BrowseResponse{
		CurrentPath: "/",
		Folders: []memhunter.BrowseEntry{
			{Name: "data", Path: "/data", IsFolder: true, ImageCount: 3},
			{Name: "root 🔒", Path: "/root", IsFolder: true, Accessible: denied()},
		},
	})
	srvSet("/data", memhunter.BrowseResponse{
		CurrentPath: "/data",
		ParentPath:  "/",
		Folders: []memhunter.BrowseEntry{
			{Name: "Holiday-2023", Path: "/data/Holiday-2023", IsFolder: true, ImageCount: 120},
			{Name: "holiday-2024", Path: "/data/holiday-2024", IsFolder: true, ImageCount: 80},
			{Name: "scans", Path: "/data/scans", IsFolder: true},
		},
	})
}

func TestBrowser_NavigateSelectConfirm(t *testing.T) {
	c, srv, rec, _ := setup(t)
	seedTree(srv.SetBrowse)
	b := NewBrowser(c)
	ctx := context.Background()

	require.NoError(t, b.Open(ctx))
	v := b.View()
	require.True(t, v.Open)
	assert.True(t, v.IsRoot)
	require.Len(t, v.Entries, 1)

	require.NoError(t, b.Enter(ctx, v.Entries[0]))
	v = b.View()
	assert.Equal(t, "/", v.CurrentPath)
	require.Len(t, v.Entries, 2)

	require.ErrorIs(t, b.Enter(ctx, v.Entries[1]), ErrNotAccessible)
	require.ErrorIs(t, b.Select(v.Entries[1]), ErrNotAccessible)
	assert.Equal(t, "browser.not_accessible", rec.last().Key)
	assert.Equal(t, "/", b.View().CurrentPath)

	require.NoError(t, b.Enter(ctx, v.Entries[0]))
	assert.Equal(t, "/data", b.View().CurrentPath)

	require.NoError(t, b.Select(memhunter.BrowseEntry{Path: "/data/scans"}))
	assert.Equal(t, &Selection{Path: "/data/scans", Name: "scans"}, b.View().Selected)
	b.Rename("Old scans")

	folder, err := b.Confirm(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Old scans", folder.Name)
	assert.False(t, b.View().Open)

	list := c.View().Folders
	require.Len(t, list, 1)
	assert.Equal(t, "/data/scans", list[0].Path)
}

func TestBrowser_ConfirmWithoutSelectionWarns(t *testing.T) {
	c, srv, rec, _ := setup(t)
	seedTree(srv.SetBrowse)
	b := NewBrowser(c)

	require.NoError(t, b.Open(context.Background()))
	_, err := b.Confirm(context.Background())
	require.ErrorIs(t, err, ErrNoSelection)

	n := rec.last()
	assert.Equal(t, "browser.select_first", n.Key)
	assert.Equal(t, 0, srv.Requests("POST /api/folders"))
	assert.True(t, b.View().Open)
}

func TestBrowser_UpWalksToParentAndRoots(t *testing.T) {
	c, srv, _, _ := setup(t)
	seedTree(srv.SetBrowse)
	b := NewBrowser(c)
	ctx := context.Background()

	require.NoError(t, b.Open(ctx))
	require.NoError(t, b.Browse(ctx, "/data"))

	require.NoError(t, b.Up(ctx))
	assert.Equal(t, "/", b.View().CurrentPath)

	require.NoError(t, b.Up(ctx))
	assert.True(t, b.View().IsRoot)

	before := srv.Requests("GET /api/folders/browse")
	require.NoError(t, b.Up(ctx))
	assert.Equal(t, before, srv.Requests("GET /api/folders/browse"))
}

func TestBrowser_BrowseFailureNotifies(t *testing.T) {
	c, srv, rec, _ := setup(t)
	seedTree(srv.SetBrowse)
	b := NewBrowser(c)

	require.Error(t, b.Browse(context.Background(), "/missing"))
	n := rec.last()
	assert.Equal(t, "browser.load_failed", n.Key)
	assert.Equal(t, "路径不存在: /missing", n.Detail)
	assert.Error(t, b.View().Err)
}

func TestBrowser_GlobFilter(t *testing.T) {
	c, srv, _, _ := setup(t)
	seedTree(srv.SetBrowse)
	b := NewBrowser(c)
	ctx := context.Background()
	require.NoError(t, b.Browse(ctx, "/data"))

	require.NoError(t, b.SetFilter("holiday-*"))
	v := b.View()
	assert.Equal(t, 3, v.Total)
	require.Len(t, v.Entries, 2)
	assert.Equal(t, "Holiday-2023", v.Entries[0].Name)

	require.NoError(t, b.SetFilter("{scans,none}"))
	require.Len(t, b.View().Entries, 1)

	require.Error(t, b.SetFilter("[unclosed"))
	assert.Equal(t, "{scans,none}", b.View().Filter)

	require.NoError(t, b.SetFilter(""))
	assert.Len(t, b.View().Entries, 3)
}

func TestBaseName(t *testing.T) {
	cases := map[string]string{
		"/data/photos":     "photos",
		"/data/photos/":    "photos",
		`C:\Users\me\Pics`: "Pics",
		"relative":         "relative",
		"/":                "/",
	}
	for in, want := range cases {
		if got := baseName(in); got != want {
			t.Fatalf("baseName(%q) = %q, want %q", in, got, want)
		}
	}
}
