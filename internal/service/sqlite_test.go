package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/pkordes/priority-todo/internal/repo"
	"github.com/pkordes/priority-todo/internal/service"
	"github.com/pkordes/priority-todo/testutil"
)

// newSQLiteService wires a ListService to a real in-memory SQLite store.
func newSQLiteService(t *testing.T) (*service.ListService, repo.Repos) {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	repos := repo.NewSQLiteRepos(db)
	return service.NewListService(repos, repo.NewSQLiteTxRunner(db)), repos
}

// TestListService_NewList_CreatesOneListAndOneItem checks that, for any
// non-blank text, NewList adds exactly one list and one item, and the item
// belongs to the returned list.
func TestListService_NewList_CreatesOneListAndOneItem(t *testing.T) {
	svc, repos := newSQLiteService(t)
	ctx := context.Background()

	rapid.Check(t, func(rt *rapid.T) {
		text := rapid.StringMatching(`[A-Za-z0-9][A-Za-z0-9 ]{0,40}`).Draw(rt, "text")

		listsBefore, _ := repos.Lists.Count(ctx)
		itemsBefore, _ := repos.Items.Count(ctx)

		l, err := svc.NewList(ctx, text)
		if err != nil {
			rt.Fatalf("NewList: %v", err)
		}

		listsAfter, _ := repos.Lists.Count(ctx)
		itemsAfter, _ := repos.Items.Count(ctx)
		if listsAfter != listsBefore+1 || itemsAfter != itemsBefore+1 {
			rt.Fatalf("lists %d->%d items %d->%d", listsBefore, listsAfter, itemsBefore, itemsAfter)
		}

		_, items, err := svc.GetList(ctx, l.ID)
		if err != nil {
			rt.Fatalf("GetList: %v", err)
		}
		if len(items) != 1 || items[0].Text != text || items[0].ListID != l.ID {
			rt.Fatalf("unexpected items %+v", items)
		}
	})
}

func TestListService_BlankNewList_WritesNothing(t *testing.T) {
	svc, repos := newSQLiteService(t)
	ctx := context.Background()

	_, err := svc.NewList(ctx, "")
	require.Error(t, err)

	lists, err := repos.Lists.Count(ctx)
	require.NoError(t, err)
	items, err := repos.Items.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, lists)
	assert.Zero(t, items)
}
