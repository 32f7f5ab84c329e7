package repo_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/pkordes/priority-todo/internal/domain"
	"github.com/pkordes/priority-todo/internal/repo"
	"github.com/pkordes/priority-todo/testutil"
)

// backend opens a fresh, isolated store for one test.
type backend struct {
	name string
	open func(t *testing.T) (repo.Repos, repo.TxRunner)
}

var backends = []backend{
	{name: "postgres", open: openPostgres},
	{name: "sqlite", open: openSQLite},
}

// openPostgres opens a transaction against the test database and returns repos
// backed by that transaction. The transaction is automatically rolled back when
// the test finishes, giving free per-test isolation.
//
// Requires TEST_DATABASE_URL; the subtest is skipped otherwise.
func openPostgres(t *testing.T) (repo.Repos, repo.TxRunner) {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		// Rollback discards all changes made during the test, so no cleanup SQL is needed.
		_ = tx.Rollback(context.Background())
	})

	return repo.NewRepos(tx), repo.NewTxRunner(tx)
}

// openSQLite returns repos over a private in-memory database.
func openSQLite(t *testing.T) (repo.Repos, repo.TxRunner) {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	return repo.NewSQLiteRepos(db), repo.NewSQLiteTxRunner(db)
}

// eachBackend runs fn as a subtest against every backend.
func eachBackend(t *testing.T, fn func(t *testing.T, r repo.Repos, tx repo.TxRunner)) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			r, tx := b.open(t)
			fn(t, r, tx)
		})
	}
}

// mustCreateList inserts a list and fails the test if the insert does not succeed.
func mustCreateList(t *testing.T, r repo.Repos) domain.List {
	t.Helper()
	l, err := r.Lists.Create(context.Background())
	require.NoError(t, err, "create list")
	return l
}

// mustAddItems appends texts to the list in order.
func mustAddItems(t *testing.T, r repo.Repos, listID uuid.UUID, texts ...string) {
	t.Helper()
	for _, text := range texts {
		_, err := r.Items.Create(context.Background(), listID, text)
		require.NoError(t, err, "create item %q", text)
	}
}

func itemTexts(items []domain.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Text)
	}
	return out
}

// ---- lists -----------------------------------------------------------------

func TestListRepo_Create(t *testing.T) {
	eachBackend(t, func(t *testing.T, r repo.Repos, _ repo.TxRunner) {
		got, err := r.Lists.Create(context.Background())

		require.NoError(t, err)
		assert.NotEqual(t, uuid.UUID{}, got.ID, "ID should be generated")
		assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be set")
	})
}

func TestListRepo_Create_UniqueIDs(t *testing.T) {
	eachBackend(t, func(t *testing.T, r repo.Repos, _ repo.TxRunner) {
		a := mustCreateList(t, r)
		b := mustCreateList(t, r)

		assert.NotEqual(t, a.ID, b.ID)
	})
}

func TestListRepo_GetByID(t *testing.T) {
	eachBackend(t, func(t *testing.T, r repo.Repos, _ repo.TxRunner) {
		created := mustCreateList(t, r)

		got, err := r.Lists.GetByID(context.Background(), created.ID)

		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
	})
}

func TestListRepo_GetByID_NotFound(t *testing.T) {
	eachBackend(t, func(t *testing.T, r repo.Repos, _ repo.TxRunner) {
		_, err := r.Lists.GetByID(context.Background(), uuid.New())

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestListRepo_Count(t *testing.T) {
	eachBackend(t, func(t *testing.T, r repo.Repos, _ repo.TxRunner) {
		ctx := context.Background()
		before, err := r.Lists.Count(ctx)
		require.NoError(t, err)

		mustCreateList(t, r)
		mustCreateList(t, r)

		after, err := r.Lists.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, before+2, after)
	})
}

// ---- items -----------------------------------------------------------------

func TestItemRepo_Create(t *testing.T) {
	eachBackend(t, func(t *testing.T, r repo.Repos, _ repo.TxRunner) {
		parent := mustCreateList(t, r)

		got, err := r.Items.Create(context.Background(), parent.ID, "The first (ever) list item")

		require.NoError(t, err)
		assert.NotEqual(t, uuid.UUID{}, got.ID)
		assert.Equal(t, parent.ID, got.ListID)
		assert.Equal(t, "The first (ever) list item", got.Text)
		assert.Equal(t, 1, got.Position)
		assert.False(t, got.CreatedAt.IsZero())
	})
}

func TestItemRepo_Create_PositionFollowsInsertionOrder(t *testing.T) {
	eachBackend(t, func(t *testing.T, r repo.Repos, _ repo.TxRunner) {
		ctx := context.Background()
		a := mustCreateList(t, r)
		b := mustCreateList(t, r)

		first, err := r.Items.Create(ctx, a.ID, "first")
		require.NoError(t, err)
		other, err := r.Items.Create(ctx, b.ID, "other")
		require.NoError(t, err)
		second, err := r.Items.Create(ctx, a.ID, "second")
		require.NoError(t, err)

		assert.Equal(t, 1, first.Position)
		assert.Equal(t, 1, other.Position, "positions are per list")
		assert.Equal(t, 2, second.Position)
	})
}

func TestItemRepo_Create_ListNotFound(t *testing.T) {
	eachBackend(t, func(t *testing.T, r repo.Repos, _ repo.TxRunner) {
		ctx := context.Background()
		before, err := r.Items.Count(ctx)
		require.NoError(t, err)

		_, err = r.Items.Create(ctx, uuid.New(), "orphan")

		assert.ErrorIs(t, err, domain.ErrNotFound)
		after, err := r.Items.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, after, "no item should be stored")
	})
}

func TestItemRepo_ListByList(t *testing.T) {
	eachBackend(t, func(t *testing.T, r repo.Repos, _ repo.TxRunner) {
		correct := mustCreateList(t, r)
		other := mustCreateList(t, r)
		mustAddItems(t, r, correct.ID, "Item 1")
		mustAddItems(t, r, other.ID, "Other list item 1")
		mustAddItems(t, r, correct.ID, "Item 2")
		mustAddItems(t, r, other.ID, "Other list item 2")

		got, err := r.Items.ListByList(context.Background(), correct.ID)

		require.NoError(t, err)
		if diff := cmp.Diff([]string{"Item 1", "Item 2"}, itemTexts(got)); diff != "" {
			t.Errorf("items mismatch (-want +got):\n%s", diff)
		}
		for i, it := range got {
			assert.Equal(t, correct.ID, it.ListID)
			assert.Equal(t, i+1, it.Position)
		}
	})
}

func TestItemRepo_ListByList_Empty(t *testing.T) {
	eachBackend(t, func(t *testing.T, r repo.Repos, _ repo.TxRunner) {
		parent := mustCreateList(t, r)

		got, err := r.Items.ListByList(context.Background(), parent.ID)

		require.NoError(t, err)
		assert.NotNil(t, got, "should return empty slice, not nil")
		assert.Len(t, got, 0)
	})
}

// ---- transactions ----------------------------------------------------------

func TestTxRunner_Commit(t *testing.T) {
	eachBackend(t, func(t *testing.T, r repo.Repos, tx repo.TxRunner) {
		ctx := context.Background()
		var created domain.List

		err := tx.RunInTx(ctx, func(txr repo.Repos) error {
			l, err := txr.Lists.Create(ctx)
			if err != nil {
				return err
			}
			created = l
			_, err = txr.Items.Create(ctx, l.ID, "A new list item")
			return err
		})
		require.NoError(t, err)

		items, err := r.Items.ListByList(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"A new list item"}, itemTexts(items))
	})
}

func TestTxRunner_Rollback(t *testing.T) {
	eachBackend(t, func(t *testing.T, r repo.Repos, tx repo.TxRunner) {
		ctx := context.Background()
		boom := errors.New("boom")
		var created domain.List

		err := tx.RunInTx(ctx, func(txr repo.Repos) error {
			l, err := txr.Lists.Create(ctx)
			if err != nil {
				return err
			}
			created = l
			return boom
		})
		require.ErrorIs(t, err, boom)

		_, err = r.Lists.GetByID(ctx, created.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound, "list should be rolled back")
	})
}

func TestTxRunner_PanicRollsBackAndReleasesStore(t *testing.T) {
	eachBackend(t, func(t *testing.T, r repo.Repos, tx repo.TxRunner) {
		var created domain.List

		func() {
			defer func() {
				require.NotNil(t, recover(), "fn should have panicked")
			}()
			_ = tx.RunInTx(context.Background(), func(txr repo.Repos) error {
				l, err := txr.Lists.Create(context.Background())
				require.NoError(t, err)
				created = l
				panic("handler bug")
			})
		}()

		// A transaction left open would hold the only SQLite connection, so
		// this lookup would block until the deadline.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		_, err := r.Lists.Count(ctx)
		require.NoError(t, err)
		_, err = r.Lists.GetByID(ctx, created.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound, "list should be rolled back")
	})
}

// ---- opening SQLite --------------------------------------------------------

func TestOpenSQLite_PathWithURIDelimiters(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "lists?v=1#main.db")

	db, err := repo.OpenSQLite(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var foreignKeys int
	require.NoError(t, db.GetContext(ctx, &foreignKeys, `PRAGMA foreign_keys`))
	assert.Equal(t, 1, foreignKeys, "pragmas must survive '?' and '#' in the path")

	_, err = db.ExecContext(ctx, `CREATE TABLE touch (id INTEGER)`)
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.NoError(t, err, "database file is created under the exact name")
}

// ---- properties ------------------------------------------------------------

// TestItemRepo_OrderingProperty checks against SQLite that, for any sequence of
// submissions to a list, ListByList returns exactly those texts in submission
// order with positions 1..n, and never leaks items from a sibling list.
func TestItemRepo_OrderingProperty(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	r := repo.NewSQLiteRepos(db)
	ctx := context.Background()

	rapid.Check(t, func(rt *rapid.T) {
		texts := rapid.SliceOfN(rapid.StringMatching(`[A-Za-z0-9 ]{1,40}`), 0, 15).Draw(rt, "texts")
		noise := rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,10}`), 0, 5).Draw(rt, "noise")

		target, err := r.Lists.Create(ctx)
		if err != nil {
			rt.Fatalf("create list: %v", err)
		}
		sibling, err := r.Lists.Create(ctx)
		if err != nil {
			rt.Fatalf("create sibling: %v", err)
		}

		for i, text := range texts {
			if _, err := r.Items.Create(ctx, target.ID, text); err != nil {
				rt.Fatalf("create item: %v", err)
			}
			if i < len(noise) {
				if _, err := r.Items.Create(ctx, sibling.ID, noise[i]); err != nil {
					rt.Fatalf("create noise: %v", err)
				}
			}
		}

		got, err := r.Items.ListByList(ctx, target.ID)
		if err != nil {
			rt.Fatalf("list items: %v", err)
		}
		if diff := cmp.Diff(texts, itemTexts(got), cmpopts.EquateEmpty()); diff != "" {
			rt.Fatalf("order mismatch (-want +got):\n%s", diff)
		}
		for i, it := range got {
			if it.Position != i+1 || it.ListID != target.ID {
				rt.Fatalf("item %d: position=%d list=%s", i, it.Position, it.ListID)
			}
		}
	})
}
