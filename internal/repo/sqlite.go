package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // registers the pure-Go "sqlite" driver

	"github.com/pkordes/priority-todo/internal/domain"
)

// sqliteTimeLayout matches the strftime default in the SQLite migrations.
const sqliteTimeLayout = "2006-01-02T15:04:05.000Z"

// executor abstracts the sqlx operations shared by *sqlx.DB and *sqlx.Tx,
// the SQLite counterpart of db.
type executor interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// OpenSQLite opens the SQLite database at path with foreign keys enforced.
// Pass ":memory:" for a private in-memory database.
//
// The pool is limited to one connection: SQLite serialises writers anyway,
// and an in-memory database exists only on the connection that created it.
func OpenSQLite(ctx context.Context, path string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("repo.OpenSQLite: open: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("repo.OpenSQLite: ping: %w", err)
	}
	return db, nil
}

// sqliteDSN builds a file: URI for path. The path is percent-escaped so a
// '?' or '#' in a file name cannot cut off the pragma query; SQLite decodes
// the escapes when it opens the file.
func sqliteDSN(path string) string {
	u := url.URL{
		Scheme:   "file",
		Opaque:   (&url.URL{Path: path}).EscapedPath(),
		RawQuery: "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
	}
	return u.String()
}

// NewSQLiteRepos returns SQLite-backed repos sharing the provided executor.
func NewSQLiteRepos(ex executor) Repos {
	return Repos{Lists: NewSQLiteListRepo(ex), Items: NewSQLiteItemRepo(ex)}
}

// --- lists ------------------------------------------------------------------

type listRow struct {
	ID        string `db:"id"`
	CreatedAt string `db:"created_at"`
}

// sqliteListRepo is the SQLite implementation of ListRepo.
type sqliteListRepo struct {
	db executor
}

// NewSQLiteListRepo constructs a ListRepo backed by a *sqlx.DB or *sqlx.Tx.
func NewSQLiteListRepo(ex executor) ListRepo {
	return &sqliteListRepo{db: ex}
}

// Create generates the id client-side; SQLite has no UUID function.
func (r *sqliteListRepo) Create(ctx context.Context) (domain.List, error) {
	row := listRow{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC().Format(sqliteTimeLayout),
	}

	const q = `INSERT INTO lists (id, created_at) VALUES (?, ?)`
	if _, err := r.db.ExecContext(ctx, q, row.ID, row.CreatedAt); err != nil {
		return domain.List{}, fmt.Errorf("repo.SQLiteListRepo.Create: %w", err)
	}

	result, err := row.toDomain()
	if err != nil {
		return domain.List{}, fmt.Errorf("repo.SQLiteListRepo.Create: %w", err)
	}
	return result, nil
}

func (r *sqliteListRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.List, error) {
	const q = `SELECT id, created_at FROM lists WHERE id = ?`

	var row listRow
	if err := r.db.GetContext(ctx, &row, q, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = domain.ErrNotFound
		}
		return domain.List{}, fmt.Errorf("repo.SQLiteListRepo.GetByID: %w", err)
	}

	result, err := row.toDomain()
	if err != nil {
		return domain.List{}, fmt.Errorf("repo.SQLiteListRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *sqliteListRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT count(*) FROM lists`); err != nil {
		return 0, fmt.Errorf("repo.SQLiteListRepo.Count: %w", err)
	}
	return n, nil
}

func (row listRow) toDomain() (domain.List, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return domain.List{}, fmt.Errorf("parse id %q: %w", row.ID, err)
	}
	created, err := time.Parse(time.RFC3339Nano, row.CreatedAt)
	if err != nil {
		return domain.List{}, fmt.Errorf("parse created_at %q: %w", row.CreatedAt, err)
	}
	return domain.List{ID: id, CreatedAt: created}, nil
}

// --- items ------------------------------------------------------------------

type itemRow struct {
	ID        string `db:"id"`
	ListID    string `db:"list_id"`
	Text      string `db:"text"`
	Position  int64  `db:"position"`
	CreatedAt string `db:"created_at"`
}

// sqliteItemRepo is the SQLite implementation of ItemRepo.
type sqliteItemRepo struct {
	db executor
}

// NewSQLiteItemRepo constructs an ItemRepo backed by a *sqlx.DB or *sqlx.Tx.
func NewSQLiteItemRepo(ex executor) ItemRepo {
	return &sqliteItemRepo{db: ex}
}

// Create inserts through a SELECT on lists so a missing parent affects zero
// rows. The new row's seq is the rowid, which bounds the position count.
func (r *sqliteItemRepo) Create(ctx context.Context, listID uuid.UUID, text string) (domain.Item, error) {
	row := itemRow{
		ID:        uuid.NewString(),
		ListID:    listID.String(),
		Text:      text,
		CreatedAt: time.Now().UTC().Format(sqliteTimeLayout),
	}

	const insert = `
		INSERT INTO items (id, list_id, text, created_at)
		SELECT ?, id, ?, ? FROM lists WHERE id = ?`

	res, err := r.db.ExecContext(ctx, insert, row.ID, row.Text, row.CreatedAt, row.ListID)
	if err != nil {
		return domain.Item{}, fmt.Errorf("repo.SQLiteItemRepo.Create: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.Item{}, fmt.Errorf("repo.SQLiteItemRepo.Create: rows affected: %w", err)
	}
	if n == 0 {
		return domain.Item{}, fmt.Errorf("repo.SQLiteItemRepo.Create: %w", domain.ErrNotFound)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return domain.Item{}, fmt.Errorf("repo.SQLiteItemRepo.Create: last insert id: %w", err)
	}

	const position = `SELECT count(*) FROM items WHERE list_id = ? AND seq <= ?`
	if err := r.db.GetContext(ctx, &row.Position, position, row.ListID, seq); err != nil {
		return domain.Item{}, fmt.Errorf("repo.SQLiteItemRepo.Create: position: %w", err)
	}

	result, err := row.toDomain()
	if err != nil {
		return domain.Item{}, fmt.Errorf("repo.SQLiteItemRepo.Create: %w", err)
	}
	return result, nil
}

func (r *sqliteItemRepo) ListByList(ctx context.Context, listID uuid.UUID) ([]domain.Item, error) {
	const q = `
		SELECT id, list_id, text,
		       row_number() OVER (ORDER BY seq) AS position,
		       created_at
		FROM items
		WHERE list_id = ?
		ORDER BY seq`

	var rows []itemRow
	if err := r.db.SelectContext(ctx, &rows, q, listID.String()); err != nil {
		return nil, fmt.Errorf("repo.SQLiteItemRepo.ListByList: %w", err)
	}

	items := make([]domain.Item, 0, len(rows))
	for _, row := range rows {
		it, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("repo.SQLiteItemRepo.ListByList: %w", err)
		}
		items = append(items, it)
	}
	return items, nil
}

func (r *sqliteItemRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT count(*) FROM items`); err != nil {
		return 0, fmt.Errorf("repo.SQLiteItemRepo.Count: %w", err)
	}
	return n, nil
}

func (row itemRow) toDomain() (domain.Item, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return domain.Item{}, fmt.Errorf("parse id %q: %w", row.ID, err)
	}
	listID, err := uuid.Parse(row.ListID)
	if err != nil {
		return domain.Item{}, fmt.Errorf("parse list_id %q: %w", row.ListID, err)
	}
	created, err := time.Parse(time.RFC3339Nano, row.CreatedAt)
	if err != nil {
		return domain.Item{}, fmt.Errorf("parse created_at %q: %w", row.CreatedAt, err)
	}
	return domain.Item{
		ID:        id,
		ListID:    listID,
		Text:      row.Text,
		Position:  int(row.Position),
		CreatedAt: created,
	}, nil
}

// --- transactions -----------------------------------------------------------

// sqliteTxRunner is the SQLite implementation of TxRunner.
type sqliteTxRunner struct {
	db *sqlx.DB
}

// NewSQLiteTxRunner constructs a TxRunner that opens transactions on db.
func NewSQLiteTxRunner(db *sqlx.DB) TxRunner {
	return &sqliteTxRunner{db: db}
}

func (r *sqliteTxRunner) RunInTx(ctx context.Context, fn func(Repos) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("repo.SQLiteTxRunner.RunInTx: begin: %w", err)
	}
	// Also runs when fn panics; the pool holds a single connection, so an
	// abandoned transaction would block every later query. After Commit
	// it is a no-op returning sql.ErrTxDone.
	defer func() { _ = tx.Rollback() }()

	if err := fn(NewSQLiteRepos(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("repo.SQLiteTxRunner.RunInTx: commit: %w", err)
	}
	return nil
}
