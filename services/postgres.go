// ABOUTME: PostgreSQL backed caller memory store
// ABOUTME: Keeps callers, facts, and notes in tables created on startup

package services

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/markalston/callbridge/models"
)

//go:embed postgres_schema.sql
var schemaSQL string

// PostgresStore implements MemoryStore on a *sql.DB using lib/pq.
type PostgresStore struct {
	db       *sql.DB
	maxFacts int
	now      func() time.Time
}

// NewPostgresStore connects to dsn, checks the connection, and creates
// the schema if it does not exist.
func NewPostgresStore(ctx context.Context, dsn string, maxFacts int) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &PostgresStore{db: db, maxFacts: maxFacts, now: time.Now}, nil
}

// EnsureSchema creates the store's tables. It is idempotent.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

func (p *PostgresStore) AddFact(ctx context.Context, phoneHash, fact, source string) (models.CallerMemory, error) {
	if err := ValidatePhoneHash(phoneHash); err != nil {
		return models.CallerMemory{}, err
	}
	text, err := cleanText(fact)
	if err != nil {
		return models.CallerMemory{}, err
	}

	var mem models.CallerMemory
	err = p.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
            insert into caller_memory (phone_hash) values ($1)
            on conflict (phone_hash) do nothing
        `, phoneHash); err != nil {
			return err
		}
		if err := p.insertFact(ctx, tx, phoneHash, models.Fact{
			Text:      text,
			Source:    source,
			CreatedAt: p.now().UTC(),
		}); err != nil {
			return err
		}
		mem, err = loadMemory(ctx, tx, phoneHash)
		return err
	})
	if err != nil {
		return models.CallerMemory{}, fmt.Errorf("adding fact: %w", err)
	}
	return mem, nil
}

func (p *PostgresStore) GetMemory(ctx context.Context, phoneHash string) (models.CallerMemory, error) {
	if err := ValidatePhoneHash(phoneHash); err != nil {
		return models.CallerMemory{}, err
	}
	mem, err := loadMemory(ctx, p.db, phoneHash)
	if err != nil {
		return models.CallerMemory{}, fmt.Errorf("loading memory: %w", err)
	}
	return mem, nil
}

func (p *PostgresStore) RecordCall(ctx context.Context, phoneHash string, rec models.CallRecord) (models.CallerMemory, error) {
	if err := ValidatePhoneHash(phoneHash); err != nil {
		return models.CallerMemory{}, err
	}

	endedAt := rec.EndedAt
	if endedAt.IsZero() {
		endedAt = p.now()
	}
	endedAt = endedAt.UTC()

	var mem models.CallerMemory
	err := p.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
            insert into caller_memory (phone_hash, call_count, last_call_at, last_call_sid)
            values ($1, 1, $2, $3)
            on conflict (phone_hash) do update
            set call_count = caller_memory.call_count + 1,
                last_call_at = excluded.last_call_at,
                last_call_sid = excluded.last_call_sid
        `, phoneHash, endedAt, stripNUL(rec.CallSID)); err != nil {
			return err
		}
		if summary, err := cleanText(rec.Summary); err == nil {
			if err := p.insertFact(ctx, tx, phoneHash, models.Fact{
				Text:      summary,
				Source:    models.FactSourcePostCall,
				CreatedAt: endedAt,
			}); err != nil {
				return err
			}
		}
		var err error
		mem, err = loadMemory(ctx, tx, phoneHash)
		return err
	})
	if err != nil {
		return models.CallerMemory{}, fmt.Errorf("recording call: %w", err)
	}
	return mem, nil
}

func (p *PostgresStore) AddNote(ctx context.Context, text string) (models.Note, error) {
	text, err := cleanText(text)
	if err != nil {
		return models.Note{}, err
	}

	note := models.Note{
		ID:        uuid.NewString(),
		Text:      text,
		CreatedAt: p.now().UTC(),
	}
	if _, err := p.db.ExecContext(ctx, `
        insert into operator_notes (id, note, created_at) values ($1, $2, $3)
    `, note.ID, note.Text, note.CreatedAt); err != nil {
		return models.Note{}, fmt.Errorf("adding note: %w", err)
	}
	return note, nil
}

func (p *PostgresStore) ListNotes(ctx context.Context) ([]models.Note, error) {
	rows, err := p.db.QueryContext(ctx, `
        select id, note, created_at from operator_notes order by seq
    `)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	defer rows.Close()

	out := []models.Note{}
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.Text, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning note: %w", err)
		}
		n.CreatedAt = n.CreatedAt.UTC()
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	return out, nil
}

func (p *PostgresStore) Close() error {
	return p.db.Close()
}

// insertFact adds f and trims the caller's facts to maxFacts.
func (p *PostgresStore) insertFact(ctx context.Context, tx *sql.Tx, phoneHash string, f models.Fact) error {
	if _, err := tx.ExecContext(ctx, `
        insert into caller_facts (phone_hash, text, source, created_at) values ($1, $2, $3, $4)
    `, phoneHash, f.Text, f.Source, f.CreatedAt); err != nil {
		return err
	}
	if p.maxFacts <= 0 {
		return nil
	}
	_, err := tx.ExecContext(ctx, `
        delete from caller_facts
        where phone_hash = $1
          and id not in (
            select id from caller_facts where phone_hash = $1 order by id desc limit $2
          )
    `, phoneHash, p.maxFacts)
	return err
}

func (p *PostgresStore) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func loadMemory(ctx context.Context, q querier, phoneHash string) (models.CallerMemory, error) {
	mem := emptyMemory(phoneHash)

	var lastCallAt sql.NullTime
	err := q.QueryRowContext(ctx, `
        select call_count, last_call_at, last_call_sid from caller_memory where phone_hash = $1
    `, phoneHash).Scan(&mem.CallCount, &lastCallAt, &mem.LastCallSID)
	if err == sql.ErrNoRows {
		return mem, nil
	}
	if err != nil {
		return models.CallerMemory{}, err
	}
	if lastCallAt.Valid {
		t := lastCallAt.Time.UTC()
		mem.LastCallAt = &t
	}

	rows, err := q.QueryContext(ctx, `
        select text, source, created_at from caller_facts where phone_hash = $1 order by id
    `, phoneHash)
	if err != nil {
		return models.CallerMemory{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var f models.Fact
		if err := rows.Scan(&f.Text, &f.Source, &f.CreatedAt); err != nil {
			return models.CallerMemory{}, err
		}
		f.CreatedAt = f.CreatedAt.UTC()
		mem.Facts = append(mem.Facts, f)
	}
	return mem, rows.Err()
}

var _ MemoryStore = (*PostgresStore)(nil)
