package corpus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// sqliteSchema is the single-file corpus artifact layout. idx preserves the
// row alignment between metadata and embeddings that the JSON pair expresses
// through file ordering.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS verses (
	idx INTEGER PRIMARY KEY,
	id TEXT NOT NULL,
	chapter INTEGER NOT NULL,
	verse INTEGER NOT NULL,
	text TEXT NOT NULL,
	translation TEXT NOT NULL,
	transliteration TEXT NOT NULL DEFAULT '',
	word_meanings TEXT NOT NULL DEFAULT '',
	embedding BLOB NOT NULL
);
`

type sqliteRow struct {
	VerseRecord
	Embedding []byte `db:"embedding"`
}

// LoadSQLite builds a store from a SQLite corpus artifact
func LoadSQLite(ctx context.Context, path string) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, "sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open corpus database: %w", err)
	}
	defer db.Close()

	var rows []sqliteRow
	err = db.SelectContext(ctx, &rows, `
		SELECT id, chapter, verse, text, translation, transliteration, word_meanings, embedding
		FROM verses
		ORDER BY idx
	`)
	if err != nil {
		return nil, fmt.Errorf("query corpus database: %w", err)
	}

	records := make([]VerseRecord, len(rows))
	embeddings := make([][]float64, len(rows))
	for i, row := range rows {
		records[i] = row.VerseRecord
		if err := json.Unmarshal(row.Embedding, &embeddings[i]); err != nil {
			return nil, fmt.Errorf("decode embedding for %s: %w", row.ID, err)
		}
	}

	store, err := NewStore(records, embeddings)
	if err != nil {
		return nil, fmt.Errorf("validate corpus database: %w", err)
	}
	return store, nil
}

// SaveSQLite writes records and embeddings into a SQLite corpus artifact,
// replacing any previous contents. Used by the prepare script.
func SaveSQLite(ctx context.Context, path string, records []VerseRecord, embeddings [][]float64) error {
	if len(records) != len(embeddings) {
		return fmt.Errorf("corpus misaligned: %d metadata records but %d embeddings", len(records), len(embeddings))
	}

	db, err := sqlx.ConnectContext(ctx, "sqlite", path)
	if err != nil {
		return fmt.Errorf("open corpus database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("create corpus schema: %w", err)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin corpus write: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM verses`); err != nil {
		return fmt.Errorf("clear corpus: %w", err)
	}

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO verses (idx, id, chapter, verse, text, translation, transliteration, word_meanings, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare corpus insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		blob, err := json.Marshal(embeddings[i])
		if err != nil {
			return fmt.Errorf("encode embedding for %s: %w", r.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, i, r.ID, r.Chapter, r.Verse, r.Text, r.Translation, r.Transliteration, r.WordMeanings, blob); err != nil {
			return fmt.Errorf("insert verse %s: %w", r.ID, err)
		}
	}

	return tx.Commit()
}
