package embed

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const cacheSchema = `
	CREATE TABLE IF NOT EXISTS embeddings (
		key        TEXT PRIMARY KEY,
		model      TEXT NOT NULL,
		dimension  INTEGER NOT NULL,
		embedding  BLOB NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_embeddings_model ON embeddings(model);
`

// Cache stores embeddings in SQLite keyed by model and text. Misses are
// passed to the wrapped embedder in a single batch.
type Cache struct {
	db    *sql.DB
	model string
	inner Embedder
}

// OpenCache opens or creates the cache database at path. model names the
// wrapped embedder so vectors from different models never mix.
func OpenCache(path, model string, inner Embedder) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open embedding cache: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=10000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init embedding cache schema: %w", err)
	}

	return &Cache{db: db, model: model, inner: inner}, nil
}

// Close closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Key returns the cache key of text under model.
func Key(model, text string) string {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// Embed implements Embedder.
func (c *Cache) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	keys := make([]string, len(texts))

	var missIdx []int
	var missTexts []string
	for i, t := range texts {
		keys[i] = Key(c.model, t)
		vec, ok, err := c.get(ctx, keys[i])
		if err != nil {
			return nil, err
		}
		if ok {
			out[i] = vec
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, t)
	}

	if len(missTexts) == 0 {
		return out, nil
	}

	vecs, err := c.inner.Embed(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if err := checkCount(len(vecs), len(missTexts)); err != nil {
		return nil, err
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin cache write: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	for j, i := range missIdx {
		out[i] = vecs[j]
		_, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO embeddings (key, model, dimension, embedding, created_at) VALUES (?, ?, ?, ?, ?)`,
			keys[i], c.model, len(vecs[j]), SerializeVector(vecs[j]), now)
		if err != nil {
			return nil, fmt.Errorf("store embedding: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit cache write: %w", err)
	}
	return out, nil
}

func (c *Cache) get(ctx context.Context, key string) ([]float32, bool, error) {
	var blob []byte
	err := c.db.QueryRowContext(ctx, `SELECT embedding FROM embeddings WHERE key = ?`, key).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read embedding cache: %w", err)
	}
	return DeserializeVector(blob), true, nil
}

// Len returns the number of cached vectors for the cache's model.
func (c *Cache) Len(ctx context.Context) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM embeddings WHERE model = ?`, c.model).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count cached embeddings: %w", err)
	}
	return n, nil
}
