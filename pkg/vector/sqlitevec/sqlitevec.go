// Package sqlitevec provides a SQLite-backed vector index using sqlite-vec.
//
// The vec0 virtual table is created with cosine distance; query scores are
// reported as similarity (1 - distance). The database defaults to ":memory:"
// so the index lives and dies with the process; a file path is accepted but
// durability is not part of the index contract.
package sqlitevec

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"

	"github.com/reelstack/reelqa/pkg/chunk"
	"github.com/reelstack/reelqa/pkg/vector"
)

// Index implements vector.Index on SQLite with the sqlite-vec extension.
type Index struct {
	db     *sql.DB
	dim    int
	logger *slog.Logger
}

// Config holds configuration for the sqlite-vec index.
type Config struct {
	// DBPath is the path to the SQLite database file.
	// Defaults to ":memory:" when empty.
	DBPath string

	// Dimensions is the embedding dimensionality. Required: the vec0
	// virtual table needs a fixed vector width at creation time.
	Dimensions uint
}

// New creates a sqlite-vec backed index.
func New(c Config, logger *slog.Logger) (*Index, error) {
	// enable connection to have sqlite-vec extension
	sqlite_vec.Auto()

	if logger == nil {
		logger = slog.Default()
	}

	dbPath := c.DBPath
	if dbPath == "" {
		dbPath = ":memory:"
	}

	if c.Dimensions == 0 {
		return nil, fmt.Errorf("sqlite-vec embedding dimensions cannot be 0, must be configured")
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Verify sqlite-vec is loaded
	var vecVersion string
	if err := db.QueryRow("SELECT vec_version()").Scan(&vecVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite-vec not available: %w", err)
	}

	// Chunk payloads live in a plain table keyed by rowid; the vec0 table
	// shares the same rowids for embeddings.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS chunks (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			text TEXT NOT NULL,
			ordinal INTEGER NOT NULL,
			source_offset INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating chunks table: %w", err)
	}

	createVec := fmt.Sprintf(
		`CREATE VIRTUAL TABLE IF NOT EXISTS chunk_embeddings USING vec0(embedding float[%d] distance_metric=cosine)`,
		c.Dimensions,
	)
	if _, err := db.Exec(createVec); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating vec0 table: %w", err)
	}

	logger.Info("sqlite-vec index initialized",
		"db_path", dbPath,
		"dimensions", c.Dimensions,
		"vec_version", vecVersion,
	)

	return &Index{
		db:     db,
		dim:    int(c.Dimensions),
		logger: logger,
	}, nil
}

// serializeFloat32 converts a float32 slice to the little-endian BLOB
// format sqlite-vec expects.
func serializeFloat32(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// Insert stores one vector with its payload and returns the assigned ID.
func (x *Index) Insert(ctx context.Context, vec []float32, payload chunk.Chunk) (int64, error) {
	ids, err := x.InsertBatch(ctx, [][]float32{vec}, []chunk.Chunk{payload})
	if err != nil {
		return 0, err
	}
	return ids[0], nil
}

// InsertBatch inserts vectors and payloads pairwise inside one transaction,
// so a failure mid-batch leaves nothing behind.
func (x *Index) InsertBatch(ctx context.Context, vecs [][]float32, payloads []chunk.Chunk) ([]int64, error) {
	if len(vecs) != len(payloads) {
		return nil, fmt.Errorf("vectors and payloads length mismatch: %d != %d", len(vecs), len(payloads))
	}
	for i, v := range vecs {
		if len(v) != x.dim {
			return nil, fmt.Errorf("%w: vector %d has %d dimensions, index has %d",
				vector.ErrDimensionMismatch, i, len(v), x.dim)
		}
	}

	tx, err := x.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	ids := make([]int64, 0, len(vecs))
	for i := range vecs {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO chunks(text, ordinal, source_offset) VALUES (?, ?, ?)`,
			payloads[i].Text, payloads[i].Ordinal, payloads[i].SourceOffset,
		)
		if err != nil {
			return nil, fmt.Errorf("inserting chunk %d: %w", i, err)
		}

		rowID, err := result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("getting rowid for chunk %d: %w", i, err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO chunk_embeddings(rowid, embedding) VALUES (?, ?)`,
			rowID, serializeFloat32(vecs[i]),
		); err != nil {
			return nil, fmt.Errorf("inserting embedding for chunk %d: %w", i, err)
		}

		ids = append(ids, rowID)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	x.logger.Debug("inserted chunks into sqlite-vec", "count", len(ids))
	return ids, nil
}

// Query returns the min(k, Count) nearest entries by cosine similarity,
// ties broken by ascending rowid.
func (x *Index) Query(ctx context.Context, vec []float32, k int) ([]vector.Result, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: got %d", vector.ErrInvalidK, k)
	}
	if len(vec) != x.dim {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			vector.ErrDimensionMismatch, len(vec), x.dim)
	}

	// KNN via vec0 MATCH, joined back to the payload table.
	rows, err := x.db.QueryContext(ctx, `
		SELECT
			c.rowid,
			c.text,
			c.ordinal,
			c.source_offset,
			ce.distance
		FROM chunk_embeddings ce
		INNER JOIN chunks c ON c.rowid = ce.rowid
		WHERE ce.embedding MATCH ?
			AND ce.k = ?
		ORDER BY ce.distance, c.rowid
	`, serializeFloat32(vec), k)
	if err != nil {
		return nil, fmt.Errorf("querying vectors: %w", err)
	}
	defer rows.Close()

	results := []vector.Result{}
	for rows.Next() {
		var (
			id       int64
			payload  chunk.Chunk
			distance float64
		)
		if err := rows.Scan(&id, &payload.Text, &payload.Ordinal, &payload.SourceOffset, &distance); err != nil {
			return nil, fmt.Errorf("scanning query result: %w", err)
		}

		results = append(results, vector.Result{
			Entry: vector.Entry{ID: id, Payload: payload},
			// Cosine distance to similarity.
			Score: float32(1.0 - distance),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating query results: %w", err)
	}

	x.logger.Debug("queried sqlite-vec", "results", len(results))
	return results, nil
}

// Count reports the number of stored entries.
func (x *Index) Count(ctx context.Context) (int, error) {
	var count int
	if err := x.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return count, nil
}

// Clear removes all entries. Assigned IDs keep increasing afterwards.
func (x *Index) Clear(ctx context.Context) error {
	tx, err := x.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chunk_embeddings`); err != nil {
		return fmt.Errorf("clearing embeddings: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks`); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}

	return tx.Commit()
}

// Close closes the underlying database.
func (x *Index) Close() error {
	return x.db.Close()
}

var _ vector.Index = (*Index)(nil)
