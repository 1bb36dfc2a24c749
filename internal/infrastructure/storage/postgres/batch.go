package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Table is a set of rows for one bulk load.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]any
}

// BatchInserter bulk loads tables with the COPY protocol. It needs the
// transaction in context so a failed load leaves nothing behind.
type BatchInserter struct {
	txManager *TxManager
}

// NewBatchInserter creates a new batch inserter.
func NewBatchInserter(txManager *TxManager) *BatchInserter {
	return &BatchInserter{txManager: txManager}
}

// Copy loads tables in order and returns the number of rows per table.
func (b *BatchInserter) Copy(ctx context.Context, tables []Table) (map[string]int64, error) {
	tx := TxFromContext(ctx)
	if tx == nil {
		return nil, fmt.Errorf("copy: %w", ErrNoTransaction)
	}

	counts := make(map[string]int64, len(tables))
	for _, t := range tables {
		if len(t.Rows) == 0 {
			continue
		}
		n, err := tx.CopyFrom(ctx, pgx.Identifier{t.Name}, t.Columns, pgx.CopyFromRows(t.Rows))
		if err != nil {
			return nil, fmt.Errorf("copy %s: %w", t.Name, err)
		}
		counts[t.Name] = n
	}
	return counts, nil
}

// ResetSequences moves the id sequence of each table past its largest id,
// in one round-trip. Needed after loading rows with explicit ids.
func (b *BatchInserter) ResetSequences(ctx context.Context, tables []string) error {
	tx := TxFromContext(ctx)
	if tx == nil {
		return fmt.Errorf("reset sequences: %w", ErrNoTransaction)
	}

	batch := &pgx.Batch{}
	for _, name := range tables {
		batch.Queue(
			"SELECT setval(pg_get_serial_sequence($1, 'id'), COALESCE(MAX(id), 0) + 1, false) FROM "+pgx.Identifier{name}.Sanitize(),
			name,
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for _, name := range tables {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("reset sequence of %s: %w", name, err)
		}
	}
	return nil
}
