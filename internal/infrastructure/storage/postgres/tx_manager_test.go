package postgres

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestQuoteLiteral(t *testing.T) {
	assert.Equal(t, "'00000003-0000001B-1'", quoteLiteral("00000003-0000001B-1"))
	assert.Equal(t, "'a''b'", quoteLiteral("a'b"))
}

func TestSnapshotTxOptions(t *testing.T) {
	opts := SnapshotTxOptions(time.Minute)
	assert.Equal(t, pgx.RepeatableRead, opts.IsolationLevel)
	assert.Equal(t, pgx.ReadOnly, opts.AccessMode)
	assert.Equal(t, time.Minute, opts.StatementTimeout)
	assert.Empty(t, opts.SnapshotID)
}

func TestMigrationVersions(t *testing.T) {
	versions, err := migrationVersions(migrationFiles)
	assert.NoError(t, err)
	assert.Equal(t, []string{"0001_stock_schema.sql", "0002_report_indexes.sql", "0003_report_run.sql"}, versions)
}
