package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/klauspost/compress/zstd"

	"stockreport/internal/core/id"
	"stockreport/internal/domain/reports"
)

// CompressionAlgo specifies how run parameters are stored.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// DefaultCompressThreshold is the parameter size above which parameters
// are stored compressed. Long product lists cross it.
const DefaultCompressThreshold = 4 * 1024

type runRow struct {
	RunID            id.ID           `db:"run_id"`
	ArtifactID       string          `db:"artifact_id"`
	FileName         string          `db:"file_name"`
	UserID           string          `db:"user_id"`
	Login            string          `db:"login"`
	Params           []byte          `db:"params"`
	ParamsCompressed []byte          `db:"params_compressed"`
	CompressionAlgo  CompressionAlgo `db:"compression_algo"`
	Products         int             `db:"products"`
	Months           int             `db:"months"`
	Size             int             `db:"size_bytes"`
	CreatedAt        time.Time       `db:"created_at"`
}

// RunJournal keeps the report_run table.
type RunJournal struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

// NewRunJournal creates a journal. A non-positive threshold selects
// DefaultCompressThreshold.
func NewRunJournal(txManager *TxManager, compressThreshold int) (*RunJournal, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	if compressThreshold <= 0 {
		compressThreshold = DefaultCompressThreshold
	}
	return &RunJournal{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: compressThreshold,
	}, nil
}

// Record inserts a run.
func (j *RunJournal) Record(ctx context.Context, run reports.Run) error {
	row, err := j.encode(run)
	if err != nil {
		return err
	}

	sql := `
		INSERT INTO report_run (
			run_id, artifact_id, file_name, user_id, login,
			params, params_compressed, compression_algo,
			products, months, size_bytes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = j.txManager.GetQuerier(ctx).Exec(ctx, sql,
		row.RunID, row.ArtifactID, row.FileName, row.UserID, row.Login,
		row.Params, row.ParamsCompressed, row.CompressionAlgo,
		row.Products, row.Months, row.Size, row.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert report run: %w", err)
	}
	return nil
}

// Recent returns the latest runs, newest first.
func (j *RunJournal) Recent(ctx context.Context, limit int) ([]reports.Run, error) {
	sql := `
		SELECT run_id, artifact_id, file_name, user_id, login,
			   params, params_compressed, compression_algo,
			   products, months, size_bytes, created_at
		FROM report_run
		ORDER BY created_at DESC, run_id DESC
		LIMIT $1
	`

	var rows []runRow
	if err := pgxscan.Select(ctx, j.txManager.GetQuerier(ctx), &rows, sql, limit); err != nil {
		return nil, fmt.Errorf("query report runs: %w", err)
	}

	runs := make([]reports.Run, 0, len(rows))
	for _, row := range rows {
		run, err := j.decode(row)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

func (j *RunJournal) encode(run reports.Run) (runRow, error) {
	params, err := json.Marshal(run.Params)
	if err != nil {
		return runRow{}, fmt.Errorf("marshal run params: %w", err)
	}

	row := runRow{
		RunID:           run.RunID,
		ArtifactID:      run.ArtifactID,
		FileName:        run.FileName,
		UserID:          run.UserID,
		Login:           run.Login,
		Params:          params,
		CompressionAlgo: CompressionNone,
		Products:        run.Products,
		Months:          run.Months,
		Size:            run.Size,
		CreatedAt:       run.CreatedAt,
	}
	if len(params) > j.compressThreshold {
		row.ParamsCompressed = j.encoder.EncodeAll(params, nil)
		row.Params = nil
		row.CompressionAlgo = CompressionZstd
	}
	return row, nil
}

func (j *RunJournal) decode(row runRow) (reports.Run, error) {
	params := row.Params
	if row.CompressionAlgo == CompressionZstd && len(row.ParamsCompressed) > 0 {
		var err error
		params, err = j.decoder.DecodeAll(row.ParamsCompressed, nil)
		if err != nil {
			return reports.Run{}, fmt.Errorf("decompress run %s params: %w", row.RunID, err)
		}
	}

	run := reports.Run{
		RunID:      row.RunID,
		ArtifactID: row.ArtifactID,
		FileName:   row.FileName,
		UserID:     row.UserID,
		Login:      row.Login,
		Products:   row.Products,
		Months:     row.Months,
		Size:       row.Size,
		CreatedAt:  row.CreatedAt,
	}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &run.Params); err != nil {
			return reports.Run{}, fmt.Errorf("unmarshal run %s params: %w", row.RunID, err)
		}
	}
	return run, nil
}
