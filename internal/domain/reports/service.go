package reports

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"stockreport/internal/core/apperror"
	appctx "stockreport/internal/core/context"
	"stockreport/internal/core/id"
	"stockreport/internal/domain/period"
	"stockreport/pkg/logger"
)

var tracer = otel.Tracer("stockreport/reports")

// Result describes a generated report file.
type Result struct {
	RunID      id.ID     `json:"runId"`
	ArtifactID string    `json:"artifactId"`
	FileName   string    `json:"fileName"`
	URL        string    `json:"url"`
	Size       int       `json:"size"`
	Products   int       `json:"products"`
	Months     int       `json:"months"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Service runs the stock movement report.
type Service struct {
	store     Store
	renderer  Renderer
	artifacts ArtifactStore
	assembler *Assembler
	journal   Journal
	now       func() time.Time
}

// NewService creates a report service. A nil renderer makes Generate fail
// with RENDERER_UNAVAILABLE; Preview keeps working.
func NewService(store Store, renderer Renderer, artifacts ArtifactStore, assembler *Assembler) *Service {
	if assembler == nil {
		assembler = NewAssembler(1)
	}
	return &Service{
		store:     store,
		renderer:  renderer,
		artifacts: artifacts,
		assembler: assembler,
		now:       time.Now,
	}
}

// WithJournal makes Generate record every stored report in j.
func (s *Service) WithJournal(j Journal) *Service {
	s.journal = j
	return s
}

// Defaults returns the request the wizard starts from.
func (s *Service) Defaults() Request {
	return DefaultRequest(s.now())
}

// Preview validates the request and computes the matrix without rendering.
func (s *Service) Preview(ctx context.Context, req Request) (*Matrix, error) {
	ctx, span := s.startSpan(ctx, "reports.preview", req)
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	m, err := s.build(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return m, nil
}

// Generate computes the report, renders the spreadsheet and stores it for
// download. Nothing is stored unless every step succeeds.
func (s *Service) Generate(ctx context.Context, req Request) (*Result, error) {
	ctx, span := s.startSpan(ctx, "reports.generate", req)
	defer span.End()

	runID := id.New()
	ctx = logger.WithFields(logger.WithComponent(ctx, "reports"), "run_id", runID.String())
	started := s.now()

	res, err := s.generate(ctx, req, runID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		code := apperror.CodeInternal
		if appErr, ok := apperror.AsAppError(err); ok {
			code = appErr.Code
		}
		logger.Error(ctx, "stock movement report failed", "code", code, "error", err)
		return nil, err
	}

	s.record(ctx, req, res)

	logger.Info(ctx, "stock movement report generated",
		"file", res.FileName,
		"bytes", res.Size,
		"artifact_id", res.ArtifactID,
		"duration", s.now().Sub(started),
	)
	return res, nil
}

func (s *Service) generate(ctx context.Context, req Request, runID id.ID) (*Result, error) {
	if s.renderer == nil {
		return nil, apperror.NewRendererUnavailable()
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	logger.Info(ctx, "generating stock movement report",
		"date_from", req.DateFrom.Format(period.DateLayout),
		"date_to", req.DateTo.Format(period.DateLayout),
		"products", len(req.ProductIDs),
		"categories", len(req.CategoryIDs),
		"warehouses", len(req.WarehouseIDs),
		"purchases", req.Channels.Purchases,
		"sales", req.Channels.Sales,
		"pos", req.Channels.POS,
	)

	m, err := s.build(ctx, req)
	if err != nil {
		return nil, err
	}

	data, err := s.renderer.Render(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}

	artifact := &Artifact{
		ID:          ulid.Make().String(),
		FileName:    withExtension(m.FileName, s.renderer.Extension()),
		ContentType: s.renderer.ContentType(),
		Data:        data,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.artifacts.Put(ctx, artifact); err != nil {
		return nil, fmt.Errorf("store report: %w", err)
	}
	url, err := s.artifacts.URL(ctx, artifact)
	if err != nil {
		return nil, fmt.Errorf("report url: %w", err)
	}

	return &Result{
		RunID:      runID,
		ArtifactID: artifact.ID,
		FileName:   artifact.FileName,
		URL:        url,
		Size:       len(data),
		Products:   len(m.Rows),
		Months:     len(m.Months),
		CreatedAt:  artifact.CreatedAt,
	}, nil
}

// record journals a stored report. The file is already downloadable, so a
// journal failure is only logged.
func (s *Service) record(ctx context.Context, req Request, res *Result) {
	if s.journal == nil {
		return
	}
	run := Run{
		RunID:      res.RunID,
		ArtifactID: res.ArtifactID,
		FileName:   res.FileName,
		Params:     ParamsOf(req),
		Products:   res.Products,
		Months:     res.Months,
		Size:       res.Size,
		CreatedAt:  res.CreatedAt,
	}
	if user := appctx.GetUser(ctx); user != nil {
		run.UserID = user.UserID
		run.Login = user.Login
	}
	if err := s.journal.Record(ctx, run); err != nil {
		logger.Warn(ctx, "failed to journal report run", "error", err)
	}
}

// History returns the latest generated reports. Without a journal it is
// always empty.
func (s *Service) History(ctx context.Context, limit int) ([]Run, error) {
	if s.journal == nil {
		return []Run{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.journal.Recent(ctx, limit)
}

// Open returns a stored report file.
func (s *Service) Open(ctx context.Context, artifactID string) (*Artifact, error) {
	if _, err := ulid.ParseStrict(artifactID); err != nil {
		return nil, apperror.NewNotFound("report", artifactID)
	}
	return s.artifacts.Get(ctx, artifactID)
}

func withExtension(name, ext string) string {
	return strings.TrimSuffix(name, path.Ext(name)) + ext
}

func (s *Service) build(ctx context.Context, req Request) (*Matrix, error) {
	var m *Matrix
	err := s.store.View(ctx, func(ctx context.Context, snap Snapshot) error {
		var err error
		m, err = s.assembler.Build(ctx, snap, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) startSpan(ctx context.Context, name string, req Request) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("report.date_from", req.DateFrom.Format(period.DateLayout)),
		attribute.String("report.date_to", req.DateTo.Format(period.DateLayout)),
		attribute.Int("report.product_filter", len(req.ProductIDs)),
		attribute.Int("report.category_filter", len(req.CategoryIDs)),
		attribute.Int("report.warehouse_filter", len(req.WarehouseIDs)),
	))
}
