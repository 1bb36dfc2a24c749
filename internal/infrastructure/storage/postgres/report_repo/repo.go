// Package report_repo reads the ERP tables the stock movement report is
// computed from. Every query runs on the transaction carried by the
// context, so a Repo used inside a snapshot sees one point in time.
package report_repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"stockreport/internal/domain/catalog"
	"stockreport/internal/domain/kit"
	"stockreport/internal/domain/movement"
	"stockreport/internal/domain/period"
	"stockreport/internal/infrastructure/storage/postgres"
)

// DefaultLang is the language translatable names fall back to.
const DefaultLang = "en_US"

// Repo implements catalog.Repository, movement.Ledger and kit.Repository.
type Repo struct {
	builder squirrel.StatementBuilderType
	txm     *postgres.TxManager
	lang    string
}

var (
	_ catalog.Repository = (*Repo)(nil)
	_ movement.Ledger    = (*Repo)(nil)
	_ kit.Repository     = (*Repo)(nil)
)

// NewRepo creates a repository reading names in lang. An empty lang means
// DefaultLang.
func NewRepo(txm *postgres.TxManager, lang string) *Repo {
	if lang == "" {
		lang = DefaultLang
	}
	return &Repo{
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		txm:     txm,
		lang:    lang,
	}
}

func (r *Repo) querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

// day renders a calendar day for a ::date comparison.
func day(t time.Time) string {
	return period.Date(t).Format(period.DateLayout)
}

// translated extracts the repo language from a JSONB name column, falling
// back to DefaultLang. The language is inlined so column placeholders do not
// shift the numbering of the WHERE arguments.
func (r *Repo) translated(column, alias string) string {
	return fmt.Sprintf("COALESCE(%[1]s->>%[2]s, %[1]s->>%[3]s) AS %[4]s",
		column, quote(r.lang), quote(DefaultLang), alias)
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
