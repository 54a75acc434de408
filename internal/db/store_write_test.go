package db

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/trustmrr/catalog/internal/i18n"
	"github.com/trustmrr/catalog/internal/models"
)

type recordedExec struct {
	sql  string
	args []any
}

// recordingQuerier satisfies Querier and captures Exec calls in order.
type recordingQuerier struct {
	execs []recordedExec
}

func (r *recordingQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	r.execs = append(r.execs, recordedExec{sql: sql, args: args})
	return pgconn.CommandTag{}, nil
}

func (r *recordingQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("unexpected Query")
}

func (r *recordingQuerier) QueryRow(context.Context, string, ...any) pgx.Row {
	return nil
}

func TestReplaceMarketingStrategies_DeletesBeforeInserting(t *testing.T) {
	appID := uuid.New()
	strategies := []models.MarketingStrategy{
		{Channel: "Product Hunt", Description: i18n.Text{"zh": "发布冲榜"}, Priority: 5},
		{Channel: "Twitter/X", Description: i18n.Text{"zh": "创始人公开构建"}, Priority: 4},
		{Channel: "SEO", Description: i18n.Text{"zh": "程序化落地页"}, Priority: 3},
	}

	q := &recordingQuerier{}
	if err := ReplaceMarketingStrategies(context.Background(), q, appID, strategies); err != nil {
		t.Fatalf("ReplaceMarketingStrategies failed: %v", err)
	}

	if len(q.execs) != len(strategies)+1 {
		t.Fatalf("expected 1 delete + %d inserts, got %d statements", len(strategies), len(q.execs))
	}

	del := q.execs[0]
	if !strings.Contains(del.sql, "DELETE FROM marketing_strategies") {
		t.Fatalf("first statement must clear existing rows, got: %s", del.sql)
	}
	if len(del.args) != 1 || del.args[0] != appID {
		t.Fatalf("delete must be scoped to the app: %v", del.args)
	}

	for i, ms := range strategies {
		ins := q.execs[i+1]
		if !strings.Contains(ins.sql, "INSERT INTO marketing_strategies") {
			t.Fatalf("statement %d must be an insert, got: %s", i+1, ins.sql)
		}
		if ins.args[0] != appID || ins.args[1] != ms.Channel || ins.args[3] != ms.Priority {
			t.Fatalf("insert %d carries wrong values: %v", i+1, ins.args)
		}
	}
}

func TestReplaceMarketingStrategies_EmptyListClearsOnly(t *testing.T) {
	appID := uuid.New()

	q := &recordingQuerier{}
	if err := ReplaceMarketingStrategies(context.Background(), q, appID, nil); err != nil {
		t.Fatalf("ReplaceMarketingStrategies failed: %v", err)
	}

	if len(q.execs) != 1 {
		t.Fatalf("expected the delete alone, got %d statements", len(q.execs))
	}
	if !strings.Contains(q.execs[0].sql, "DELETE FROM marketing_strategies") {
		t.Fatalf("sole statement must be the delete, got: %s", q.execs[0].sql)
	}
}
