package importer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/time/rate"

	"github.com/trustmrr/catalog/internal/db"
)

// importLockKey is the advisory lock guarding concurrent imports. Two
// pipelines interleaving delete-then-insert strategy writes would corrupt
// each other.
const importLockKey = int64(7_420_031)

// Pipeline imports case-study documents into the catalog. One app is one
// transaction: either the full record lands, including its one-to-one
// satellites, or nothing does.
type Pipeline struct {
	Pool     *pgxpool.Pool
	Store    *db.Store
	Registry *Registry
	Limiter  *rate.Limiter
}

// Stats summarizes one pipeline run.
type Stats struct {
	Files    int
	Parsed   int
	Imported int
	Skipped  int
	Errors   int
	Duration time.Duration
}

func NewPipeline(pool *pgxpool.Pool, reg *Registry) *Pipeline {
	return &Pipeline{
		Pool:     pool,
		Store:    db.NewStore(pool),
		Registry: reg,
		Limiter:  rate.NewLimiter(rate.Limit(reg.BatchesPerSecond), 1),
	}
}

// Run imports every registered document. A failing record or file is logged
// and counted, never fatal: the rest of the corpus still lands. Only a lock
// conflict or cancellation aborts the run.
func (p *Pipeline) Run(ctx context.Context) (Stats, error) {
	start := time.Now()
	var stats Stats

	// Advisory locks are session-scoped, so the lock lives on a dedicated
	// connection held for the whole run.
	lockConn, err := p.Pool.Acquire(ctx)
	if err != nil {
		return stats, fmt.Errorf("acquire lock connection failed: %w", err)
	}
	defer lockConn.Release()

	var locked bool
	if err := lockConn.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", importLockKey).Scan(&locked); err != nil {
		return stats, fmt.Errorf("acquire import lock failed: %w", err)
	}
	if !locked {
		return stats, errors.New("another import is already running")
	}
	defer func() {
		unlockCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := lockConn.Exec(unlockCtx, "SELECT pg_advisory_unlock($1)", importLockKey); err != nil {
			log.Printf("import: release lock failed: %v", err)
		}
	}()

	batchCount := 0
	for _, doc := range p.Registry.Documents {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}

		categoryID, err := p.Store.CategoryIDBySlug(ctx, doc.Category)
		if err != nil {
			log.Printf("import: file %s: category %s not found, skipping file", doc.File, doc.Category)
			stats.Errors++
			continue
		}

		content, err := os.ReadFile(filepath.Join(p.Registry.DocsDir, doc.File))
		if err != nil {
			log.Printf("import: read %s failed: %v", doc.File, err)
			stats.Errors++
			continue
		}
		stats.Files++

		apps := ParseDocument(string(content))
		stats.Parsed += len(apps)
		log.Printf("import: %s: %d sections parsed (category %s)", doc.File, len(apps), doc.Category)

		for _, app := range apps {
			if err := p.importApp(ctx, app, categoryID, doc.Category); err != nil {
				log.Printf("import: %s: %v", app.Name, err)
				stats.Errors++
			} else {
				stats.Imported++
			}

			batchCount++
			if batchCount == p.Registry.BatchSize {
				batchCount = 0
				if err := p.Limiter.Wait(ctx); err != nil {
					return stats, err
				}
			}
		}
	}

	stats.Duration = time.Since(start)
	log.Printf("import: done, %d/%d imported in %s (%d errors)",
		stats.Imported, stats.Parsed, stats.Duration.Round(time.Millisecond), stats.Errors)
	return stats, nil
}

// importApp writes one parsed record and all its satellites in a single
// transaction.
func (p *Pipeline) importApp(ctx context.Context, parsed ParsedApp, categoryID uuid.UUID, categorySlug string) error {
	tx, err := p.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin failed: %w", err)
	}
	defer tx.Rollback(ctx)

	app := parsed.BuildApp(categoryID, categorySlug)

	// Revenue before the upsert decides whether this run moves the needle
	// and deserves a history snapshot.
	_, prevRevenue, lookupErr := db.AppRevenueBySlug(ctx, tx, app.Slug)
	if lookupErr != nil && !errors.Is(lookupErr, db.ErrNotFound) {
		return lookupErr
	}
	isNew := errors.Is(lookupErr, db.ErrNotFound)

	appID, err := db.UpsertApp(ctx, tx, app)
	if err != nil {
		return err
	}

	if bm := parsed.BuildBusinessModel(); bm != nil {
		bm.AppID = appID
		if err := db.UpsertBusinessModel(ctx, tx, *bm); err != nil {
			return err
		}
	}
	if ts := parsed.BuildTechStack(); ts != nil {
		ts.AppID = appID
		if err := db.UpsertTechStack(ctx, tx, *ts); err != nil {
			return err
		}
	}
	if da := parsed.BuildDeveloperAnalysis(); da != nil {
		da.AppID = appID
		if err := db.UpsertDeveloperAnalysis(ctx, tx, *da); err != nil {
			return err
		}
	}
	if mp := parsed.BuildMvpPlan(); mp != nil {
		mp.AppID = appID
		if err := db.UpsertMvpPlan(ctx, tx, *mp); err != nil {
			return err
		}
	}
	if ca := parsed.BuildCostAnalysis(); ca != nil {
		ca.AppID = appID
		if err := db.UpsertCostAnalysis(ctx, tx, *ca); err != nil {
			return err
		}
	}
	if strategies := parsed.BuildMarketingStrategies(); len(strategies) > 0 {
		if err := db.ReplaceMarketingStrategies(ctx, tx, appID, strategies); err != nil {
			return err
		}
	}

	if isNew || !prevRevenue.Equal(app.TotalRevenue) {
		if err := db.RecordRevenueSnapshot(ctx, tx, appID, time.Now().UTC(), app.TotalRevenue, app.MRR); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

