package services

import (
	"context"
	"errors"
	"time"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/metrics"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const sweepConcurrency = 4

// SweepReport summarizes one pass over the upload intent log.
type SweepReport struct {
	Scanned  int
	Released int
	Deleted  int
	Failed   int
}

// Sweeper reconciles upload intents left behind by requests that uploaded
// an asset but never attached it.
type Sweeper struct {
	logger   zerolog.Logger
	projects *database.ProjectRepo
	educ     *database.EducationRepo
	intents  *database.UploadIntentRepo
	storage  storage.Client
	minAge   time.Duration
	now      func() time.Time
}

// NewSweeper only considers intents older than minAge so uploads still in
// flight are left alone.
func NewSweeper(db database.Database, client storage.Client, minAge time.Duration) *Sweeper {
	return &Sweeper{
		logger:   log.With().Str("service", "sweeper").Logger(),
		projects: db.ProjectRepo(),
		educ:     db.EducationRepo(),
		intents:  db.UploadIntentRepo(),
		storage:  client,
		minAge:   minAge,
		now:      time.Now,
	}
}

// Run sweeps every interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			report, err := s.Sweep(ctx)
			if err != nil {
				s.logger.Error().Err(err).Msg("orphan sweep failed")
				continue
			}
			if report.Scanned > 0 {
				s.logger.Info().
					Int("scanned", report.Scanned).
					Int("released", report.Released).
					Int("deleted", report.Deleted).
					Int("failed", report.Failed).
					Msg("orphan sweep finished")
			}
		}
	}
}

// Sweep handles every stale intent once. An asset still referenced by its
// entity is kept; anything else is deleted remotely. The intent is dropped
// unless the remote delete fails, in which case the next pass retries.
func (s *Sweeper) Sweep(ctx context.Context) (SweepReport, error) {
	stale, err := s.intents.FindOlderThan(ctx, s.now().Add(-s.minAge))
	if err != nil {
		return SweepReport{}, err
	}

	results := make([]string, len(stale))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sweepConcurrency)
	for i, intent := range stale {
		i, intent := i, intent
		g.Go(func() error {
			result, err := s.reconcile(gctx, intent)
			if err != nil {
				s.logger.Warn().
					Err(err).
					Str("intentId", intent.ID).
					Str("assetId", intent.AssetID).
					Msg("could not reconcile upload intent")
			}
			results[i] = result
			metrics.OrphansSwept.WithLabelValues(result).Inc()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return SweepReport{}, err
	}

	report := SweepReport{Scanned: len(stale)}
	for _, result := range results {
		switch result {
		case "released":
			report.Released++
		case "deleted":
			report.Deleted++
		default:
			report.Failed++
		}
	}
	return report, nil
}

func (s *Sweeper) reconcile(ctx context.Context, intent *models.UploadIntent) (string, error) {
	referenced, err := s.referenced(ctx, intent)
	if err != nil {
		return "failed", err
	}

	if referenced {
		if err := s.intents.Commit(ctx, intent.ID); err != nil {
			return "failed", err
		}
		return "released", nil
	}

	kind := storage.Kind(intent.ResourceKind)
	err = s.storage.Delete(ctx, intent.AssetID, kind)
	if err != nil && !errors.Is(err, storage.ErrAssetNotFound) {
		return "failed", err
	}

	if err := s.intents.Commit(ctx, intent.ID); err != nil {
		return "failed", err
	}
	return "deleted", nil
}

// referenced reports whether the intent's asset is recorded on its entity.
func (s *Sweeper) referenced(ctx context.Context, intent *models.UploadIntent) (bool, error) {
	switch intent.Kind {
	case models.UploadCover:
		cover, err := s.projects.FindCoverImage(ctx, intent.EntityID)
		if errs.IsNotFound(err) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return cover.PublicID == intent.AssetID, nil

	case models.UploadPDF:
		pdfs, err := s.projects.FindPDFs(ctx, intent.EntityID)
		if err != nil {
			return false, err
		}
		for _, pdf := range pdfs {
			if pdf.PublicID == intent.AssetID {
				return true, nil
			}
		}
		return false, nil

	case models.UploadCarousel:
		_, err := s.projects.FindCarouselImageByAsset(ctx, intent.EntityID, intent.AssetID)
		if errs.IsNotFound(err) {
			return false, nil
		}
		return err == nil, err

	case models.UploadEducationImage:
		entry, err := s.educ.FindByID(ctx, intent.EntityID)
		if errs.IsNotFound(err) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return entry.Image != nil && entry.Image.PublicID == intent.AssetID, nil
	}

	// Unknown kinds are kept rather than risk deleting a live asset.
	return true, nil
}
