// Package anilist imports anime from the AniList GraphQL API into the catalog.
package anilist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"aniverse/internal/microservices/http-api/models"

	"golang.org/x/sync/errgroup"
)

// Source yields pages of AniList anime; *Client implements it.
type Source interface {
	PopularAnime(ctx context.Context, page, perPage int) (*PageResponse, error)
}

// Store persists one mapped anime; repository.CatalogImportRepository implements it.
type Store interface {
	UpsertAnime(ctx context.Context, a *models.Anime, studio string, genres []string) (bool, error)
}

type Options struct {
	Pages   int
	PerPage int // AniList caps this at 50
	Workers int
}

// Stats counts the outcome of an import run.
type Stats struct {
	Fetched int64
	Created int64
	Updated int64
	Skipped int64
	Failed  int64
}

type Importer struct {
	source Source
	store  Store
	logger *slog.Logger
}

func NewImporter(source Source, store Store, logger *slog.Logger) *Importer {
	return &Importer{source: source, store: store, logger: logger}
}

// Run walks the popularity-ordered pages and upserts every usable entry.
// Entries that cannot be mapped are skipped; store failures are counted and
// logged without stopping the run. A fetch failure ends the run.
func (im *Importer) Run(ctx context.Context, opts Options) (Stats, error) {
	opts = withDefaults(opts)
	var stats Stats

	for page := 1; page <= opts.Pages; page++ {
		resp, err := im.source.PopularAnime(ctx, page, opts.PerPage)
		if err != nil {
			return snapshot(&stats), err
		}

		media := resp.Page.Media
		atomic.AddInt64(&stats.Fetched, int64(len(media)))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Workers)
		for _, m := range media {
			m := m
			g.Go(func() error {
				im.importOne(gctx, m, &stats)
				return gctx.Err()
			})
		}
		if err := g.Wait(); err != nil {
			return snapshot(&stats), err
		}

		im.logger.Info("anilist page imported", "page", page, "items", len(media))
		if !resp.Page.PageInfo.HasNextPage {
			break
		}
	}

	return snapshot(&stats), nil
}

func (im *Importer) importOne(ctx context.Context, m MediaData, stats *Stats) {
	imported, err := ToAnime(m)
	if err != nil {
		atomic.AddInt64(&stats.Skipped, 1)
		im.logger.Debug("skipping anilist entry", "anilist_id", m.ID, "reason", err)
		return
	}

	created, err := im.store.UpsertAnime(ctx, &imported.Anime, imported.Studio, imported.Genres)
	switch {
	case err != nil:
		if errors.Is(err, context.Canceled) {
			return
		}
		atomic.AddInt64(&stats.Failed, 1)
		im.logger.Error("failed to store anime", "anilist_id", m.ID, "title", imported.Anime.Title, "error", err)
	case created:
		atomic.AddInt64(&stats.Created, 1)
	default:
		atomic.AddInt64(&stats.Updated, 1)
	}
}

func withDefaults(opts Options) Options {
	if opts.Pages < 1 {
		opts.Pages = 1
	}
	if opts.PerPage < 1 || opts.PerPage > 50 {
		opts.PerPage = 50
	}
	if opts.Workers < 1 {
		opts.Workers = 4
	}
	return opts
}

func snapshot(s *Stats) Stats {
	return Stats{
		Fetched: atomic.LoadInt64(&s.Fetched),
		Created: atomic.LoadInt64(&s.Created),
		Updated: atomic.LoadInt64(&s.Updated),
		Skipped: atomic.LoadInt64(&s.Skipped),
		Failed:  atomic.LoadInt64(&s.Failed),
	}
}

func (s Stats) String() string {
	return fmt.Sprintf("fetched=%d created=%d updated=%d skipped=%d failed=%d",
		s.Fetched, s.Created, s.Updated, s.Skipped, s.Failed)
}
