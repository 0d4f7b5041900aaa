package wall

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"lovewall-backend/internal/config"
	"lovewall-backend/internal/domains/couple/model"
	"lovewall-backend/internal/infrastructure/broadcast"
	"lovewall-backend/internal/wall/geometry"
	"lovewall-backend/pkg/cache"
)

// Rendering bounds for the wall view. Requested sizes clamp into this range.
const (
	MinWallSize     = 240
	MaxWallSize     = 800
	DefaultWallSize = 320
)

// CoupleSource is the slice of the submission service the wall reads from.
type CoupleSource interface {
	ListByStatus(ctx context.Context, req model.ListCouplesRequest) ([]model.CoupleResponse, *model.PaginationMeta, error)
}

// WallView is the rendered heart for one requested size.
type WallView struct {
	Size     float64 `json:"size"`
	Layout   Layout  `json:"layout"`
	Progress string  `json:"progress"`
	Percent  float64 `json:"percent"`
}

// Stats is the lightweight poll payload: enough for a client to decide
// whether its cached view is stale.
type Stats struct {
	ApprovedCount    int     `json:"approvedCount"`
	Progress         string  `json:"progress"`
	Percent          float64 `json:"percent"`
	PollIntervalSecs int     `json:"pollIntervalSecs"`
}

// AlbumPage is one page of the full approved list, oldest first.
type AlbumPage struct {
	Couples []model.CoupleResponse `json:"couples"`
	Meta    model.PaginationMeta   `json:"meta"`
}

// SearchResult locates a carousel match.
type SearchResult struct {
	Index  int                   `json:"index"`
	Couple *model.CoupleResponse `json:"couple"`
	Total  int                   `json:"total"`
}

// Service renders the three public surfaces over one shared source of
// approved submissions. Each surface has its own cache with its own TTL, so
// a busy wall does not force album refetches and vice versa.
type Service struct {
	source CoupleSource
	cfg    config.WallConfig

	wallCache     cache.Cache
	carouselCache cache.Cache
	albumCache    cache.Cache
}

func NewService(source CoupleSource, cfg config.WallConfig, wallCache, carouselCache, albumCache cache.Cache) *Service {
	return &Service{
		source:        source,
		cfg:           cfg,
		wallCache:     wallCache,
		carouselCache: carouselCache,
		albumCache:    albumCache,
	}
}

// Start subscribes to cross-process invalidations and blocks until ctx ends.
// Run it on its own goroutine.
func (s *Service) Start(ctx context.Context, bus broadcast.Bus) error {
	return bus.Subscribe(ctx, broadcast.ChannelCouplesInvalidate, func(reason string) {
		log.Debug().Str("reason", reason).Msg("Invalidating wall caches")
		s.Invalidate(ctx)
	})
}

// Invalidate drops every cached view. Called on any submission mutation.
func (s *Service) Invalidate(ctx context.Context) {
	for _, c := range []cache.Cache{s.wallCache, s.carouselCache, s.albumCache} {
		if err := c.DeletePattern(ctx, "*"); err != nil {
			log.Warn().Err(err).Msg("Failed to clear view cache")
		}
	}
}

// =====================================================
// WALL
// =====================================================

// Wall renders the heart layout at the requested size.
func (s *Service) Wall(ctx context.Context, size float64) (*WallView, error) {
	if size <= 0 {
		size = DefaultWallSize
	}
	if size < MinWallSize {
		size = MinWallSize
	}
	if size > MaxWallSize {
		size = MaxWallSize
	}

	key := fmt.Sprintf("wall:%.0f", size)
	var cached WallView
	if found, err := s.wallCache.Get(ctx, key, &cached); err == nil && found {
		return &cached, nil
	}

	couples, err := s.fetchAllApproved(ctx)
	if err != nil {
		return nil, err
	}

	points := geometry.GenerateHeartPoints(size/2, size/2, size)
	layout := AssignTiles(couples, points)

	view := &WallView{
		Size:     size,
		Layout:   layout,
		Progress: FormatProgress(len(couples)),
		Percent:  Progress(len(couples)),
	}

	if err := s.wallCache.Set(ctx, key, view, s.cfg.WallTTL); err != nil {
		log.Warn().Err(err).Msg("Failed to cache wall view")
	}
	return view, nil
}

// WallStats answers the client poll without rendering a layout.
func (s *Service) WallStats(ctx context.Context) (*Stats, error) {
	const key = "wall:stats"
	var cached Stats
	if found, err := s.wallCache.Get(ctx, key, &cached); err == nil && found {
		return &cached, nil
	}

	// One-item page: only the total matters here.
	_, meta, err := s.source.ListByStatus(ctx, model.ListCouplesRequest{
		Status: model.StatusApproved,
		Page:   1,
		Limit:  1,
	})
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		ApprovedCount:    meta.Total,
		Progress:         FormatProgress(meta.Total),
		Percent:          Progress(meta.Total),
		PollIntervalSecs: int(s.cfg.PollInterval.Seconds()),
	}

	if err := s.wallCache.Set(ctx, key, stats, s.cfg.WallTTL); err != nil {
		log.Warn().Err(err).Msg("Failed to cache wall stats")
	}
	return stats, nil
}

// =====================================================
// ALBUM
// =====================================================

// Album returns one page of approved submissions in wall order.
func (s *Service) Album(ctx context.Context, page, limit int) (*AlbumPage, error) {
	req := model.ListCouplesRequest{Status: model.StatusApproved, Page: page, Limit: limit}
	req.Normalize()

	key := fmt.Sprintf("album:%d:%d", req.Page, req.Limit)
	var cached AlbumPage
	if found, err := s.albumCache.Get(ctx, key, &cached); err == nil && found {
		return &cached, nil
	}

	couples, meta, err := s.source.ListByStatus(ctx, req)
	if err != nil {
		return nil, err
	}

	result := &AlbumPage{Couples: couples, Meta: *meta}
	if err := s.albumCache.Set(ctx, key, result, s.cfg.AlbumTTL); err != nil {
		log.Warn().Err(err).Msg("Failed to cache album page")
	}
	return result, nil
}

// =====================================================
// CAROUSEL
// =====================================================

// CarouselSearch cycles through name matches relative to the caller's
// current position. The full approved list is cached under the carousel TTL
// so repeated next/prev triggers stay cheap.
func (s *Service) CarouselSearch(ctx context.Context, query string, from int, direction string) (*SearchResult, error) {
	couples, err := s.carouselCouples(ctx)
	if err != nil {
		return nil, err
	}

	var idx int
	if from < 0 {
		idx = FirstMatch(couples, query)
	} else {
		idx = CycleMatch(couples, query, from, direction)
	}

	result := &SearchResult{Index: idx, Total: len(couples)}
	if idx >= 0 {
		result.Couple = &couples[idx]
	}
	return result, nil
}

func (s *Service) carouselCouples(ctx context.Context) ([]model.CoupleResponse, error) {
	const key = "carousel:list"
	var cached []model.CoupleResponse
	if found, err := s.carouselCache.Get(ctx, key, &cached); err == nil && found {
		return cached, nil
	}

	couples, err := s.fetchAllApproved(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.carouselCache.Set(ctx, key, couples, s.cfg.CarouselTTL); err != nil {
		log.Warn().Err(err).Msg("Failed to cache carousel list")
	}
	return couples, nil
}

// =====================================================
// FETCH
// =====================================================

// fetchAllApproved pages through the whole approved list in canonical order.
func (s *Service) fetchAllApproved(ctx context.Context) ([]model.CoupleResponse, error) {
	const pageSize = 500

	var all []model.CoupleResponse
	page := 1
	for {
		couples, meta, err := s.source.ListByStatus(ctx, model.ListCouplesRequest{
			Status: model.StatusApproved,
			Page:   page,
			Limit:  pageSize,
		})
		if err != nil {
			return nil, err
		}

		all = append(all, couples...)
		if len(couples) == 0 || page*pageSize >= meta.Total {
			break
		}
		page++
	}
	return all, nil
}
