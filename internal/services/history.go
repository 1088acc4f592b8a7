package services

import (
	"context"
	"time"

	"github.com/sbilibin2017/gw-plant-doctor/internal/logger"
	"github.com/sbilibin2017/gw-plant-doctor/internal/models"
)

//go:generate mockgen -source=history.go -destination=mock_history.go -package=services

// HistoryWriter appends entries to the history log.
type HistoryWriter interface {
	Save(ctx context.Context, entry *models.HistoryEntry) error // Sets entry.ID
}

// HistoryReader lists the history log newest first.
type HistoryReader interface {
	List(ctx context.Context) ([]models.HistoryEntry, error)
}

// HistoryCache caches the listing. Set only stores a listing read at the
// current generation; Invalidate bumps it.
type HistoryCache interface {
	Get(ctx context.Context) ([]models.HistoryEntry, bool, error)
	Generation(ctx context.Context) (int64, error)
	Set(ctx context.Context, gen int64, entries []models.HistoryEntry) error
	Invalidate(ctx context.Context) error
}

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// HistoryService appends and lists analysis outcomes.
type HistoryService struct {
	writer HistoryWriter
	reader HistoryReader
	cache  HistoryCache // optional
	clock  Clock
}

// NewHistoryService creates a new HistoryService. cache may be nil.
func NewHistoryService(writer HistoryWriter, reader HistoryReader, cache HistoryCache, clock Clock) *HistoryService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &HistoryService{
		writer: writer,
		reader: reader,
		cache:  cache,
		clock:  clock,
	}
}

// Append stores entry with a server-assigned date and drops the cached listing.
func (s *HistoryService) Append(ctx context.Context, entry models.HistoryEntry) (*models.HistoryEntry, error) {
	entry.ID = ""
	entry.Date = s.clock.Now()

	if err := s.writer.Save(ctx, &entry); err != nil {
		logger.Log.Errorw("failed to append history", "user", entry.User, "error", err)
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			logger.Log.Warnw("failed to invalidate history cache", "error", err)
		}
	}

	return &entry, nil
}

// ListRecent returns every entry ordered by date descending.
func (s *HistoryService) ListRecent(ctx context.Context) ([]models.HistoryEntry, error) {
	fill := false
	var gen int64
	if s.cache != nil {
		entries, ok, err := s.cache.Get(ctx)
		if err != nil {
			logger.Log.Warnw("failed to read history cache", "error", err)
		} else if ok {
			return entries, nil
		}

		// Taken before the store read so an append in between voids the fill.
		if gen, err = s.cache.Generation(ctx); err != nil {
			logger.Log.Warnw("failed to read history cache generation", "error", err)
		} else {
			fill = true
		}
	}

	entries, err := s.reader.List(ctx)
	if err != nil {
		logger.Log.Errorw("failed to list history", "error", err)
		return nil, err
	}
	if entries == nil {
		entries = []models.HistoryEntry{}
	}

	if fill {
		if err := s.cache.Set(ctx, gen, entries); err != nil {
			logger.Log.Warnw("failed to populate history cache", "error", err)
		}
	}

	return entries, nil
}
