package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/rachao-basket/scoreboard/models"
	"github.com/rachao-basket/scoreboard/repositories"
	"github.com/rachao-basket/scoreboard/storage"
)

// HistoryFilter narrows the history listing.
type HistoryFilter struct {
	DateFrom string
	DateTo   string
	Mode     models.MatchMode
	Team     string
}

type HistoryService interface {
	ListByDate(ctx context.Context, dateISO string) ([]*models.Match, error)
	ListByRange(ctx context.Context, filter HistoryFilter) ([]*models.Match, error)
	// ExportCSV renders matches as the flat history sheet: date, mode, teams,
	// scores and basket counts, one row per match.
	ExportCSV(matches []*models.Match) ([]byte, error)
	// ExportAndUpload writes the CSV export to object storage and returns its
	// public URL. Fails with ErrExportUploadMissing when no uploader is
	// configured.
	ExportAndUpload(ctx context.Context, filter HistoryFilter) (string, error)
}

type historyService struct {
	matchRepo  repositories.MatchRepository
	resultRepo repositories.ResultRepository
	uploader   storage.FileUploader
}

func NewHistoryService(
	matchRepo repositories.MatchRepository,
	resultRepo repositories.ResultRepository,
	uploader storage.FileUploader,
) HistoryService {
	return &historyService{
		matchRepo:  matchRepo,
		resultRepo: resultRepo,
		uploader:   uploader,
	}
}

func (s *historyService) ListByDate(ctx context.Context, dateISO string) ([]*models.Match, error) {
	matches, err := s.matchRepo.ListByDate(ctx, dateISO)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for %s: %w", dateISO, err)
	}
	if err := attachResults(ctx, s.resultRepo, matches); err != nil {
		return nil, err
	}
	if matches == nil {
		return []*models.Match{}, nil
	}
	return matches, nil
}

func (s *historyService) ListByRange(ctx context.Context, filter HistoryFilter) ([]*models.Match, error) {
	if filter.DateFrom == "" || filter.DateTo == "" || filter.DateFrom > filter.DateTo {
		return nil, ErrInvalidDateRange
	}
	matches, err := s.matchRepo.ListByRange(ctx, repositories.RangeFilter{
		DateFrom: filter.DateFrom,
		DateTo:   filter.DateTo,
		Mode:     filter.Mode,
		Team:     filter.Team,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list matches in range: %w", err)
	}
	if err := attachResults(ctx, s.resultRepo, matches); err != nil {
		return nil, err
	}
	if matches == nil {
		return []*models.Match{}, nil
	}
	return matches, nil
}

var csvHeader = []string{
	"date", "mode", "match_no", "team_a", "team_b",
	"score_a", "score_b", "baskets1", "baskets2", "baskets3",
}

func (s *historyService) ExportCSV(matches []*models.Match) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, match := range matches {
		row := []string{
			match.DateISO,
			string(match.Mode),
			"",
			match.TeamAName,
			match.TeamBName,
			"", "", "", "", "",
		}
		if match.MatchNumber != nil {
			row[2] = strconv.Itoa(*match.MatchNumber)
		}
		if r := match.Result; r != nil {
			row[5] = strconv.Itoa(r.ScoreA)
			row[6] = strconv.Itoa(r.ScoreB)
			row[7] = strconv.Itoa(r.Baskets1)
			row[8] = strconv.Itoa(r.Baskets2)
			row[9] = strconv.Itoa(r.Baskets3)
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *historyService) ExportAndUpload(ctx context.Context, filter HistoryFilter) (string, error) {
	if s.uploader == nil {
		return "", ErrExportUploadMissing
	}
	matches, err := s.ListByRange(ctx, filter)
	if err != nil {
		return "", err
	}
	data, err := s.ExportCSV(matches)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("history/historico-%s_%s.csv", filter.DateFrom, filter.DateTo)
	result, err := s.uploader.Upload(ctx, key, "text/csv; charset=utf-8", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to upload history export: %w", err)
	}
	return result.Location, nil
}

// attachResults fans the result lookups out per match. Matches without a
// result row (pending or aborted) simply stay bare.
func attachResults(ctx context.Context, resultRepo repositories.ResultRepository, matches []*models.Match) error {
	if len(matches) == 0 {
		return nil
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, match := range matches {
		match := match
		if match.Status != models.MatchStatusDone {
			continue
		}
		g.Go(func() error {
			result, err := resultRepo.GetByMatchID(gCtx, match.ID)
			if err != nil {
				if errors.Is(err, repositories.ErrResultNotFound) {
					return nil
				}
				return err
			}
			match.Result = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to load match results: %w", err)
	}
	return nil
}
