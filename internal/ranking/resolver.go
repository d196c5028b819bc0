package ranking

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/rankboard/internal/contracts"
	"github.com/wonny/rankboard/internal/period"
	"github.com/wonny/rankboard/pkg/logger"
)

// Resolver turns a Selection into a display table, a sector distribution or a
// month-over-month trend. It holds no mutable state.
// ⭐ SSOT: 랭킹 조회/집계는 이 구조체에서만
type Resolver struct {
	source  contracts.RankingSource
	periods period.Range
	logger  *logger.Logger
}

// DistributionResult is the sector breakdown of one period's top-N
type DistributionResult struct {
	Period       period.Key                   `json:"period" yaml:"period"`
	TopN         int                          `json:"top_n" yaml:"top_n"`
	Distribution contracts.SectorDistribution `json:"distribution" yaml:"distribution"`
	Sorted       []contracts.SectorCount      `json:"sorted" yaml:"sorted"`
}

// TrendResult compares a period's top-N breakdown with the previous month's
type TrendResult struct {
	Period       period.Key                   `json:"period" yaml:"period"`
	Previous     period.Key                   `json:"previous" yaml:"previous"`
	TopN         int                          `json:"top_n" yaml:"top_n"`
	Current      contracts.SectorDistribution `json:"current" yaml:"current"`
	PreviousDist contracts.SectorDistribution `json:"previous_distribution" yaml:"previous_distribution"`
	Delta        contracts.SectorWeightDelta  `json:"delta" yaml:"delta"`
}

// NewResolver creates a resolver over source
func NewResolver(source contracts.RankingSource, periods period.Range, log *logger.Logger) *Resolver {
	return &Resolver{
		source:  source,
		periods: periods,
		logger:  log,
	}
}

// Periods lists the configured period keys, oldest first
func (r *Resolver) Periods() []period.Key {
	return r.periods.Keys()
}

// Range returns the configured period range
func (r *Resolver) Range() period.Range {
	return r.periods
}

// Table returns the selection's table: truncated to the overall top-N when
// TopN > 0, then filtered by sector.
func (r *Resolver) Table(ctx context.Context, sel Selection) (*contracts.RankingTable, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	key, _ := sel.Key()

	table, err := r.fetch(ctx, key)
	if err != nil {
		return nil, err
	}

	if sel.TopN > 0 {
		table = TruncateTopN(table, sel.TopN)
	}
	return FilterBySector(table, sel.Sector), nil
}

// TableByKey returns a period's full table
func (r *Resolver) TableByKey(ctx context.Context, key period.Key) (*contracts.RankingTable, error) {
	return r.fetch(ctx, key)
}

// Distribution returns the sector breakdown of the selection's top-N.
// The sector filter does not apply to the breakdown.
func (r *Resolver) Distribution(ctx context.Context, sel Selection) (*DistributionResult, error) {
	key, err := r.topNKey(sel)
	if err != nil {
		return nil, err
	}

	table, err := r.fetch(ctx, key)
	if err != nil {
		return nil, err
	}

	dist := Distribution(TruncateTopN(table, sel.TopN))
	return &DistributionResult{
		Period:       key,
		TopN:         sel.TopN,
		Distribution: dist,
		Sorted:       dist.Sorted(),
	}, nil
}

// Trend returns the selection's top-N breakdown, the previous month's, and the
// weight delta between them. Both periods must have data.
func (r *Resolver) Trend(ctx context.Context, sel Selection) (*TrendResult, error) {
	key, err := r.topNKey(sel)
	if err != nil {
		return nil, err
	}
	prevKey := key.Previous()

	var current, previous *contracts.RankingTable
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = r.fetch(gctx, key)
		return err
	})
	g.Go(func() error {
		var err error
		previous, err = r.fetch(gctx, prevKey)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	curDist := Distribution(TruncateTopN(current, sel.TopN))
	prevDist := Distribution(TruncateTopN(previous, sel.TopN))

	delta, err := WeightDelta(curDist, prevDist, sel.TopN)
	if err != nil {
		return nil, err
	}

	return &TrendResult{
		Period:       key,
		Previous:     prevKey,
		TopN:         sel.TopN,
		Current:      curDist,
		PreviousDist: prevDist,
		Delta:        delta,
	}, nil
}

func (r *Resolver) topNKey(sel Selection) (period.Key, error) {
	if err := sel.Validate(); err != nil {
		return period.Key{}, err
	}
	if sel.TopN <= 0 {
		return period.Key{}, fmt.Errorf("%w: sector breakdown needs a top-N selection", contracts.ErrInvalidArgument)
	}
	return sel.Key()
}

// fetch obtains a table and folds every source failure into ErrDataUnavailable
func (r *Resolver) fetch(ctx context.Context, key period.Key) (*contracts.RankingTable, error) {
	table, err := r.source.GetTable(ctx, key)
	if err == nil {
		return table, nil
	}

	log := r.logger.WithPeriod(key.String()).WithError(err)
	switch {
	case errors.Is(err, contracts.ErrTransportTimeout):
		log.Warn("Ranking fetch timed out")
	case errors.Is(err, contracts.ErrDataUnavailable):
		log.Debug("No ranking data for period")
	default:
		log.Error("Ranking source failed")
		err = contracts.Unavailable(key, err)
	}
	return nil, err
}
