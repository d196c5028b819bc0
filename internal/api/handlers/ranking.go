package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/rankboard/internal/contracts"
	"github.com/wonny/rankboard/internal/period"
	"github.com/wonny/rankboard/internal/ranking"
	"github.com/wonny/rankboard/pkg/logger"
)

// RankingHandler handles ranking-related API endpoints
// ⭐ SSOT: 랭킹 API 핸들러는 이 구조체에서만
type RankingHandler struct {
	resolver *ranking.Resolver
	logger   *logger.Logger
	now      func() time.Time
}

// NewRankingHandler creates a new ranking handler
func NewRankingHandler(resolver *ranking.Resolver, log *logger.Logger) *RankingHandler {
	return &RankingHandler{
		resolver: resolver,
		logger:   log,
		now:      time.Now,
	}
}

// OptionsResponse lists the literals the dashboard form accepts
type OptionsResponse struct {
	Months  []string     `json:"months"`
	Years   []int        `json:"years"`
	Sectors []string     `json:"sectors"`
	TopN    []string     `json:"top_n"`
	Periods []period.Key `json:"periods"`
}

// TableResponse is a display-ready ranking table
type TableResponse struct {
	Period  period.Key             `json:"period"`
	Sector  string                 `json:"sector"`
	TopN    int                    `json:"top_n"`
	Count   int                    `json:"count"`
	Columns []string               `json:"columns"`
	Rows    []contracts.RankingRow `json:"rows"`
}

func newTableResponse(table *contracts.RankingTable, sector string, topN int) TableResponse {
	rows := table.Rows
	if rows == nil {
		rows = []contracts.RankingRow{}
	}
	return TableResponse{
		Period:  table.Period,
		Sector:  sector,
		TopN:    topN,
		Count:   len(rows),
		Columns: table.Columns,
		Rows:    rows,
	}
}

// GetOptions returns the selectable months, years, sectors and top-N literals
// GET /api/options
func (h *RankingHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, OptionsResponse{
		Months:  period.Months(),
		Years:   period.RecentYears(h.now()),
		Sectors: period.Sectors(),
		TopN:    period.TopNOptions(),
		Periods: h.resolver.Periods(),
	})
}

// GetTable returns the selected month's table
// GET /api/rankings?month=April&year=2023&sector=All&top=top 100
func (h *RankingHandler) GetTable(w http.ResponseWriter, r *http.Request) {
	sel, err := selectionFromQuery(r)
	if err != nil {
		respondFailure(w, h.logger, err)
		return
	}

	table, err := h.resolver.Table(r.Context(), sel)
	if err != nil {
		respondFailure(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, newTableResponse(table, sel.Sector, sel.TopN))
}

// GetTableByPeriod returns a period's full table
// GET /api/rankings/{period}
func (h *RankingHandler) GetTableByPeriod(w http.ResponseWriter, r *http.Request) {
	key, err := period.ParseKey(mux.Vars(r)["period"])
	if err != nil {
		respondFailure(w, h.logger, err)
		return
	}

	table, err := h.resolver.TableByKey(r.Context(), key)
	if err != nil {
		respondFailure(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, newTableResponse(table, period.SectorAll, 0))
}

// GetDistribution returns the sector breakdown of the selected top-N
// GET /api/rankings/distribution?month=April&year=2023&top=top 100
func (h *RankingHandler) GetDistribution(w http.ResponseWriter, r *http.Request) {
	sel, err := selectionFromQuery(r)
	if err != nil {
		respondFailure(w, h.logger, err)
		return
	}

	result, err := h.resolver.Distribution(r.Context(), sel)
	if err != nil {
		respondFailure(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetTrend returns the month-over-month sector weight change of the selected top-N
// GET /api/rankings/trend?month=April&year=2023&top=top 100
func (h *RankingHandler) GetTrend(w http.ResponseWriter, r *http.Request) {
	sel, err := selectionFromQuery(r)
	if err != nil {
		respondFailure(w, h.logger, err)
		return
	}

	result, err := h.resolver.Trend(r.Context(), sel)
	if err != nil {
		respondFailure(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Save acknowledges a save request. Nothing is persisted.
// POST /api/rankings/save
func (h *RankingHandler) Save(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("Save requested")
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Data saved!",
	})
}

func selectionFromQuery(r *http.Request) (ranking.Selection, error) {
	q := r.URL.Query()
	return ranking.ParseSelection(q.Get("month"), q.Get("year"), q.Get("sector"), q.Get("top"))
}
