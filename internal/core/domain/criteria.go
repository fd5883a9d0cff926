package domain

import (
	"fmt"
	"strings"
)

type GameResult string

const (
	ResultWhiteWin GameResult = "1-0"
	ResultBlackWin GameResult = "0-1"
	ResultDraw     GameResult = "1/2-1/2"
)

// FilterPriority ranks extracted constraint types. Higher wins when several
// constraint types are present in one query.
type FilterPriority int

const (
	PriorityFENPosition FilterPriority = 100
	PriorityPlayerName  FilterPriority = 80
	PriorityEloRange    FilterPriority = 60
	PriorityOpening     FilterPriority = 50
	PriorityEvent       FilterPriority = 40
	PriorityDateRange   FilterPriority = 30
	PriorityResult      FilterPriority = 20
	PriorityOther       FilterPriority = 10
)

func (p FilterPriority) String() string {
	switch p {
	case PriorityFENPosition:
		return "fen_position"
	case PriorityPlayerName:
		return "player_name"
	case PriorityEloRange:
		return "elo_range"
	case PriorityOpening:
		return "opening"
	case PriorityEvent:
		return "event"
	case PriorityDateRange:
		return "date_range"
	case PriorityResult:
		return "result"
	default:
		return "other"
	}
}

const (
	DefaultResultLimit = 25
	MaxResultLimit     = 100
)

// FilterCriteria carries every constraint extracted from one query.
// It is built once by the parser (or supplied via hints), adjusted once by
// the prioritizer, and read-only afterwards.
type FilterCriteria struct {
	FENPosition   string
	FENNormalized string

	WhitePlayer string
	BlackPlayer string
	AnyPlayer   string

	WhiteEloMin *int
	WhiteEloMax *int
	BlackEloMin *int
	BlackEloMax *int

	ECOCode     string
	OpeningName string

	Event string
	Site  string

	DateFrom string
	DateTo   string
	Year     int

	Result GameResult

	Limit int
}

func (c FilterCriteria) HasFEN() bool {
	return c.FENPosition != ""
}

func (c FilterCriteria) HasPlayer() bool {
	return c.WhitePlayer != "" || c.BlackPlayer != "" || c.AnyPlayer != ""
}

func (c FilterCriteria) HasElo() bool {
	return c.WhiteEloMin != nil || c.WhiteEloMax != nil || c.BlackEloMin != nil || c.BlackEloMax != nil
}

func (c FilterCriteria) HasOpening() bool {
	return c.ECOCode != "" || c.OpeningName != ""
}

func (c FilterCriteria) HasEvent() bool {
	return c.Event != "" || c.Site != ""
}

func (c FilterCriteria) HasDate() bool {
	return c.DateFrom != "" || c.DateTo != "" || c.Year != 0
}

func (c FilterCriteria) HasResult() bool {
	return c.Result != ""
}

// PriorityFilters lists the populated constraint types, highest priority
// first. The order is fixed and independent of extraction order.
func (c FilterCriteria) PriorityFilters() []FilterPriority {
	out := make([]FilterPriority, 0, 7)
	if c.HasFEN() {
		out = append(out, PriorityFENPosition)
	}
	if c.HasPlayer() {
		out = append(out, PriorityPlayerName)
	}
	if c.HasElo() {
		out = append(out, PriorityEloRange)
	}
	if c.HasOpening() {
		out = append(out, PriorityOpening)
	}
	if c.HasEvent() {
		out = append(out, PriorityEvent)
	}
	if c.HasDate() {
		out = append(out, PriorityDateRange)
	}
	if c.HasResult() {
		out = append(out, PriorityResult)
	}
	return out
}

// PrimaryFilterType reports the single dominant constraint type.
func (c FilterCriteria) PrimaryFilterType() FilterPriority {
	filters := c.PriorityFilters()
	if len(filters) == 0 {
		return PriorityOther
	}
	return filters[0]
}

// EffectiveLimit applies the default and the hard cap.
func (c FilterCriteria) EffectiveLimit() int {
	if c.Limit <= 0 {
		return DefaultResultLimit
	}
	if c.Limit > MaxResultLimit {
		return MaxResultLimit
	}
	return c.Limit
}

// Summary renders the applied filters for the result envelope and logs.
func (c FilterCriteria) Summary() string {
	parts := make([]string, 0, 8)
	if c.FENPosition != "" {
		parts = append(parts, "fen="+c.FENPosition)
	}
	if c.WhitePlayer != "" {
		parts = append(parts, "white="+c.WhitePlayer)
	}
	if c.BlackPlayer != "" {
		parts = append(parts, "black="+c.BlackPlayer)
	}
	if c.AnyPlayer != "" {
		parts = append(parts, "player="+c.AnyPlayer)
	}
	if c.WhiteEloMin != nil {
		parts = append(parts, fmt.Sprintf("white_elo>=%d", *c.WhiteEloMin))
	}
	if c.WhiteEloMax != nil {
		parts = append(parts, fmt.Sprintf("white_elo<=%d", *c.WhiteEloMax))
	}
	if c.BlackEloMin != nil {
		parts = append(parts, fmt.Sprintf("black_elo>=%d", *c.BlackEloMin))
	}
	if c.BlackEloMax != nil {
		parts = append(parts, fmt.Sprintf("black_elo<=%d", *c.BlackEloMax))
	}
	if c.ECOCode != "" {
		parts = append(parts, "eco="+c.ECOCode)
	}
	if c.OpeningName != "" {
		parts = append(parts, "opening="+c.OpeningName)
	}
	if c.Event != "" {
		parts = append(parts, "event="+c.Event)
	}
	if c.Site != "" {
		parts = append(parts, "site="+c.Site)
	}
	if c.DateFrom != "" {
		parts = append(parts, "date_from="+c.DateFrom)
	}
	if c.DateTo != "" {
		parts = append(parts, "date_to="+c.DateTo)
	}
	if c.Year != 0 {
		parts = append(parts, fmt.Sprintf("year=%d", c.Year))
	}
	if c.Result != "" {
		parts = append(parts, "result="+string(c.Result))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

// IntPtr is a convenience for building criteria with optional ELO bounds.
func IntPtr(v int) *int {
	return &v
}
