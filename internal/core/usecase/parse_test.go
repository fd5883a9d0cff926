package usecase

import (
	"testing"

	"github.com/kirillkom/chess-assistant/internal/core/domain"
)

const sicilianFEN = "rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKB1R w KQkq - 0 2"

func TestParseQueryFEN(t *testing.T) {
	c := ParseQuery("find games reaching "+sicilianFEN, "")
	if c.FENPosition != sicilianFEN {
		t.Fatalf("expected extracted FEN, got %q", c.FENPosition)
	}
	if c.FENNormalized != domain.NormalizeFEN(sicilianFEN) {
		t.Fatalf("expected normalized FEN alongside, got %q", c.FENNormalized)
	}
	if c.HasPlayer() {
		t.Fatalf("FEN query must not extract players, got %+v", c)
	}
	if c.Year != 0 {
		t.Fatalf("FEN move counters must not become a year, got %d", c.Year)
	}
}

func TestParseQueryCurrentPosition(t *testing.T) {
	c := ParseQuery("show games from this position", sicilianFEN)
	if c.FENPosition != sicilianFEN {
		t.Fatalf("expected current FEN resolved, got %q", c.FENPosition)
	}

	c = ParseQuery("show games from this position", "")
	if c.FENPosition != "" {
		t.Fatalf("no board supplied, got %q", c.FENPosition)
	}
}

func TestParseQueryElo(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantWhiteMin *int
		wantWhiteMax *int
		wantBlackMin *int
		wantBlackMax *int
	}{
		{
			name:         "unsided minimum applies to both",
			query:        "find games rated above 2700",
			wantWhiteMin: domain.IntPtr(2700),
			wantBlackMin: domain.IntPtr(2700),
		},
		{
			name:         "trailing color word binds the bound",
			query:        "games with elo above 2600 for white",
			wantWhiteMin: domain.IntPtr(2600),
		},
		{
			name:         "preceding color word binds the bound",
			query:        "black rating above 2500",
			wantBlackMin: domain.IntPtr(2500),
		},
		{
			name:         "between range",
			query:        "games rated between 2400 and 2600",
			wantWhiteMin: domain.IntPtr(2400),
			wantWhiteMax: domain.IntPtr(2600),
			wantBlackMin: domain.IntPtr(2400),
			wantBlackMax: domain.IntPtr(2600),
		},
		{
			name:         "reversed between range is swapped",
			query:        "elo between 2600 and 2400",
			wantWhiteMin: domain.IntPtr(2400),
			wantWhiteMax: domain.IntPtr(2600),
			wantBlackMin: domain.IntPtr(2400),
			wantBlackMax: domain.IntPtr(2600),
		},
		{
			name:         "below bound",
			query:        "games rated below 2000",
			wantWhiteMax: domain.IntPtr(2000),
			wantBlackMax: domain.IntPtr(2000),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ParseQuery(tt.query, "")
			checkEloBound(t, "WhiteEloMin", c.WhiteEloMin, tt.wantWhiteMin)
			checkEloBound(t, "WhiteEloMax", c.WhiteEloMax, tt.wantWhiteMax)
			checkEloBound(t, "BlackEloMin", c.BlackEloMin, tt.wantBlackMin)
			checkEloBound(t, "BlackEloMax", c.BlackEloMax, tt.wantBlackMax)
			if c.HasPlayer() {
				t.Fatalf("rating phrases must not become player names, got %+v", c)
			}
		})
	}
}

func TestParseQueryEloRangeIsNotADateRange(t *testing.T) {
	c := ParseQuery("games with elo between 1900 and 2000", "")

	checkEloBound(t, "WhiteEloMin", c.WhiteEloMin, domain.IntPtr(1900))
	checkEloBound(t, "WhiteEloMax", c.WhiteEloMax, domain.IntPtr(2000))
	checkEloBound(t, "BlackEloMin", c.BlackEloMin, domain.IntPtr(1900))
	checkEloBound(t, "BlackEloMax", c.BlackEloMax, domain.IntPtr(2000))
	if c.DateFrom != "" || c.DateTo != "" || c.Year != 0 {
		t.Fatalf("rating numbers must not become dates, got DateFrom=%q DateTo=%q Year=%d", c.DateFrom, c.DateTo, c.Year)
	}

	// A real date range alongside an ELO bound still comes through.
	c = ParseQuery("games from 1990 to 2000 rated above 2700", "")
	if c.DateFrom != "1990" || c.DateTo != "2000" {
		t.Fatalf("date range lost, got DateFrom=%q DateTo=%q", c.DateFrom, c.DateTo)
	}
	checkEloBound(t, "WhiteEloMin", c.WhiteEloMin, domain.IntPtr(2700))
}

func checkEloBound(t *testing.T, field string, got, want *int) {
	t.Helper()
	switch {
	case want == nil && got != nil:
		t.Fatalf("%s = %d, want unset", field, *got)
	case want != nil && got == nil:
		t.Fatalf("%s unset, want %d", field, *want)
	case want != nil && *got != *want:
		t.Fatalf("%s = %d, want %d", field, *got, *want)
	}
}

func TestParseQueryPlayers(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantWhite string
		wantBlack string
		wantAny   string
	}{
		{
			name:    "trailing games pattern",
			query:   "Carlsen games",
			wantAny: "Carlsen",
		},
		{
			name:    "imperative prefix is trimmed",
			query:   "find Carlsen games",
			wantAny: "Carlsen",
		},
		{
			name:    "games by",
			query:   "games by Kasparov",
			wantAny: "Kasparov",
		},
		{
			name:      "versus pair",
			query:     "Kasparov vs Karpov",
			wantWhite: "Kasparov",
			wantBlack: "Karpov",
		},
		{
			name:      "explicit color assignment",
			query:     "white: Tal black: Botvinnik",
			wantWhite: "Tal",
			wantBlack: "Botvinnik",
		},
		{
			name:    "possessive form",
			query:   "show me Magnus Carlsen's games",
			wantAny: "Magnus Carlsen",
		},
		{
			name:  "opening name is not a player",
			query: "sicilian games",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ParseQuery(tt.query, "")
			if c.WhitePlayer != tt.wantWhite {
				t.Fatalf("WhitePlayer = %q, want %q", c.WhitePlayer, tt.wantWhite)
			}
			if c.BlackPlayer != tt.wantBlack {
				t.Fatalf("BlackPlayer = %q, want %q", c.BlackPlayer, tt.wantBlack)
			}
			if c.AnyPlayer != tt.wantAny {
				t.Fatalf("AnyPlayer = %q, want %q", c.AnyPlayer, tt.wantAny)
			}
		})
	}
}

func TestParseQueryOpening(t *testing.T) {
	c := ParseQuery("games in the king's indian defense", "")
	if c.OpeningName != "King's Indian Defense" {
		t.Fatalf("OpeningName = %q", c.OpeningName)
	}

	c = ParseQuery("show B33 games", "")
	if c.ECOCode != "B33" {
		t.Fatalf("ECOCode = %q", c.ECOCode)
	}
	if c.HasPlayer() {
		t.Fatalf("ECO code must not become a player, got %+v", c)
	}

	c = ParseQuery("najdorf games", "")
	if c.OpeningName != "Sicilian Defense, Najdorf Variation" {
		t.Fatalf("OpeningName = %q", c.OpeningName)
	}
}

func TestParseQueryEventDateResult(t *testing.T) {
	c := ParseQuery("games from the candidates where white wins", "")
	if c.Event != "candidates" {
		t.Fatalf("Event = %q", c.Event)
	}
	if c.Result != domain.ResultWhiteWin {
		t.Fatalf("Result = %q", c.Result)
	}

	c = ParseQuery("games from 1990 to 2000", "")
	if c.DateFrom != "1990" || c.DateTo != "2000" {
		t.Fatalf("date range = %q..%q", c.DateFrom, c.DateTo)
	}

	c = ParseQuery("Kasparov vs Karpov 1985", "")
	if c.Year != 1985 {
		t.Fatalf("Year = %d", c.Year)
	}
	if c.WhitePlayer != "Kasparov" || c.BlackPlayer != "Karpov" {
		t.Fatalf("players = %q/%q", c.WhitePlayer, c.BlackPlayer)
	}

	c = ParseQuery("drawn games after 2015", "")
	if c.Result != domain.ResultDraw {
		t.Fatalf("Result = %q", c.Result)
	}
	if c.DateFrom != "2015" {
		t.Fatalf("DateFrom = %q", c.DateFrom)
	}
}

func TestParseQueryLimit(t *testing.T) {
	c := ParseQuery("anything at all", "")
	if c.Limit != domain.DefaultResultLimit {
		t.Fatalf("default Limit = %d", c.Limit)
	}

	c = ParseQuery("show 10 Carlsen games", "")
	if c.Limit != 10 {
		t.Fatalf("Limit = %d, want 10", c.Limit)
	}

	c = ParseQuery("top 500 games", "")
	if c.Limit != domain.MaxResultLimit {
		t.Fatalf("Limit = %d, want cap %d", c.Limit, domain.MaxResultLimit)
	}
}

func TestIsLikelyPlayerName(t *testing.T) {
	tests := []struct {
		candidate string
		want      bool
	}{
		{"Carlsen", true},
		{"Magnus Carlsen", true},
		{"Vachier-Lagrave", true},
		{"", false},
		{"the", false},
		{"sicilian", false},
		{"find", false},
		{"games", false},
		{"a", false},
		{"one two three four", false},
		{"x123", false},
		{"Sicilian Defense", false},
	}
	for _, tt := range tests {
		if got := IsLikelyPlayerName(tt.candidate); got != tt.want {
			t.Errorf("IsLikelyPlayerName(%q) = %v, want %v", tt.candidate, got, tt.want)
		}
	}
}

func TestMentionsCurrentPosition(t *testing.T) {
	if !MentionsCurrentPosition("what games reach This Position?") {
		t.Fatal("expected phrase match, case-insensitive")
	}
	if MentionsCurrentPosition("sicilian games") {
		t.Fatal("unexpected phrase match")
	}
}
