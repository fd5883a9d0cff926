package usecase

import (
	"testing"

	"github.com/kirillkom/chess-assistant/internal/core/domain"
)

func TestPrioritizeCriteriaFENDominates(t *testing.T) {
	in := domain.FilterCriteria{
		FENPosition:   sicilianFEN,
		FENNormalized: domain.NormalizeFEN(sicilianFEN),
		WhitePlayer:   "Kasparov",
		BlackPlayer:   "Karpov",
		AnyPlayer:     "Carlsen",
		WhiteEloMin:   domain.IntPtr(2600),
		OpeningName:   "Sicilian Defense",
		ECOCode:       "B33",
		Event:         "candidates",
		Site:          "Moscow",
		DateFrom:      "1984",
		DateTo:        "1985",
		Year:          1985,
		Result:        domain.ResultWhiteWin,
		Limit:         10,
	}

	out := PrioritizeCriteria(in)

	if out.WhitePlayer != "" || out.BlackPlayer != "" || out.AnyPlayer != "" {
		t.Fatalf("player filters must be dropped, got %+v", out)
	}
	if out.Event != "" || out.Site != "" || out.DateFrom != "" || out.DateTo != "" || out.Year != 0 || out.Result != "" {
		t.Fatalf("event/date/result filters must be dropped, got %+v", out)
	}
	if out.FENPosition != sicilianFEN || out.FENNormalized != in.FENNormalized {
		t.Fatalf("FEN must survive, got %+v", out)
	}
	if out.WhiteEloMin == nil || *out.WhiteEloMin != 2600 {
		t.Fatalf("ELO bounds must survive, got %+v", out.WhiteEloMin)
	}
	if out.OpeningName != "Sicilian Defense" || out.ECOCode != "B33" {
		t.Fatalf("opening filters must survive, got %+v", out)
	}
	if out.Limit != 10 {
		t.Fatalf("limit must survive, got %d", out.Limit)
	}
}

func TestPrioritizeCriteriaPassthroughWithoutFEN(t *testing.T) {
	in := domain.FilterCriteria{
		WhitePlayer: "Kasparov",
		BlackPlayer: "Karpov",
		Year:        1985,
		Result:      domain.ResultDraw,
	}
	if out := PrioritizeCriteria(in); out != in {
		t.Fatalf("criteria without a FEN must pass through, got %+v", out)
	}
}
