package domain

import "testing"

const italianFEN = "r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R b KQkq - 3 3"

func TestExtractFEN(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    string
		wantOK  bool
	}{
		{
			name:   "fen embedded in prose",
			text:   "find games reaching " + italianFEN + " with white to move",
			want:   italianFEN,
			wantOK: true,
		},
		{
			name:   "bare starting position",
			text:   StartingFEN,
			want:   StartingFEN,
			wantOK: true,
		},
		{
			name:   "en passant square",
			text:   "rnbqkbnr/ppp1pppp/8/8/2pPP3/8/PPP2PPP/RNBQKBNR b KQkq d3 0 3",
			want:   "rnbqkbnr/ppp1pppp/8/8/2pPP3/8/PPP2PPP/RNBQKBNR b KQkq d3 0 3",
			wantOK: true,
		},
		{
			name:   "no fen present",
			text:   "Carlsen games in the Sicilian",
			wantOK: false,
		},
		{
			name:   "seven ranks is not a fen",
			text:   "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractFEN(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("ExtractFEN() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Fatalf("ExtractFEN() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeFEN(t *testing.T) {
	withEP := "rnbqkbnr/ppp1pppp/8/8/2pPP3/8/PPP2PPP/RNBQKBNR b KQkq d3 0 3"
	normalized := NormalizeFEN(withEP)
	if normalized != "rnbqkbnr/ppp1pppp/8/8/2pPP3/8/PPP2PPP/RNBQKBNR b KQkq - 0 3" {
		t.Fatalf("unexpected normalization: %q", normalized)
	}
	if NormalizeFEN(normalized) != normalized {
		t.Fatal("normalization must be idempotent")
	}
	if NormalizeFEN("not a fen at all") != "not a fen at all" {
		t.Fatal("non-FEN input must pass through unchanged")
	}
}

func TestFENPrefix(t *testing.T) {
	if got := FENPrefix(italianFEN); got != "r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R b" {
		t.Fatalf("unexpected prefix: %q", got)
	}
	if got := FENPrefix("short"); got != "short" {
		t.Fatalf("degenerate input should pass through, got %q", got)
	}
}

func TestIsStartingPosition(t *testing.T) {
	if !IsStartingPosition(StartingFEN) {
		t.Fatal("starting FEN should be recognized")
	}
	// Differs only in the en-passant field.
	if !IsStartingPosition("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e3 0 1") {
		t.Fatal("en-passant variants of the start should be recognized")
	}
	if IsStartingPosition(italianFEN) {
		t.Fatal("mid-game position must not be the start")
	}
}
