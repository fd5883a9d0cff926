package domain

import (
	"regexp"
	"strings"
)

// StartingFEN is the standard initial position.
const StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// fenPattern matches a FEN-shaped literal: eight rank groups, side to move,
// castling rights, en-passant square and two move counters. It is a shape
// check only; legality belongs to the chess-rules side of the system.
var fenPattern = regexp.MustCompile(
	`(?:[rnbqkpRNBQKP1-8]{1,8}/){7}[rnbqkpRNBQKP1-8]{1,8} [wb] (?:-|[KQkq]{1,4}) (?:-|[a-h][36]) \d+ \d+`,
)

// ExtractFEN finds the first FEN-shaped literal in free text.
func ExtractFEN(text string) (string, bool) {
	match := fenPattern.FindString(text)
	if match == "" {
		return "", false
	}
	return match, true
}

// NormalizeFEN zeroes the en-passant field so that positions differing only
// in transient en-passant availability compare equal. Idempotent; non-FEN
// input is returned unchanged.
func NormalizeFEN(fen string) string {
	fields := strings.Fields(fen)
	if len(fields) != 6 {
		return fen
	}
	fields[3] = "-"
	return strings.Join(fields, " ")
}

// FENPrefix keeps the board layout and side to move, the two fields used for
// broad lower-confidence position matching.
func FENPrefix(fen string) string {
	fields := strings.Fields(fen)
	if len(fields) < 2 {
		return fen
	}
	return fields[0] + " " + fields[1]
}

// IsStartingPosition compares against the standard initial position,
// ignoring the en-passant field.
func IsStartingPosition(fen string) bool {
	return NormalizeFEN(fen) == NormalizeFEN(StartingFEN)
}
