package usecase

import "github.com/kirillkom/chess-assistant/internal/core/domain"

// PrioritizeCriteria resolves conflicts between simultaneously extracted
// constraints. First matching rule wins:
//
//   - A FEN position dominates: ELO and opening filters survive alongside
//     it, player/event/date/result filters are dropped. Positions recur
//     across many players, and the games schema cannot cheaply join per-ply
//     FEN arrays against per-game player fields.
//   - A player filter dominates next and combines with everything except a
//     FEN.
//   - Otherwise the criteria pass through unchanged.
//
// This deliberately discards combined queries like "Carlsen games reaching
// this position"; the position wins.
func PrioritizeCriteria(c domain.FilterCriteria) domain.FilterCriteria {
	if c.HasFEN() {
		c.WhitePlayer = ""
		c.BlackPlayer = ""
		c.AnyPlayer = ""
		c.Event = ""
		c.Site = ""
		c.DateFrom = ""
		c.DateTo = ""
		c.Year = 0
		c.Result = ""
		return c
	}
	return c
}
