package usecase

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/kirillkom/chess-assistant/internal/core/domain"
)

// The parser is an ordered table of extraction rules over free text. Each
// rule may populate one or more criteria fields; later rules never overwrite
// fields a FEN extraction already set. Rules are heuristic by design: a rule
// that finds nothing leaves its fields unset, and the parser never fails.
type parseState struct {
	raw        string
	lower      string
	currentFEN string
	criteria   *domain.FilterCriteria

	fenFound    bool
	eloFound    bool
	playerAsked bool

	// Spans of matched ELO phrases, so later rules never re-read the same
	// numbers ("elo between 1900 and 2000" is not a date range).
	eloSpans [][2]int
}

func (s *parseState) markEloSpan(start, end int) {
	s.eloSpans = append(s.eloSpans, [2]int{start, end})
	s.eloFound = true
}

func (s *parseState) insideEloPhrase(start, end int) bool {
	for _, span := range s.eloSpans {
		if start < span[1] && end > span[0] {
			return true
		}
	}
	return false
}

type parseRule struct {
	name  string
	apply func(*parseState)
}

// parseRules run in a fixed order. ELO extraction precedes player extraction
// so numeric-filter phrases ("rated above 2700") are never captured as
// player names.
var parseRules = []parseRule{
	{name: "fen", apply: extractFEN},
	{name: "elo", apply: extractElo},
	{name: "opening", apply: extractOpening},
	{name: "player", apply: extractPlayers},
	{name: "event", apply: extractEvent},
	{name: "date", apply: extractDate},
	{name: "result", apply: extractResult},
	{name: "limit", apply: extractLimit},
}

// ParseQuery extracts filter criteria from free text. currentFEN, when
// supplied, resolves "this position" style references.
func ParseQuery(query, currentFEN string) domain.FilterCriteria {
	criteria := domain.FilterCriteria{Limit: domain.DefaultResultLimit}
	state := &parseState{
		raw:        query,
		lower:      strings.ToLower(query),
		currentFEN: strings.TrimSpace(currentFEN),
		criteria:   &criteria,
	}
	state.playerAsked = explicitPlayerPattern.MatchString(state.lower)

	for _, rule := range parseRules {
		rule.apply(state)
	}
	return criteria
}

var currentPositionPhrases = []string{
	"this position",
	"current position",
	"current board",
	"the position on the board",
	"position shown",
}

// MentionsCurrentPosition reports a "refers to the board in front of me"
// phrase, used both by the parser and by session-based FEN resolution.
func MentionsCurrentPosition(query string) bool {
	lower := strings.ToLower(query)
	for _, phrase := range currentPositionPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

func extractFEN(s *parseState) {
	fen, ok := domain.ExtractFEN(s.raw)
	if !ok && s.currentFEN != "" && MentionsCurrentPosition(s.raw) {
		fen, ok = s.currentFEN, true
	}
	if !ok {
		return
	}
	s.criteria.FENPosition = fen
	s.criteria.FENNormalized = domain.NormalizeFEN(fen)
	s.fenFound = true
}

var (
	eloBetweenPattern = regexp.MustCompile(`\b(?:elo|rating|rated)\s+(?:is\s+)?between\s+(\d{3,4})\s+and\s+(\d{3,4})`)
	eloAbovePattern   = regexp.MustCompile(`\b(?:elo|rating|rated)\s+(?:is\s+)?(?:above|over|greater than|higher than|at least)\s+(\d{3,4})`)
	eloBelowPattern   = regexp.MustCompile(`\b(?:elo|rating|rated)\s+(?:is\s+)?(?:below|under|less than|lower than|at most)\s+(\d{3,4})`)
	eloMinPattern     = regexp.MustCompile(`\bmin(?:imum)?\s+(?:elo|rating)\s+(?:of\s+)?(\d{3,4})`)
	eloMaxPattern     = regexp.MustCompile(`\bmax(?:imum)?\s+(?:elo|rating)\s+(?:of\s+)?(\d{3,4})`)
)

type eloSide int

const (
	eloBothSides eloSide = iota
	eloWhiteSide
	eloBlackSide
)

var eloSideSuffixPattern = regexp.MustCompile(`^\s*(?:for|as|with)\s+(white|black)\b`)

// sideForMatch attributes an ELO phrase to white, black or both: a color
// word directly after the phrase ("elo above 2600 for white") wins, then the
// color word most recently preceding the phrase, else both sides.
func sideForMatch(lower string, matchStart, matchEnd int) eloSide {
	if m := eloSideSuffixPattern.FindStringSubmatch(lower[matchEnd:]); m != nil {
		if m[1] == "white" {
			return eloWhiteSide
		}
		return eloBlackSide
	}
	prefix := lower[:matchStart]
	white := strings.LastIndex(prefix, "white")
	black := strings.LastIndex(prefix, "black")
	switch {
	case white < 0 && black < 0:
		return eloBothSides
	case white > black:
		return eloWhiteSide
	default:
		return eloBlackSide
	}
}

func (s *parseState) setEloMin(side eloSide, value int) {
	if side == eloWhiteSide || side == eloBothSides {
		s.criteria.WhiteEloMin = domain.IntPtr(value)
	}
	if side == eloBlackSide || side == eloBothSides {
		s.criteria.BlackEloMin = domain.IntPtr(value)
	}
}

func (s *parseState) setEloMax(side eloSide, value int) {
	if side == eloWhiteSide || side == eloBothSides {
		s.criteria.WhiteEloMax = domain.IntPtr(value)
	}
	if side == eloBlackSide || side == eloBothSides {
		s.criteria.BlackEloMax = domain.IntPtr(value)
	}
}

func extractElo(s *parseState) {
	if loc := eloBetweenPattern.FindStringSubmatchIndex(s.lower); loc != nil {
		low, _ := strconv.Atoi(s.lower[loc[2]:loc[3]])
		high, _ := strconv.Atoi(s.lower[loc[4]:loc[5]])
		if low > high {
			low, high = high, low
		}
		side := sideForMatch(s.lower, loc[0], loc[1])
		s.setEloMin(side, low)
		s.setEloMax(side, high)
		s.markEloSpan(loc[0], loc[1])
		return
	}
	if loc := eloAbovePattern.FindStringSubmatchIndex(s.lower); loc != nil {
		value, _ := strconv.Atoi(s.lower[loc[2]:loc[3]])
		s.setEloMin(sideForMatch(s.lower, loc[0], loc[1]), value)
		s.markEloSpan(loc[0], loc[1])
	}
	if loc := eloBelowPattern.FindStringSubmatchIndex(s.lower); loc != nil {
		value, _ := strconv.Atoi(s.lower[loc[2]:loc[3]])
		s.setEloMax(sideForMatch(s.lower, loc[0], loc[1]), value)
		s.markEloSpan(loc[0], loc[1])
	}
	if loc := eloMinPattern.FindStringSubmatchIndex(s.lower); loc != nil {
		value, _ := strconv.Atoi(s.lower[loc[2]:loc[3]])
		s.setEloMin(sideForMatch(s.lower, loc[0], loc[1]), value)
		s.markEloSpan(loc[0], loc[1])
	}
	if loc := eloMaxPattern.FindStringSubmatchIndex(s.lower); loc != nil {
		value, _ := strconv.Atoi(s.lower[loc[2]:loc[3]])
		s.setEloMax(sideForMatch(s.lower, loc[0], loc[1]), value)
		s.markEloSpan(loc[0], loc[1])
	}
}

// openingSynonyms maps lowercase opening mentions to canonical names.
// Longer phrases sit first so "king's indian defense" wins over "indian".
var openingSynonyms = []struct {
	phrase    string
	canonical string
}{
	{"queen's gambit declined", "Queen's Gambit Declined"},
	{"queen's gambit accepted", "Queen's Gambit Accepted"},
	{"queens gambit", "Queen's Gambit"},
	{"queen's gambit", "Queen's Gambit"},
	{"king's indian", "King's Indian Defense"},
	{"kings indian", "King's Indian Defense"},
	{"nimzo-indian", "Nimzo-Indian Defense"},
	{"nimzo indian", "Nimzo-Indian Defense"},
	{"caro-kann", "Caro-Kann Defense"},
	{"caro kann", "Caro-Kann Defense"},
	{"ruy lopez", "Ruy Lopez"},
	{"spanish opening", "Ruy Lopez"},
	{"spanish game", "Ruy Lopez"},
	{"italian game", "Italian Game"},
	{"scotch game", "Scotch Game"},
	{"vienna game", "Vienna Game"},
	{"london system", "London System"},
	{"english opening", "English Opening"},
	{"french defense", "French Defense"},
	{"french defence", "French Defense"},
	{"scandinavian", "Scandinavian Defense"},
	{"alekhine", "Alekhine's Defense"},
	{"grunfeld", "Grunfeld Defense"},
	{"najdorf", "Sicilian Defense, Najdorf Variation"},
	{"dragon variation", "Sicilian Defense, Dragon Variation"},
	{"sicilian", "Sicilian Defense"},
	{"catalan", "Catalan Opening"},
	{"benoni", "Benoni Defense"},
	{"slav defense", "Slav Defense"},
	{"slav defence", "Slav Defense"},
	{"dutch defense", "Dutch Defense"},
	{"dutch defence", "Dutch Defense"},
	{"pirc", "Pirc Defense"},
	{"king's gambit", "King's Gambit"},
	{"kings gambit", "King's Gambit"},
	{"petrov", "Petrov's Defense"},
	{"berlin defense", "Ruy Lopez, Berlin Defense"},
	{"berlin defence", "Ruy Lopez, Berlin Defense"},
}

var ecoPattern = regexp.MustCompile(`\b([A-E]\d{2})\b`)

func extractOpening(s *parseState) {
	for _, entry := range openingSynonyms {
		if strings.Contains(s.lower, entry.phrase) {
			s.criteria.OpeningName = entry.canonical
			break
		}
	}
	if match := ecoPattern.FindStringSubmatch(s.raw); match != nil {
		s.criteria.ECOCode = match[1]
	}
}

var (
	explicitPlayerPattern = regexp.MustCompile(`\b(?:games?\s+(?:by|of|played by)|player\s+\S|white\s*[:=]|black\s*[:=]|\bvs\.?\b|\bversus\b|\bagainst\b)`)

	playerByPattern      = regexp.MustCompile(`(?i)\bgames?\s+(?:by|of|played by)\s+([a-z][a-z.'\- ]{1,40})`)
	playerVsPattern      = regexp.MustCompile(`(?i)\b([a-z][a-z.'\-]{1,20}(?:\s+[a-z.'\-]{2,20}){0,2})\s+(?:vs\.?|versus|against)\s+([a-z][a-z.'\-]{1,20}(?:\s+[a-z.'\-]{2,20}){0,2})`)
	playerWhitePattern   = regexp.MustCompile(`(?i)\bwhite\s*[:=]\s*([a-z][a-z.'\- ]{1,40})`)
	playerBlackPattern   = regexp.MustCompile(`(?i)\bblack\s*[:=]\s*([a-z][a-z.'\- ]{1,40})`)
	playerNamedPattern   = regexp.MustCompile(`(?i)\bplayer\s+([a-z][a-z.'\- ]{1,40})`)
	playerTrailedPattern = regexp.MustCompile(`(?i)\b([a-z][a-z.'\-]+(?:\s+[a-z.'\-]+){0,2})(?:'s)?\s+games\b`)
)

// Vocabulary that disqualifies a candidate player name. Chess terms keep
// opening names and board vocabulary from masquerading as players; action
// verbs keep imperative query prefixes out.
var playerStopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "of": {}, "in": {},
	"on": {}, "at": {}, "for": {}, "with": {}, "all": {}, "any": {}, "some": {},
	"my": {}, "me": {}, "his": {}, "her": {}, "their": {}, "recent": {}, "best": {},
	"top": {}, "good": {}, "great": {}, "famous": {}, "more": {}, "most": {},
}

var chessTerms = map[string]struct{}{
	"chess": {}, "game": {}, "games": {}, "opening": {}, "openings": {},
	"defense": {}, "defence": {}, "gambit": {}, "variation": {}, "attack": {},
	"endgame": {}, "middlegame": {}, "position": {}, "positions": {}, "board": {},
	"white": {}, "black": {}, "elo": {}, "rating": {}, "rated": {}, "fen": {},
	"checkmate": {}, "check": {}, "stalemate": {}, "draw": {}, "drawn": {},
	"win": {}, "wins": {}, "won": {}, "loss": {}, "lost": {},
	"tournament": {}, "championship": {}, "blitz": {},
	"rapid": {}, "classical": {}, "bullet": {}, "sicilian": {}, "french": {},
	"english": {}, "italian": {}, "spanish": {}, "indian": {}, "dutch": {},
	"slav": {}, "catalan": {}, "pirc": {}, "najdorf": {}, "dragon": {},
	"current": {}, "this": {}, "that": {},
}

var actionVerbs = map[string]struct{}{
	"find": {}, "show": {}, "get": {}, "give": {}, "list": {}, "search": {},
	"display": {}, "fetch": {}, "tell": {}, "explain": {}, "analyze": {},
	"analyse": {}, "compare": {}, "look": {}, "want": {}, "need": {},
}

// IsLikelyPlayerName applies the acceptance guard for extracted player
// candidates: at most three words of 2-15 runes, letters plus the hyphens,
// apostrophes and dots surnames carry, none of them a stopword, chess term,
// opening name or action verb.
func IsLikelyPlayerName(candidate string) bool {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return false
	}
	lower := strings.ToLower(candidate)
	for _, entry := range openingSynonyms {
		if lower == entry.phrase || lower == strings.ToLower(entry.canonical) {
			return false
		}
	}

	words := strings.Fields(lower)
	if len(words) == 0 || len(words) > 3 {
		return false
	}
	for _, word := range words {
		word = strings.Trim(word, ".'-")
		runes := []rune(word)
		if len(runes) < 2 || len(runes) > 15 {
			return false
		}
		for _, r := range runes {
			if !unicode.IsLetter(r) && r != '-' && r != '\'' && r != '.' {
				return false
			}
		}
		if _, ok := playerStopwords[word]; ok {
			return false
		}
		if _, ok := chessTerms[word]; ok {
			return false
		}
		if _, ok := actionVerbs[word]; ok {
			return false
		}
	}
	return true
}

func cleanPlayerCandidate(candidate string) string {
	candidate = strings.TrimSpace(candidate)
	// Capture groups are greedy across spaces; cut at the first connective,
	// color word or rating phrase.
	for _, stop := range []string{" with ", " in ", " at ", " from ", " where ", " that ", " games", " white", " black", " rated", " elo", " rating"} {
		if idx := strings.Index(strings.ToLower(candidate), stop); idx >= 0 {
			candidate = candidate[:idx]
		}
	}
	candidate = strings.TrimSpace(candidate)
	return strings.TrimSuffix(candidate, "'s")
}

func extractPlayers(s *parseState) {
	// A FEN query targets positions across players; player extraction is
	// skipped unless the query explicitly also asks for a player. Likewise
	// an ELO phrase without an explicit player request means the numbers
	// were the point, not a name.
	if s.fenFound && !s.playerAsked {
		return
	}
	if s.eloFound && !s.playerAsked {
		return
	}

	if match := playerVsPattern.FindStringSubmatch(s.raw); match != nil {
		white := cleanPlayerCandidate(match[1])
		black := cleanPlayerCandidate(match[2])
		if IsLikelyPlayerName(white) && IsLikelyPlayerName(black) {
			s.criteria.WhitePlayer = white
			s.criteria.BlackPlayer = black
			return
		}
	}

	whiteSet := false
	if match := playerWhitePattern.FindStringSubmatch(s.raw); match != nil {
		if candidate := cleanPlayerCandidate(match[1]); IsLikelyPlayerName(candidate) {
			s.criteria.WhitePlayer = candidate
			whiteSet = true
		}
	}
	if match := playerBlackPattern.FindStringSubmatch(s.raw); match != nil {
		if candidate := cleanPlayerCandidate(match[1]); IsLikelyPlayerName(candidate) {
			s.criteria.BlackPlayer = candidate
			whiteSet = true
		}
	}
	if whiteSet {
		return
	}

	for _, pattern := range []*regexp.Regexp{playerByPattern, playerNamedPattern, playerTrailedPattern} {
		match := pattern.FindStringSubmatch(s.raw)
		if match == nil {
			continue
		}
		candidate := trimLeadingNoise(cleanPlayerCandidate(match[1]))
		if IsLikelyPlayerName(candidate) {
			s.criteria.AnyPlayer = candidate
			return
		}
	}
}

// trimLeadingNoise drops leading verbs and filler ("find Carlsen" ->
// "Carlsen") so the trailing "X games" pattern survives imperative prefixes.
func trimLeadingNoise(candidate string) string {
	words := strings.Fields(candidate)
	for len(words) > 1 {
		first := strings.ToLower(strings.Trim(words[0], ".'-"))
		_, verb := actionVerbs[first]
		_, stop := playerStopwords[first]
		_, term := chessTerms[first]
		if !verb && !stop && !term {
			break
		}
		words = words[1:]
	}
	return strings.Join(words, " ")
}

var (
	eventPattern      = regexp.MustCompile(`(?i)\b(?:at|in|from)\s+(?:the\s+)?([a-z][a-z0-9.'\- ]*?(?:tournament|championship|olympiad|open|cup|classic|masters|invitational))\b`)
	knownEventPattern = regexp.MustCompile(`(?i)\b(world championship|candidates|tata steel|wijk aan zee|linares|sinquefield cup|norway chess)\b`)
)

func extractEvent(s *parseState) {
	if match := eventPattern.FindStringSubmatch(s.raw); match != nil {
		s.criteria.Event = strings.TrimSpace(match[1])
		return
	}
	if match := knownEventPattern.FindStringSubmatch(s.raw); match != nil {
		s.criteria.Event = strings.TrimSpace(match[1])
	}
}

var (
	yearRangePattern  = regexp.MustCompile(`\b(?:from|between)\s+((?:18|19|20)\d{2})\s+(?:to|and|until)\s+((?:18|19|20)\d{2})\b`)
	yearBeforePattern = regexp.MustCompile(`\bbefore\s+((?:18|19|20)\d{2})\b`)
	yearAfterPattern  = regexp.MustCompile(`\b(?:after|since)\s+((?:18|19|20)\d{2})\b`)
	yearPattern       = regexp.MustCompile(`\b((?:18|19|20)\d{2})\b`)
)

func extractDate(s *parseState) {
	// A date-shaped number pair already consumed by an ELO rule stays an
	// ELO filter ("elo between 1900 and 2000").
	if loc := yearRangePattern.FindStringSubmatchIndex(s.lower); loc != nil && !s.insideEloPhrase(loc[0], loc[1]) {
		s.criteria.DateFrom = s.lower[loc[2]:loc[3]]
		s.criteria.DateTo = s.lower[loc[4]:loc[5]]
		return
	}
	if loc := yearBeforePattern.FindStringSubmatchIndex(s.lower); loc != nil && !s.insideEloPhrase(loc[0], loc[1]) {
		s.criteria.DateTo = s.lower[loc[2]:loc[3]]
		return
	}
	if loc := yearAfterPattern.FindStringSubmatchIndex(s.lower); loc != nil && !s.insideEloPhrase(loc[0], loc[1]) {
		s.criteria.DateFrom = s.lower[loc[2]:loc[3]]
		return
	}
	// A bare year inside a FEN would be a move counter, and a rating bound
	// like "below 2000" reads as a year; both skip the fallback.
	if s.fenFound || s.eloFound {
		return
	}
	if match := yearPattern.FindStringSubmatch(s.lower); match != nil {
		if year, err := strconv.Atoi(match[1]); err == nil {
			s.criteria.Year = year
		}
	}
}

var (
	whiteWinsPattern = regexp.MustCompile(`\bwhite\s+(?:wins|won|victor)`)
	blackWinsPattern = regexp.MustCompile(`\bblack\s+(?:wins|won|victor)`)
	drawPattern      = regexp.MustCompile(`\b(?:draws?|drawn|drew|ended in a draw)\b`)
)

func extractResult(s *parseState) {
	switch {
	case whiteWinsPattern.MatchString(s.lower):
		s.criteria.Result = domain.ResultWhiteWin
	case blackWinsPattern.MatchString(s.lower):
		s.criteria.Result = domain.ResultBlackWin
	case drawPattern.MatchString(s.lower):
		s.criteria.Result = domain.ResultDraw
	}
}

var limitPattern = regexp.MustCompile(`\b(?:show|find|top|first|limit|give me|get)\s+(\d{1,3})\b`)

func extractLimit(s *parseState) {
	match := limitPattern.FindStringSubmatch(s.lower)
	if match == nil {
		return
	}
	limit, err := strconv.Atoi(match[1])
	if err != nil || limit <= 0 {
		return
	}
	if limit > domain.MaxResultLimit {
		limit = domain.MaxResultLimit
	}
	s.criteria.Limit = limit
}
