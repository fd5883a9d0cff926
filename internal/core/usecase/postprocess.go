package usecase

import (
	"sort"
	"strings"

	"github.com/kirillkom/chess-assistant/internal/core/domain"
)

const (
	postProcessCap       = 25
	diversityThreshold   = 10
	minUsefulConfidence  = 0.3
	qualityWeight        = 0.4
	relevanceWeight      = 0.6
	confidenceBlend      = 0.5
	matchTierBlend       = 0.3
	positionPresentBlend = 0.2
)

// categoryKeywords classifies textual content when no structural field
// identifies it. First matching category wins; order is deliberate.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"opening", []string{"opening", "gambit", "defense", "defence", "variation", "repertoire"}},
	{"endgame", []string{"endgame", "ending", "zugzwang", "opposition", "lucena", "philidor"}},
	{"tactics", []string{"tactic", "fork", "pin", "skewer", "combination", "sacrifice", "mate in"}},
	{"strategy", []string{"strategy", "strategic", "pawn structure", "weak square", "outpost", "prophylaxis"}},
	{"analysis", []string{"analysis", "annotated", "evaluation", "engine line", "critical moment"}},
}

// matchTierWeights weigh how a document was associated with the query:
// exact position equality outranks normalized matching, which outranks
// proximity/prefix matching, which outranks semantic similarity.
var matchTierWeights = map[string]float64{
	domain.FENMatchExact:      1.0,
	domain.FENMatchNormalized: 0.8,
	domain.FENMatchPrefix:     0.6,
	domain.FENMatchStarting:   0.5,
}

// PostProcess classifies, scores, deduplicates and diversifies executor
// output. Error and message documents pass through untouched ahead of
// content so callers always see them.
func PostProcess(docs []domain.RetrievalDocument, criteria domain.FilterCriteria) []domain.RetrievalDocument {
	passthrough := make([]domain.RetrievalDocument, 0, 1)
	content := make([]domain.RetrievalDocument, 0, len(docs))
	for _, doc := range docs {
		if !doc.IsContent() {
			passthrough = append(passthrough, doc)
			continue
		}
		content = append(content, doc)
	}

	content = dedupeByID(content)
	for i := range content {
		content[i].Category = classifyDocument(content[i])
		content[i].QualityScore = qualityScore(content[i])
	}
	content = dropSpeculative(content)
	sortByComposite(content)
	content = diversify(content)

	out := make([]domain.RetrievalDocument, 0, len(passthrough)+len(content))
	out = append(out, passthrough...)
	out = append(out, content...)
	return out
}

func classifyDocument(doc domain.RetrievalDocument) string {
	if doc.Type == domain.DocumentGame {
		return "game"
	}
	text := strings.ToLower(doc.ContentString("text") + " " + doc.ContentString("topic") + " " + doc.ContentString("title"))
	for _, entry := range categoryKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(text, keyword) {
				return entry.category
			}
		}
	}
	if doc.Type == domain.DocumentLesson {
		return "lesson"
	}
	return "general"
}

// qualityScore blends association confidence, the match-tier weight and a
// bonus for carrying a resolved position.
func qualityScore(doc domain.RetrievalDocument) float64 {
	tier := matchTierWeights[doc.FENMatchType]
	if doc.FENMatchType == "" {
		// Semantic hits carry no tier; weigh them below any position match.
		tier = 0.4
	}
	positionBonus := 0.0
	if hasResolvedPosition(doc) {
		positionBonus = 1.0
	}
	return confidenceBlend*doc.Confidence + matchTierBlend*tier + positionPresentBlend*positionBonus
}

func hasResolvedPosition(doc domain.RetrievalDocument) bool {
	for _, field := range []string{"fen", "final_fen", "mid_game_fen"} {
		if doc.ContentString(field) != "" {
			return true
		}
	}
	return false
}

func compositeScore(doc domain.RetrievalDocument) float64 {
	return qualityWeight*doc.QualityScore + relevanceWeight*doc.RelevanceScore
}

// dropSpeculative removes documents whose association confidence sits in
// (0, 0.3), too speculative to surface, unless nothing better survives.
func dropSpeculative(docs []domain.RetrievalDocument) []domain.RetrievalDocument {
	kept := make([]domain.RetrievalDocument, 0, len(docs))
	for _, doc := range docs {
		if doc.Confidence > 0 && doc.Confidence < minUsefulConfidence {
			continue
		}
		kept = append(kept, doc)
	}
	if len(kept) == 0 {
		return docs
	}
	return kept
}

func dedupeByID(docs []domain.RetrievalDocument) []domain.RetrievalDocument {
	seen := make(map[string]struct{}, len(docs))
	out := make([]domain.RetrievalDocument, 0, len(docs))
	for _, doc := range docs {
		if _, ok := seen[doc.ID]; ok {
			continue
		}
		seen[doc.ID] = struct{}{}
		out = append(out, doc)
	}
	return out
}

func sortByComposite(docs []domain.RetrievalDocument) {
	sort.SliceStable(docs, func(i, j int) bool {
		si, sj := compositeScore(docs[i]), compositeScore(docs[j])
		if si != sj {
			return si > sj
		}
		return docs[i].ID < docs[j].ID
	})
}

// diversify caps the list and, for large result sets, prefers one document
// per lesson/topic grouping in a first pass before filling the remaining
// slots from the ranked remainder.
func diversify(docs []domain.RetrievalDocument) []domain.RetrievalDocument {
	if len(docs) <= diversityThreshold {
		if len(docs) > postProcessCap {
			return docs[:postProcessCap]
		}
		return docs
	}

	seenGroups := make(map[string]struct{}, len(docs))
	picked := make([]domain.RetrievalDocument, 0, postProcessCap)
	remainder := make([]domain.RetrievalDocument, 0, len(docs))

	for _, doc := range docs {
		group := groupKey(doc)
		if group != "" {
			if _, ok := seenGroups[group]; ok {
				remainder = append(remainder, doc)
				continue
			}
			seenGroups[group] = struct{}{}
		}
		picked = append(picked, doc)
		if len(picked) == postProcessCap {
			return picked
		}
	}

	for _, doc := range remainder {
		picked = append(picked, doc)
		if len(picked) == postProcessCap {
			break
		}
	}
	return picked
}

func groupKey(doc domain.RetrievalDocument) string {
	if id := doc.ContentString("lesson_id"); id != "" {
		return "lesson:" + id
	}
	if topic := doc.ContentString("topic"); topic != "" {
		return "topic:" + strings.ToLower(topic)
	}
	return ""
}
