package extract

// Vocabulary holds every keyword list and literal the pipeline matches against.
// Values are copied into the Extractor at construction time and never mutated.
type Vocabulary struct {
	// TableMarkers pick the results table. The search keyword is appended per call.
	TableMarkers []string
	// HeaderMarkers identify a header first row.
	HeaderMarkers []string
	// TotalCountPrefix and TotalCountSuffix surround the row count of the footer ("共12筆").
	TotalCountPrefix string
	TotalCountSuffix string

	// TitleKeywords are scanned in order; the first one found splits title from organization.
	TitleKeywords []string
	// FallbackTitleRunes is the fixed title width used when no keyword is found.
	FallbackTitleRunes int

	RankTiers        []string
	RankUnit         string
	RankContinuation string
	ValidityLabel    string
	RemarksLabel     string

	// DefaultKeyword is the target job family when the caller passes no keyword.
	DefaultKeyword string
	// UnresolvedRank is written to RankRange by the fallback classifier.
	UnresolvedRank string
}

// DefaultVocabulary returns the vocabulary of the DGPA vacancy search.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		TableMarkers:     []string{"職稱", "機關名稱"},
		HeaderMarkers:    []string{"職稱", "機關名稱", "序號"},
		TotalCountPrefix: "共",
		TotalCountSuffix: "筆",
		TitleKeywords: []string{
			"書記官", "科員", "助理員", "專員", "技士", "分析師", "辦事員", "技佐", "主任", "幹事",
		},
		FallbackTitleRunes: 3,
		RankTiers:          []string{"委任", "薦任", "簡任"},
		RankUnit:           "職等",
		RankContinuation:   "或",
		ValidityLabel:      "有效期間",
		RemarksLabel:       "備註",
		DefaultKeyword:     "統計",
		UnresolvedRank:     "未解析",
	}
}

func (v Vocabulary) clone() Vocabulary {
	v.TableMarkers = append([]string(nil), v.TableMarkers...)
	v.HeaderMarkers = append([]string(nil), v.HeaderMarkers...)
	v.TitleKeywords = append([]string(nil), v.TitleKeywords...)
	v.RankTiers = append([]string(nil), v.RankTiers...)
	return v
}
