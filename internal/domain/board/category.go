package board

import "strings"

// Canonical board categories.
const (
	CategoryNotice = "공지"
	CategoryFree   = "자유"
	CategoryQnA    = "Q&A"
	CategoryInfo   = "정보"

	// CategoryAll is the tab label meaning "no filter".
	CategoryAll = "전체"
)

// Categories lists the canonical categories in tab order.
var Categories = []string{CategoryNotice, CategoryFree, CategoryQnA, CategoryInfo}

var aliasGroups = []struct {
	canonical string
	aliases   []string
}{
	{"", []string{CategoryAll, "all"}},
	{CategoryNotice, []string{"공지", "공지사항", "notice", "notices", "announcement"}},
	{CategoryFree, []string{"자유", "자유게시판", "free", "general"}},
	{CategoryQnA, []string{"q&a", "qna", "qa", "question", "questions", "질문", "질문답변"}},
	{CategoryInfo, []string{"정보", "정보공유", "info", "information"}},
}

// categoryAliases is keyed by lower-cased alias.
var categoryAliases = func() map[string]string {
	m := make(map[string]string)
	for _, group := range aliasGroups {
		for _, alias := range group.aliases {
			m[strings.ToLower(alias)] = group.canonical
		}
	}
	return m
}()

// NormalizeCategory maps a user facing label to its canonical category. "전체", "all" and blank
// input mean no filter and yield "". Unknown labels pass through trimmed so that categories the
// server adds later still filter.
func NormalizeCategory(label string) string {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return ""
	}
	if canonical, ok := categoryAliases[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

// IsCanonicalCategory reports whether c is one of the four board categories.
func IsCanonicalCategory(c string) bool {
	for _, candidate := range Categories {
		if candidate == c {
			return true
		}
	}
	return false
}

// EditorCategory resolves the category chosen in the post editor. Anything that does not
// normalize to a canonical category falls back to the notice board.
func EditorCategory(label string) string {
	if c := NormalizeCategory(label); IsCanonicalCategory(c) {
		return c
	}
	return CategoryNotice
}
