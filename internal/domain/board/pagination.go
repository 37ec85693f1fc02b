package board

// DefaultGroupSize is the number of page links shown at once.
const DefaultGroupSize = 5

// PaginationWindow is the group of page links shown around the active page.
type PaginationWindow struct {
	PageNumbers   []int `json:"pageNumbers"`
	ActivePage    int   `json:"activePage"`
	PrevGroupPage int   `json:"prevGroupPage"`
	NextGroupPage int   `json:"nextGroupPage"`
	HasPrevGroup  bool  `json:"hasPrevGroup"`
	HasNextGroup  bool  `json:"hasNextGroup"`
}

// Window computes the fixed-size page group containing activePage.
func Window(activePage, totalPages, groupSize int) PaginationWindow {
	if groupSize <= 0 {
		groupSize = DefaultGroupSize
	}
	if totalPages < 1 {
		totalPages = 1
	}
	if activePage < 1 {
		activePage = 1
	}

	groupStart := (activePage-1)/groupSize*groupSize + 1
	groupEnd := min(groupStart+groupSize-1, totalPages)

	pages := make([]int, 0, groupSize)
	for p := groupStart; p <= groupEnd; p++ {
		pages = append(pages, p)
	}
	if len(pages) == 0 {
		pages = append(pages, 1)
	}

	return PaginationWindow{
		PageNumbers:   pages,
		ActivePage:    activePage,
		PrevGroupPage: max(groupStart-groupSize, 1),
		NextGroupPage: groupStart + groupSize,
		HasPrevGroup:  groupStart > 1,
		HasNextGroup:  groupEnd < totalPages,
	}
}
