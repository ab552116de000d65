package folio

// DefaultPageBudget is the usable A4 height (297mm) minus top and bottom
// margins (2 x 20mm), in estimator units.
const DefaultPageBudget = 257

// Page is a group of sections rendered on one physical page.
type Page struct {
	Number   int // 1-based
	Sections []Section
	Height   int // sum of the sections' estimated heights
	First    bool
	Last     bool
}

// Paginate splits sections into pages, in order, without ever splitting a
// section. A new page starts when the next section would push the current
// page over budget. A section taller than the budget gets a page of its own.
// Sections must already be sorted (see SortSections).
// A budget <= 0 falls back to DefaultPageBudget.
func Paginate(sections []Section, budget int) []Page {
	if budget <= 0 {
		budget = DefaultPageBudget
	}
	if len(sections) == 0 {
		return nil
	}

	var pages []Page
	var current []Section
	height := 0

	for _, s := range sections {
		h := EstimateHeight(s)
		if height+h > budget && len(current) > 0 {
			pages = append(pages, Page{Sections: current, Height: height})
			current = nil
			height = 0
		}
		current = append(current, s)
		height += h
	}
	if len(current) > 0 {
		pages = append(pages, Page{Sections: current, Height: height})
	}

	for i := range pages {
		pages[i].Number = i + 1
		pages[i].First = i == 0
		pages[i].Last = i == len(pages)-1
	}
	return pages
}

// Layout sorts sections by Order and paginates them.
func Layout(sections []Section, budget int) []Page {
	return Paginate(SortSections(sections), budget)
}
