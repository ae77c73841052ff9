package issue

// CategoryGroup is the findings of one category within a classification.
type CategoryGroup struct {
	Category string    `json:"category" msgpack:"category"`
	Size     int       `json:"size" msgpack:"size"`
	Entries  []Finding `json:"entries" msgpack:"entries"`
}

// ClassGroup is the findings of one classification, split by category.
type ClassGroup struct {
	Classification string          `json:"class" msgpack:"class"`
	Size           int             `json:"size" msgpack:"size"`
	Categories     []CategoryGroup `json:"categories" msgpack:"categories"`
}

// Aggregate groups findings by classification, then by category, keeping
// first-seen order at both levels and original order inside each bucket.
// It is pure; empty input yields an empty, non-nil slice.
func Aggregate(findings []Finding) []ClassGroup {
	byClass := newOrdered(4)
	for _, f := range findings {
		byClass.add(f.Classification, f)
	}

	out := make([]ClassGroup, 0, byClass.len())
	byClass.each(func(class string, members []Finding) {
		byCategory := newOrdered(4)
		for _, f := range members {
			byCategory.add(f.Category, f)
		}
		cats := make([]CategoryGroup, 0, byCategory.len())
		byCategory.each(func(category string, entries []Finding) {
			cats = append(cats, CategoryGroup{
				Category: category,
				Size:     len(entries),
				Entries:  entries,
			})
		})
		out = append(out, ClassGroup{
			Classification: class,
			Size:           len(members),
			Categories:     cats,
		})
	})
	return out
}

// Category returns the group for name, if present.
func (g ClassGroup) Category(name string) (CategoryGroup, bool) {
	for _, c := range g.Categories {
		if c.Category == name {
			return c, true
		}
	}
	return CategoryGroup{}, false
}

// Total returns the number of findings across all groups.
func Total(groups []ClassGroup) int {
	n := 0
	for _, g := range groups {
		n += g.Size
	}
	return n
}

// Find returns the group for classification, if present.
func Find(groups []ClassGroup, classification string) (ClassGroup, bool) {
	for _, g := range groups {
		if g.Classification == classification {
			return g, true
		}
	}
	return ClassGroup{}, false
}

// Flatten lists the grouped findings classification-major, category-minor.
// For input whose classifications and categories are already contiguous it
// reproduces the original sequence.
func Flatten(groups []ClassGroup) []Finding {
	out := make([]Finding, 0, Total(groups))
	for _, g := range groups {
		for _, c := range g.Categories {
			out = append(out, c.Entries...)
		}
	}
	return out
}
