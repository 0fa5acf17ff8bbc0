package facet

// Category selects which facet schema applies. The three taxonomies are
// mutually exclusive: a note belongs to exactly one.
type Category string

const (
	CategorySchool       Category = "school"
	CategoryIntermediate Category = "intermediate"
	CategoryEngineering  Category = "engineering"
)

func Categories() []Category {
	return []Category{CategorySchool, CategoryIntermediate, CategoryEngineering}
}

func ParseCategory(s string) (Category, bool) {
	switch Category(s) {
	case CategorySchool, CategoryIntermediate, CategoryEngineering:
		return Category(s), true
	}
	return "", false
}

func (c Category) Valid() bool {
	_, ok := ParseCategory(string(c))
	return ok
}

func (c Category) String() string {
	return string(c)
}
