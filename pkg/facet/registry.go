package facet

// Kind describes where a facet's values come from.
type Kind string

const (
	// Enumerated facets draw their options from the meta catalog.
	Enumerated Kind = "enumerated"
	// FreeTextWithSuggestions facets are typed by the user with prefix
	// typeahead backed by previously stored values.
	FreeTextWithSuggestions Kind = "freeTextWithSuggestions"
	// NumericRange facets are picked from a bounded numeric range.
	NumericRange Kind = "numericRange"
)

// Facet names shared by the upload form and the browse filters. Both sides
// go through FacetsFor, so a facet collected at upload time is always
// filterable at browse time.
const (
	NameInstitute  = "institute"
	NameState      = "state"
	NameDistrict   = "district"
	NameDepartment = "department"
	NameYear       = "year"
	NameSemester   = "semester"
	NameStream     = "stream"
	NameClassLevel = "classLevel"
)

// Descriptor declares one facet of a category's schema.
type Descriptor struct {
	Name string
	Kind Kind
	// Multi marks facets that hold several values at once.
	Multi bool
	// DependsOn names the parent facet whose value scopes this facet's
	// suggestions. Suggestions for a dependent facet with no parent value
	// resolve empty.
	DependsOn string
	// OptionsSource is the meta catalog key for enumerated facets.
	OptionsSource string
}

var schemas = map[Category][]Descriptor{
	CategoryEngineering: {
		{Name: NameInstitute, Kind: FreeTextWithSuggestions},
		{Name: NameState, Kind: FreeTextWithSuggestions},
		{Name: NameDistrict, Kind: FreeTextWithSuggestions, DependsOn: NameState},
		{Name: NameDepartment, Kind: FreeTextWithSuggestions, Multi: true, DependsOn: NameInstitute},
		{Name: NameYear, Kind: Enumerated, OptionsSource: "years"},
		{Name: NameSemester, Kind: NumericRange},
	},
	CategoryIntermediate: {
		{Name: NameInstitute, Kind: FreeTextWithSuggestions},
		{Name: NameState, Kind: FreeTextWithSuggestions},
		{Name: NameDistrict, Kind: FreeTextWithSuggestions, DependsOn: NameState},
		{Name: NameStream, Kind: Enumerated, OptionsSource: "streams"},
		{Name: NameYear, Kind: NumericRange},
	},
	CategorySchool: {
		{Name: NameInstitute, Kind: FreeTextWithSuggestions},
		{Name: NameState, Kind: FreeTextWithSuggestions},
		{Name: NameDistrict, Kind: FreeTextWithSuggestions, DependsOn: NameState},
		{Name: NameClassLevel, Kind: Enumerated, OptionsSource: "classes"},
	},
}

// FacetsFor returns the ordered facet schema for a category. Pure, no I/O;
// unknown categories yield nil.
func FacetsFor(c Category) []Descriptor {
	schema, ok := schemas[c]
	if !ok {
		return nil
	}
	out := make([]Descriptor, len(schema))
	copy(out, schema)
	return out
}

// Allowed reports whether a facet name is declared for the category.
func Allowed(c Category, name string) bool {
	for _, d := range schemas[c] {
		if d.Name == name {
			return true
		}
	}
	return false
}

// Lookup returns the descriptor for a facet under a category.
func Lookup(c Category, name string) (Descriptor, bool) {
	for _, d := range schemas[c] {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}
