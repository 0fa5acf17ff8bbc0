package facet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFacetsFor(t *testing.T) {
	tests := []struct {
		name      string
		category  Category
		wantNames []string
	}{
		{
			name:      "engineering schema",
			category:  CategoryEngineering,
			wantNames: []string{"institute", "state", "district", "department", "year", "semester"},
		},
		{
			name:      "intermediate schema",
			category:  CategoryIntermediate,
			wantNames: []string{"institute", "state", "district", "stream", "year"},
		},
		{
			name:      "school schema",
			category:  CategorySchool,
			wantNames: []string{"institute", "state", "district", "classLevel"},
		},
		{
			name:      "unknown category",
			category:  Category("college"),
			wantNames: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			descriptors := FacetsFor(tt.category)
			names := make([]string, 0, len(descriptors))
			for _, d := range descriptors {
				names = append(names, d.Name)
			}
			if tt.wantNames == nil {
				assert.Empty(t, names)
				return
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestFacetsForOrderingIsStable(t *testing.T) {
	first := FacetsFor(CategoryEngineering)
	second := FacetsFor(CategoryEngineering)
	assert.Equal(t, first, second)

	// Mutating a returned slice must not leak into the registry.
	first[0].Name = "mutated"
	assert.Equal(t, "institute", FacetsFor(CategoryEngineering)[0].Name)
}

func TestDependentFacetDeclarations(t *testing.T) {
	for _, c := range Categories() {
		district, ok := Lookup(c, NameDistrict)
		assert.True(t, ok)
		assert.Equal(t, NameState, district.DependsOn, "district depends on state under %s", c)
	}

	department, ok := Lookup(CategoryEngineering, NameDepartment)
	assert.True(t, ok)
	assert.True(t, department.Multi)
	assert.Equal(t, NameInstitute, department.DependsOn)
}

func TestSetRejectsUndeclaredFacets(t *testing.T) {
	s := NewSet(CategorySchool)
	assert.False(t, s.Put(NameStream, "MPC"))
	assert.False(t, s.PutValues(NameDepartment, []string{"CSE"}))
	assert.Equal(t, 0, s.Len())

	assert.True(t, s.Put(NameClassLevel, "10"))
	assert.Equal(t, "10", s.Get(NameClassLevel))
}

func TestSwitchCategoryDropsIllegalFacets(t *testing.T) {
	s := NewSet(CategoryEngineering)
	s.PutValues(NameDepartment, []string{"CSE"})
	s.Put(NameSemester, "5")
	s.Put(NameInstitute, "JNTU Hyderabad")
	s.Put(NameState, "Telangana")

	dropped := s.SwitchCategory(CategorySchool)

	assert.Equal(t, []string{"department", "semester"}, dropped)
	assert.Empty(t, s.Values(NameDepartment))
	assert.Equal(t, "", s.Get(NameSemester))
	assert.Equal(t, "JNTU Hyderabad", s.Get(NameInstitute))
	assert.Equal(t, "Telangana", s.Get(NameState))
}

func TestInstituteChangeResetsDepartments(t *testing.T) {
	s := NewSet(CategoryEngineering)
	s.Put(NameInstitute, "JNTU Hyderabad")
	s.PutValues(NameDepartment, []string{"CSE", "ECE"})

	s.Put(NameInstitute, "Osmania University")

	assert.Empty(t, s.Values(NameDepartment))
	assert.Equal(t, "Osmania University", s.Get(NameInstitute))
}

func TestPutEmptyValueClearsFacet(t *testing.T) {
	s := NewSet(CategoryIntermediate)
	s.Put(NameStream, "MPC")
	s.Put(NameStream, "")
	assert.Equal(t, 0, s.Len())
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		parsed, ok := ParseCategory(string(c))
		assert.True(t, ok)
		assert.Equal(t, c, parsed)
	}
	_, ok := ParseCategory("university")
	assert.False(t, ok)
}
