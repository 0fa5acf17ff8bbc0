package discovery

import (
	"testing"

	"edunotes-be/pkg/facet"

	"github.com/stretchr/testify/assert"
)

func TestBuildQuery(t *testing.T) {
	set := facet.NewSet(facet.CategoryEngineering)
	set.Put(facet.NameInstitute, "IIT Madras")
	set.Put(facet.NameState, "Tamil Nadu")
	set.PutValues(facet.NameDepartment, []string{"CSE", "ECE"})
	set.Put(facet.NameYear, "2nd Year")

	values := BuildQuery(facet.CategoryEngineering, set, "  signals ")

	assert.Equal(t, "engineering", values.Get("category"))
	assert.Equal(t, "IIT Madras", values.Get("institute"))
	assert.Equal(t, "Tamil Nadu", values.Get("state"))
	assert.Equal(t, "CSE,ECE", values.Get("department"))
	assert.Equal(t, "2nd Year", values.Get("year"))
	assert.Equal(t, "signals", values.Get("q"))

	// Unset facets are omitted entirely.
	_, hasDistrict := values["district"]
	assert.False(t, hasDistrict)
	_, hasSemester := values["semester"]
	assert.False(t, hasSemester)
}

func TestBuildQueryDropsStaleFacetsAfterCategorySwitch(t *testing.T) {
	set := facet.NewSet(facet.CategoryEngineering)
	set.Put(facet.NameInstitute, "IIT Madras")
	set.PutValues(facet.NameDepartment, []string{"CSE"})
	set.Put(facet.NameSemester, "3")

	dropped := set.SwitchCategory(facet.CategorySchool)
	assert.ElementsMatch(t, []string{facet.NameDepartment, facet.NameSemester}, dropped)

	values := BuildQuery(facet.CategorySchool, set, "")

	assert.Equal(t, "school", values.Get("category"))
	assert.Equal(t, "IIT Madras", values.Get("institute"))
	_, hasDepartment := values["department"]
	assert.False(t, hasDepartment)
	_, hasSemester := values["semester"]
	assert.False(t, hasSemester)
}

func TestRefineByInstitutePrefix(t *testing.T) {
	notes := []Note{
		{ID: "1", Institute: "IIT Madras"},
		{ID: "2", Institute: "iit Bombay"},
		{ID: "3", Institute: "NIT Warangal"},
	}

	refined := RefineByInstitutePrefix(notes, "iIt")
	assert.Len(t, refined, 2)
	assert.Equal(t, "1", refined[0].ID)
	assert.Equal(t, "2", refined[1].ID)

	// Idempotent: refining the refined set changes nothing.
	again := RefineByInstitutePrefix(refined, "iIt")
	assert.Equal(t, refined, again)

	// Empty prefix is the identity.
	assert.Equal(t, notes, RefineByInstitutePrefix(notes, "  "))

	// The input is never mutated.
	assert.Len(t, notes, 3)
}
