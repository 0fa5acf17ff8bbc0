package dto

// MetaResponse is the category-wide enumeration catalog consumed by both
// the browse filters and the upload form.
type MetaResponse struct {
	Years                   []string `json:"years"`
	Streams                 []string `json:"streams"`
	Classes                 []string `json:"classes"`
	EngineeringDepartments  []string `json:"engineeringDepartments"`
	IntermediateDepartments []string `json:"intermediateDepartments"`
	SchoolDepartments       []string `json:"schoolDepartments"`
}
