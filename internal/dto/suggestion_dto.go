package dto

type InstitutesResponse struct {
	Institutes []string `json:"institutes"`
}

type StatesResponse struct {
	States []string `json:"states"`
}

type DistrictsResponse struct {
	Districts []string `json:"districts"`
}

type DepartmentsResponse struct {
	Departments []string `json:"departments"`
}
