package dto

type ReportRow struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type ReportResponse struct {
	Period string      `json:"period"`
	Title  string      `json:"title"`
	From   string      `json:"from"`
	To     string      `json:"to"`
	Rows   []ReportRow `json:"rows"`
}
