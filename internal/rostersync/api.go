package rostersync

// RosterItem is a single table record from the upstream POS API.
type RosterItem struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Seats  int    `json:"seats"`
	State  int    `json:"state"`
	Active *bool  `json:"active"`
}

// ApiResponse models the top-level structure of the upstream API's response.
type ApiResponse struct {
	Code int `json:"code"`
	Data struct {
		Page     int          `json:"page"`
		PageSize int          `json:"pageSize"`
		Total    int          `json:"total"`
		Items    []RosterItem `json:"items"`
	} `json:"data"`
}
