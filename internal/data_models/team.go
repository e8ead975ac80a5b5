package dto

type CreateTeamRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Color    string `json:"color"`
	Position *int   `json:"position"`
}

type UpdateTeamRequest struct {
	Name     *string `json:"name"`
	Type     *string `json:"type"`
	Color    *string `json:"color"`
	Position *int    `json:"position"`
}

// ColumnRequest adds or edits a board column. On edit only the set fields change.
type ColumnRequest struct {
	ID            string  `json:"id"`
	Name          *string `json:"name"`
	Color         *string `json:"color"`
	Position      *int    `json:"position"`
	HandoffTarget *bool   `json:"is_handoff_target"`
	Done          *bool   `json:"is_done"`
}
