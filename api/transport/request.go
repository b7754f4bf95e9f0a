package transport

type RegisterRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio"`
	Password    string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TaskRequest creates a commitment. Deadline uses the HTML datetime-local
// format (2006-01-02T15:04); empty means no deadline.
type TaskRequest struct {
	Title       string `json:"task_title"`
	Deadline    string `json:"deadline"`
	PenaltyText string `json:"penalty_text"`
}

type GroupCreateRequest struct {
	Name string `json:"name"`
}

type GroupJoinRequest struct {
	InviteCode string `json:"invite_code"`
}
