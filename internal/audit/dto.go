package audit

import "time"

type LogResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Username  *string   `json:"username"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
}
