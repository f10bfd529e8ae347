package domain

import "time"

type Notification struct {
	ID         int64             `json:"id"`
	CustomerID int64             `json:"customer_id"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	IsRead     bool              `json:"is_read"`
	Attributes map[string]string `json:"attributes"`
	CreatedOn  time.Time         `json:"created_on"`
}
