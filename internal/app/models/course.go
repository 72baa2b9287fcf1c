package models

// Course is the single resource managed by the service.
type Course struct {
	ID   int64  `json:"id" db:"id" example:"1"`
	Name string `json:"name" db:"name" example:"Distributed Systems"`
}
