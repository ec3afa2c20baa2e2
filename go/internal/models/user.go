package models

// User is the subset of a user document needed for display names.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}
