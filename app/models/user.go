package models

// User is a User Directory record. Login matches on email and password.
type User struct {
	ID       ID     `json:"id"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}
