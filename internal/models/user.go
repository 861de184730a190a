package models

// User is the identity record created at signup. Username doubles as the
// login email; phone number is the secondary unique key used by QR payments.
type User struct {
	ID          int    `json:"id" example:"1"`                       // User ID
	Username    string `json:"username" example:"user@example.com"`  // Login email
	FirstName   string `json:"FirstName" example:"John"`             // User first name
	LastName    string `json:"LastName" example:"Doe"`               // User last name
	PhoneNumber string `json:"Phone_No" example:"9876543210"`        // Phone number
}
