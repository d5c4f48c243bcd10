package models

import "github.com/golang-jwt/jwt/v5"

// User is the slice of the session identity the cart core needs: the RUN
// keys the order's user reference, the email drives discount eligibility.
type User struct {
	Run   string `json:"run"`
	Name  string `json:"nombre,omitempty"`
	Email string `json:"correo"`
}

type Claims struct {
	Run   string `json:"run"`
	Email string `json:"correo"`
	Name  string `json:"nombre,omitempty"`
	jwt.RegisteredClaims
}

// User converts the token claims into the session identity object.
func (c *Claims) User() *User {
	return &User{Run: c.Run, Name: c.Name, Email: c.Email}
}
