package model

// LoginLinks is what a login request produces.
// ShareableLink and Room are empty when room links are disabled.
type LoginLinks struct {
	Room          string
	PersonalLink  string
	ShareableLink string
}

// LoginForm is the body of POST /login.
type LoginForm struct {
	Email string `form:"email"`
}
