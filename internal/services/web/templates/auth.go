package templates

// LoginView drives the login form. Passwords are never echoed back.
type LoginView struct {
	Username string
	Error    string
}

// RegisterView drives the registration form.
type RegisterView struct {
	Name     string
	Username string
	Error    string
}
