// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// SignInViewModel holds the data for the admin sign-in form.
type SignInViewModel struct {
	CSRFToken string
	Username  string
	Error     string
}

// DashboardViewModel holds the suggestions shown to a signed-in account.
type DashboardViewModel struct {
	Username    string
	ShowsAll    bool
	Suggestions []SuggestionViewModel
}

// SuggestionViewModel is one suggestion rendered for display.
type SuggestionViewModel struct {
	ID          int64
	Username    string
	MessageHTML string
	CreatedAt   string
	Age         string
}
