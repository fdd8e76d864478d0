package templates

import "fraud-screen/internal/models"

// ResultID is the element patched by the score endpoint.
const ResultID = "result"

// PageData is everything the form page needs. Values holds the current field
// values keyed by input name, so a rejected submission is shown as entered.
type PageData struct {
	Merchants  []string
	Categories []string
	States     []string
	Jobs       []string
	Genders    []string
	ShowGeo    bool
	Values     map[string]string
	Verdict    *models.Verdict
	Error      *ErrorView
}

// ErrorView is a recoverable, user-facing error.
type ErrorView struct {
	Message string
	Field   string
}
