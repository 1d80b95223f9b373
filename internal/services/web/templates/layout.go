// Package templates holds the templ views of the web client. Edit the .templ
// sources and regenerate the _templ.go files with templ generate.
package templates

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.977 generate -path ../../../..

// AppName is the brand shown in the navbar, titles and footer.
const AppName = "RAZZO"

const htmxScript = "https://unpkg.com/htmx.org@2.0.4"

// htmxConfig swaps error responses too, so re-rendered forms replace the
// submitted ones.
const htmxConfig = `{"responseHandling":[{"code":"204","swap":false},{"code":"[23]..","swap":true},{"code":"[45]..","swap":true,"error":true}]}`

// Page carries layout chrome for one full-page render.
type Page struct {
	Title string
	Lang  string
	Loc   Localizer
	Nav   Nav
	Toast *Toast
	Year  int
}

// Nav is the navbar state.
type Nav struct {
	Authenticated bool
	UserName      string
	Languages     []LanguageLink
}

// LanguageLink is one entry of the language switch.
type LanguageLink struct {
	Label  string
	URL    string
	Active bool
}

// Toast is a one-time notice rendered above the page content.
type Toast struct {
	Kind    string
	Message string
}

// PageTitle suffixes title with the app name.
func PageTitle(title string) string {
	if title == "" {
		return AppName
	}
	return title + " | " + AppName
}

func (p Page) lang() string {
	if p.Lang == "" {
		return "en"
	}
	return p.Lang
}
