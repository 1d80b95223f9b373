package templates

import "github.com/louisbranch/razzo/internal/services/web/routepath"

// PostFormView drives the create and edit post forms.
type PostFormView struct {
	// PostID is empty for the create form.
	PostID   string
	Title    string
	Body     string
	ImageURL string
	Error    string
	// Modal marks the form as an HTMX fragment that posts back into #modal.
	Modal bool
}

// Editing reports whether the form edits an existing post.
func (v PostFormView) Editing() bool {
	return v.PostID != ""
}

// Action returns the form submission path.
func (v PostFormView) Action() string {
	if v.Editing() {
		return routepath.EditPost(v.PostID)
	}
	return routepath.Posts
}

// Heading returns the localized form heading.
func (v PostFormView) Heading(loc Localizer) string {
	if v.Editing() {
		return T(loc, "web.posts.form.heading_edit")
	}
	return T(loc, "web.posts.form.heading_create")
}

// SubmitLabel returns the localized submit button text.
func (v PostFormView) SubmitLabel(loc Localizer) string {
	if v.Editing() {
		return T(loc, "web.posts.form.submit_edit")
	}
	return T(loc, "web.posts.form.submit_create")
}

// CancelURL is where the cancel link of the page form leads.
func (v PostFormView) CancelURL() string {
	if v.Editing() {
		return routepath.Post(v.PostID)
	}
	return routepath.Root
}

func (v PostFormView) asModal() PostFormView {
	v.Modal = true
	return v
}
