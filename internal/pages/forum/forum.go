// Package forum is the community forum landing page.
package forum

import (
	_ "embed"

	"finitefield.org/hanko-community/internal/pages"
	"finitefield.org/hanko-community/internal/styles"
	"finitefield.org/hanko-community/internal/theme"
)

//go:embed styles.module.css
var stylesheet []byte

// Styles maps the page's semantic class names to scoped identifiers.
var Styles = styles.MustNew("forum", stylesheet)

const (
	Route   = "/forum"
	Title   = "Forum"
	Heading = "Welcome to the Forum"
	Intro   = "Discuss topics, share ideas, and engage with the community."
)

// Section is one sub-heading with its descriptive sentence.
type Section struct {
	Title       string
	Description string
}

var sections = [...]Section{
	{Title: "General Discussion", Description: "Talk about any topic related to our project."},
	{Title: "Feedback", Description: "Share your thoughts and suggestions for improvement."},
	{Title: "Support", Description: "Get help with any issues or questions you may have."},
}

// Sections returns the page sections in display order.
func Sections() []Section {
	return append([]Section(nil), sections[:]...)
}

// LayoutOptions is how the page configures the shared layout.
func LayoutOptions() theme.LayoutOptions {
	return theme.LayoutOptions{
		Title:       Title,
		Stylesheets: []*styles.Module{Styles},
	}
}

// Page registers the forum under Route.
func Page() pages.Page {
	return pages.Page{
		Route:       Route,
		Title:       Title,
		Render:      Forum,
		Stylesheets: []*styles.Module{Styles},
	}
}
