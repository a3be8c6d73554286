package seo

import "strings"

type OpenGraph struct {
	Title       string
	Description string
	Image       string
	Type        string
	URL         string
	SiteName    string
}

type Twitter struct {
	Card  string
	Image string
}

// Meta is everything the layout writes into <head> besides stylesheets.
type Meta struct {
	Title       string
	Description string
	Canonical   string
	Robots      string
	OG          OpenGraph
	Twitter     Twitter
	// JSONLD holds schema.org payloads, each written as its own script.
	JSONLD []any
}

const (
	RobotsIndex   = "index, follow"
	RobotsNoIndex = "noindex"
)

// PageTitle joins a page title with the site title the way the navbar shows
// them: "Forum | Hanko Community". An empty page title yields the site title.
func PageTitle(title, siteTitle string) string {
	title = strings.TrimSpace(title)
	siteTitle = strings.TrimSpace(siteTitle)
	switch {
	case title == "":
		return siteTitle
	case siteTitle == "" || title == siteTitle:
		return title
	default:
		return title + " | " + siteTitle
	}
}

// AbsoluteURL joins baseURL and an absolute path. It returns p unchanged when
// baseURL is empty.
func AbsoluteURL(baseURL, p string) string {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return p
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return baseURL + p
}

// NewMeta fills the Open Graph and Twitter cards from the page basics.
// image is the absolute URL of the share image and may be empty.
func NewMeta(title, siteTitle, description, canonical, image string) Meta {
	full := PageTitle(title, siteTitle)
	return Meta{
		Title:       full,
		Description: description,
		Canonical:   canonical,
		Robots:      RobotsIndex,
		OG: OpenGraph{
			Title:       full,
			Description: description,
			Image:       image,
			Type:        "website",
			URL:         canonical,
			SiteName:    siteTitle,
		},
		Twitter: Twitter{Card: "summary", Image: image},
	}
}
