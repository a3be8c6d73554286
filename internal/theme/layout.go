package theme

import (
	"context"

	"finitefield.org/hanko-community/internal/middleware"
	"finitefield.org/hanko-community/internal/nav"
	"finitefield.org/hanko-community/internal/seo"
	"finitefield.org/hanko-community/internal/site"
	"finitefield.org/hanko-community/internal/styles"
)

// LayoutOptions configures the chrome around a page.
type LayoutOptions struct {
	// Title is the page title; the document title becomes "Title | Site".
	Title string
	// Description overrides the site tagline in meta tags.
	Description string
	// Stylesheets are the page's CSS modules, linked after the theme's.
	Stylesheets []*styles.Module
	NoFooter    bool
	// NoIndex asks crawlers to skip the page (error pages).
	NoIndex bool
}

// layoutView is what the layout templates read, resolved once per render.
type layoutView struct {
	Lang         string
	SiteTitle    string
	SkipLabel    string
	Meta         seo.Meta
	Stylesheets  []string
	Analytics    Analytics
	Announcement *announcementView
	Nav          []navLink
	Footer       []footerColumn
	Copyright    string
	NoFooter     bool
}

type announcementView struct {
	ID          string
	Dismissible bool
	HTML        string
}

type navLink struct {
	Href     string
	Label    string
	Active   bool
	External bool
}

type footerColumn struct {
	Title string
	Links []site.FooterLink
}

func newLayoutView(ctx context.Context, opts LayoutOptions) layoutView {
	t := FromContext(ctx)
	path := middleware.RequestPathFromContext(ctx)
	if path == "" {
		path = "/"
	}

	description := opts.Description
	if description == "" {
		description = t.Site.Tagline
	}
	canonical := seo.AbsoluteURL(t.Site.URL, path)
	meta := seo.NewMeta(opts.Title, t.Site.Title, description, canonical, seo.AbsoluteURL(t.Site.URL, LogoHref))
	if opts.NoIndex {
		meta.Robots = seo.RobotsNoIndex
	}

	crumbs := nav.Breadcrumbs(t.Site.Navbar, path)
	items := make([]seo.BreadcrumbItem, 0, len(crumbs))
	for _, c := range crumbs {
		name := c.Label
		if c.LabelKey != "" {
			name = t.T(ctx, c.LabelKey)
		}
		items = append(items, seo.BreadcrumbItem{Name: name, Item: seo.AbsoluteURL(t.Site.URL, c.Href)})
	}
	meta.JSONLD = []any{
		seo.WebSite(t.Site.Title, t.Site.URL, ""),
		seo.WebPage(meta.Title, description, canonical),
		seo.BreadcrumbList(items),
	}

	v := layoutView{
		Lang:        t.Lang(ctx),
		SiteTitle:   t.Site.Title,
		SkipLabel:   t.T(ctx, "nav.skip"),
		Meta:        meta,
		Stylesheets: []string{Styles.Href()},
		Analytics:   t.Analytics,
		Copyright:   t.Site.Footer.CopyrightHTML(),
		NoFooter:    opts.NoFooter,
	}
	for _, m := range opts.Stylesheets {
		if m != nil {
			v.Stylesheets = append(v.Stylesheets, m.Href())
		}
	}
	if a := t.Site.Announcement; a.HTML() != "" {
		v.Announcement = &announcementView{ID: a.ID, Dismissible: a.Dismissible, HTML: a.HTML()}
	}
	for _, it := range nav.Build(t.Site.Navbar, path) {
		v.Nav = append(v.Nav, navLink{
			Href:     it.Href,
			Label:    t.T(ctx, it.LabelKey),
			Active:   it.Active,
			External: it.External,
		})
	}
	for _, col := range t.Site.Footer.Links {
		v.Footer = append(v.Footer, footerColumn{Title: t.T(ctx, col.TitleKey), Links: col.Items})
	}
	return v
}
