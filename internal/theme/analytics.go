package theme

import (
	"regexp"
	"strings"
)

// Analytics holds client instrumentation configuration surfaced to the layout.
type Analytics struct {
	GA4MeasurementID string // e.g. G-XXXXXXXXXX
	GTMContainerID   string // e.g. GTM-XXXXXXX
	Debug            bool
}

var tagID = regexp.MustCompile(`^[A-Z]+-[A-Z0-9]+$`)

func (a Analytics) ga4() string {
	if tagID.MatchString(a.GA4MeasurementID) {
		return a.GA4MeasurementID
	}
	return ""
}

func (a Analytics) gtm() string {
	if tagID.MatchString(a.GTMContainerID) {
		return a.GTMContainerID
	}
	return ""
}

// Enabled reports whether any valid tag is configured. Malformed ids are
// ignored since they are written into inline scripts.
func (a Analytics) Enabled() bool { return a.ga4() != "" || a.gtm() != "" }

// snippet is the loader markup for <head>. Only ids matching tagID reach it.
func (a Analytics) snippet() string {
	if !a.Enabled() {
		return ""
	}
	var b strings.Builder
	if id := a.ga4(); id != "" {
		debug := ""
		if a.Debug {
			debug = ",{debug_mode:true}"
		}
		b.WriteString(`<script async src="https://www.googletagmanager.com/gtag/js?id=` + id + `"></script>`)
		b.WriteString(`<script>window.dataLayer=window.dataLayer||[];function gtag(){dataLayer.push(arguments);}` +
			`gtag('js',new Date());gtag('config','` + id + `'` + debug + `);</script>`)
	}
	if id := a.gtm(); id != "" {
		b.WriteString(`<script>(function(w,d,s,l,i){w[l]=w[l]||[];w[l].push({'gtm.start':new Date().getTime(),event:'gtm.js'});` +
			`var f=d.getElementsByTagName(s)[0],j=d.createElement(s);j.async=true;` +
			`j.src='https://www.googletagmanager.com/gtm.js?id='+i;f.parentNode.insertBefore(j,f);` +
			`})(window,document,'script','dataLayer','` + id + `');</script>`)
	}
	return b.String()
}
