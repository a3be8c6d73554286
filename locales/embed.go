package locales

import "embed"

// FS holds the translation dictionaries, one <lang>.json per locale.
//
//go:embed *.json
var FS embed.FS
