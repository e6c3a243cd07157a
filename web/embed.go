package web

import "embed"

// Templates embeds HTML templates.
//
//go:embed templates/layouts/*.html templates/partials/*.html templates/pages/*.html
var Templates embed.FS
