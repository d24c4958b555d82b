// Package assets embeds the display's icon files.
package assets

import "embed"

// FS holds icons/*.pbm.
//
//go:embed icons/*.pbm
var FS embed.FS
