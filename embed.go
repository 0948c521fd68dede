package folio

import "embed"

// EmbeddedAssets contains the client assets shipped with the site:
// folio.js and folio.css.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
