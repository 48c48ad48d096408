package web

import "embed"

// StaticFS holds the embedded client bundle (submission page, script, styles).
//
//go:embed static/*
var StaticFS embed.FS
