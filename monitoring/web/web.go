// Package web holds the status page of the monitoring server.
package web

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"
)

// AssetsEnv names the variable that points the server at a directory to
// serve instead of the embedded page, for editing the page without
// rebuilding.
const AssetsEnv = "EEPROM_MONITOR_ASSETS"

//go:embed dist/*
var staticAssets embed.FS

// GetAssets returns the files to serve under "/".
func GetAssets() http.FileSystem {
	if dir := os.Getenv(AssetsEnv); dir != "" {
		fmt.Fprintf(os.Stderr, "Serving monitoring assets from %s\n", dir)
		return http.Dir(dir)
	}

	dist, err := fs.Sub(staticAssets, "dist")
	if err != nil {
		panic(err)
	}

	return http.FS(dist)
}
