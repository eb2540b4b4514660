// cmd/mpa2phyloseq/main.go
package main

import (
	"mpa2phyloseq/internal/app"
	"mpa2phyloseq/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
