package main

import "codeberg.org/mutker/battlevel/internal/cli"

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.Execute(version)
}
