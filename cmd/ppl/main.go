package main

import "github.com/OndrejVasicek/go-ppl-myapi/internal/cli"

// version is overridden at build time with
// -ldflags "-X main.version=v1.2.3".
var version = "dev"

func main() {
	cli.Execute(version)
}
