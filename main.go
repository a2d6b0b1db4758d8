package main

import "github.com/ytget/mp3-extractor/internal/app"

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

func main() {
	app.Execute(version)
}
