package main

import "github.com/gcbaptista/go-retrieval-engine/internal/cli"

func main() {
	cli.Execute()
}
