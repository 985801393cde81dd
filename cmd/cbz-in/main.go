package main

import "github.com/MoreDelay/cbz-in/internal/cli"

func main() {
	cli.Execute()
}
