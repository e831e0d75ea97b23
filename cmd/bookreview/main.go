package main

import "bookreview/internal/cli"

func main() {
	cli.Execute()
}
