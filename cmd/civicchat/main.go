package main

import "github.com/civicnav/navigator/internal/cli"

func main() {
	cli.Execute()
}
