package main

import "github.com/jenian/locgrd/internal/cli"

func main() {
	cli.Execute()
}
