package main

import "moodrec/internal/cli"

func main() {
	cli.Execute()
}
