package main

import "github.com/propstack/propsearch/internal/cli"

func main() {
	cli.Execute()
}
