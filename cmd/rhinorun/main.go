package main

import "github.com/sungur/rhinorun/internal/cli"

func main() {
	cli.Execute()
}
