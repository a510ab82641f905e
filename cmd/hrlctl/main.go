package main

import "github.com/rpggio/hrl-explorer/internal/cli"

func main() {
	cli.Execute()
}
