package main

import (
	"github.com/velatum/bellum/internal/cli"
)

func main() {
	cli.Execute()
}
