package main

import (
	"github.com/canscope/canscope/cmd"
)

func main() {
	cmd.Execute()
}
