package main

import (
	"csvscope/cmd"
)

func main() {
	cmd.Execute()
}
