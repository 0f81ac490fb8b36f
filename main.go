package main

import (
	"teebot/internal/cmd"
)

func main() {
	cmd.Execute()
}
