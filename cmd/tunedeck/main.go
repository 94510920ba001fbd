package main

import (
	"fmt"
	"os"

	"tunedeck/cmd/tunedeck/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
