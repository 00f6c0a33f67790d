package main

import (
	"os"

	"dirpurge/internal"
	"dirpurge/internal/di"
)

func main() {
	if err := internal.NewRootCommand(di.InitApp).Execute(); err != nil {
		os.Exit(1)
	}
}
