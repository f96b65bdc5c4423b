package main

import (
	"os"

	"github.com/GoInvenTree/GoInvenTree/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
