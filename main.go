package main

import (
	"os"

	"github.com/GoMinistry-Admin/GoMinistry-Admin/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
