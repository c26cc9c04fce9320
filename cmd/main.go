package main

import (
	"log"

	"rfpmarket/internal/app"
)

func main() {
	app, err := app.NewApp()
	if err != nil {
		log.Fatal(err)
	}

	app.Run()
}
