package main

import (
	"log"

	"github.com/prepdeck/qbank-admin/internal/builder"
)

func main() {
	app, err := builder.Build()
	if err != nil {
		log.Fatalf("failed to build application: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
