package main

import (
	"log"

	"github.com/erpdesk/erpdesk-api/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Fatalf("erpdesk: %v", err)
	}
}
