package main

import (
	"os"

	"freight-fulfillment-service/cmd/dbtool/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
