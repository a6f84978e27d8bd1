package main

import (
	"os"

	wayfarercmder "github.com/papercomputeco/wayfarer/cmd/wayfarer"
)

func main() {
	cmd := wayfarercmder.NewWayfarerCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
