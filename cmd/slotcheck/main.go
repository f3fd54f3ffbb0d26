package main

import (
	"fmt"
	"os"

	"github.com/hupe1980/slotsort/internal/cli"
)

func main() {
	if err := cli.NewApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "slotcheck:", err)
		os.Exit(1)
	}
}
