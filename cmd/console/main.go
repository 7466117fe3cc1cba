package main

import (
	"fmt"
	"os"

	"github.com/jmswift/finconsole/internal/app"
)

func main() {
	if err := app.Run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "finconsole: %v\n", err)
		os.Exit(1)
	}
}
