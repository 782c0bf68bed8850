// colorname names colors by their nearest match in a reference palette.
package main

import (
	"os"

	"github.com/wethinkt/go-colorname/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
