// Command rpactl talks to the RPA backend through the console API.
package main

import (
	"os"

	"github.com/okian/rpaconsole/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
