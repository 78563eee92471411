package display

import (
	"fmt"
	"os"

	"snapfix/internal/logging"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner() {
	if logging.Magenta != "" {
		fmt.Fprint(os.Stdout, "\033[1;95m")
	}
	fmt.Fprint(os.Stdout, ` ____                       __ _
/ ___| _ __   __ _ _ __    / _(_)_  __
\___ \| '_ \ / _`+"`"+` | '_ \  | |_| \ \/ /
 ___) | | | | (_| | |_) | |  _| |>  <
|____/|_| |_|\__,_| .__/  |_| |_/_/\_\
                  |_|
`)
	if logging.Magenta != "" {
		fmt.Fprintln(os.Stdout, logging.NC)
	}
}
