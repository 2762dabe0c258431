// Command showguide organizes TV series feeds into seasons and answers
// episode queries from the command line or over HTTP.
package main

import (
	"os"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/mattn/go-isatty"
)

func main() {
	root := newRootCmd()

	if os.Getenv("NO_COLOR") == "" && isatty.IsTerminal(os.Stdout.Fd()) {
		cc.Init(&cc.Config{
			RootCmd:       root,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
