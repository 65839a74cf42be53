package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/attus74/devutil/compiler/gen"
)

var (
	heading = color.New(color.Bold)
	created = color.New(color.FgGreen)
	warning = color.New(color.FgYellow)
	failure = color.New(color.FgRed)
)

// report prints the files and warnings of a finished run.
func (a *app) report(title string, res *gen.Result) {
	heading.Fprintf(a.out, "%s\n", title)
	if res.Module != nil {
		state := "existing"
		if !res.Module.Exists {
			state = "new"
		}
		fmt.Fprintf(a.out, "  module %s (%s, %s)\n", res.Module.Name, state, res.Module.Root)
	}
	for _, f := range res.Files {
		fmt.Fprintf(a.out, "  %s %s\n", created.Sprint("WRITE"), f)
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(a.out, "  %s %v\n", warning.Sprint("WARN "), w)
	}
}

// PrintError reports a failed command.
func PrintError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", failure.Sprint("error:"), err)
}
