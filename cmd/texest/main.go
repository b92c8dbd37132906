// Command texest runs the declarative end-to-end test cases described in
// one or more YAML documents and reports the result.
package main

import (
	"fmt"
	"os"

	"github.com/go-texest/texest/internal/cmd"
)

func main() {
	os.Exit(run())
}

func run() int {
	root := cmd.NewRootCommand()
	err := root.Execute()
	if err == nil {
		return 0
	}

	if cmd.IsFailure(err) {
		return 1
	}

	fmt.Fprintln(os.Stderr, err)
	return 2
}
