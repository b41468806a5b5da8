// trackerctl fetches, parses and inspects leak trackers from the command line.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	runner := NewRunner(RunnerOpts{})
	err := newApp(runner).Run(context.Background(), os.Args)
	runner.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "trackerctl: %v\n", err)
		os.Exit(1)
	}
}
