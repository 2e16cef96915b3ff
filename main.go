// Command promortctl drives the ProMort annotation workflow from the
// terminal: list the worklist, start and continue annotation steps, and
// reopen finished ROIs annotation steps.
package main

import "promortctl/internal/cli"

func main() {
	cli.Execute()
}
