// Command fsmdemo drives the example machines interactively and exports
// their descriptions.
//
//	fsmdemo elevator                 # c <floor>, f <floor>, a, q
//	fsmdemo switch --variant mealy   # t, r, q
//	fsmdemo describe --format dot elevator | dot -Tsvg > elevator.svg
package main

import (
	"fmt"
	"os"
)

func main() {
	a := newApp(os.Stdin, os.Stdout)
	if err := a.execute(newRootCmd(a)); err != nil {
		fmt.Fprintln(os.Stderr, "fsmdemo:", err)
		os.Exit(1)
	}
}
