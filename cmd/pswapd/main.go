package main

import (
	"fmt"
	"os"

	"github.com/iov-one/pswap/commands"
	"github.com/iov-one/pswap/errors"
)

func main() {
	if err := commands.NewRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error [%d]: %s\n", errors.Code(err), err)
		os.Exit(1)
	}
}
