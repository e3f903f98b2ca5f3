package main

import (
	"fmt"
	"os"

	"github.com/glasswing-labs/minishell/cmd/minishell/app"
)

var version = "dev"

func main() {
	a := app.NewApp(version)
	if err := a.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "minishell: %v\n", err)
		os.Exit(1)
	}
}
