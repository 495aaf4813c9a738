package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Irenepaul17/new-log-sub000/cmd"
)

func main() {
	if err := cmd.Execute(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "portal:", err)
		os.Exit(1)
	}
}
