package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/surveykeeper/internal/client/cli"
	"github.com/dmitrijs2005/surveykeeper/internal/client/config"
)

func main() {

	ctx := context.Background()
	cfg, args := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

}
