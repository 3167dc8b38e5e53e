package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"taxonomy/internal/client"
	"taxonomy/internal/logger"
	"taxonomy/internal/services"
)

// CLI is the top-level command structure for taxonomy.
type CLI struct {
	StoreURL string        `name:"store-url" env:"STORE_URL" default:"http://localhost:8080" help:"Base URL of the category store."`
	Timeout  time.Duration `env:"REQUEST_TIMEOUT" default:"30s" help:"Per-request timeout."`

	Tree      TreeCmd      `cmd:"" help:"Print the category hierarchy."`
	Ancestors AncestorsCmd `cmd:"" help:"Print the breadcrumb of a category."`
	Check     CheckCmd     `cmd:"" help:"Check whether a category may be moved under a parent."`
	Move      MoveCmd      `cmd:"" help:"Move a category under a new parent."`
	Pick      PickCmd      `cmd:"" help:"Choose a parent interactively."`
}

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	cli := CLI{}
	parser, err := kong.New(&cli,
		kong.Name("taxonomy"),
		kong.Description("Inspect and edit the catalog category hierarchy."),
		kong.UsageOnError(),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "taxonomy: %v\n", err)
		os.Exit(1)
	}
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	store := client.NewStoreClient(cli.StoreURL, &http.Client{Timeout: cli.Timeout})
	kctx.Bind(&env{
		hierarchy: services.NewHierarchyService(store),
		out:       os.Stdout,
		in:        os.Stdin,
	})

	err = kctx.Run()
	kctx.FatalIfErrorf(err)
}
