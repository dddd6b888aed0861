package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/querybridge/querybridge/internal/cliopt"
	"github.com/querybridge/querybridge/pkg/querybridge"
)

func RunPing(g cliopt.GlobalOptions, argv []string) int {
	fs := flag.NewFlagSet("ping", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var server string
	fs.StringVar(&server, "server", "", "configured server name")
	fs.StringVar(&server, "s", "", "configured server name")
	if err := fs.Parse(argv); err != nil {
		return 2
	}
	if server == "" {
		fmt.Fprintln(os.Stderr, "missing -s/--server")
		return 2
	}

	ctx := context.Background()
	cfg, err := querybridge.LoadConfig(g.Config)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	client, err := querybridge.Open(ctx, cfg, querybridge.Options{})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer client.Close()

	start := time.Now()
	if err := client.Ping(ctx, server); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Fprintf(os.Stdout, "%s ok (%dms)\n", server, time.Since(start).Milliseconds())
	return 0
}
