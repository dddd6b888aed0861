package commands

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/querybridge/querybridge/internal/cliopt"
	"github.com/querybridge/querybridge/internal/cliutil"
	"github.com/querybridge/querybridge/pkg/querybridge"
)

func RunServers(g cliopt.GlobalOptions, argv []string) int {
	fs := flag.NewFlagSet("servers", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(argv); err != nil {
		return 2
	}

	cfg, err := querybridge.LoadConfig(g.Config)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	ctx := context.Background()
	client, err := querybridge.Open(ctx, cfg, querybridge.Options{})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer client.Close()

	type serverRow struct {
		Name   string `json:"name"`
		Engine string `json:"engine"`
	}
	var rows []serverRow
	for _, name := range client.Servers() {
		conn, _ := client.Connector(name)
		rows = append(rows, serverRow{Name: name, Engine: conn.Name()})
	}

	if cliutil.ParseOutputFormat(g.Format) == cliutil.FormatPretty {
		for _, r := range rows {
			fmt.Fprintf(os.Stdout, "%s\t%s\n", r.Name, r.Engine)
		}
		return 0
	}
	cliutil.PrintJSON(os.Stdout, rows)
	return 0
}
