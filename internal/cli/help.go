package cli

import (
	"fmt"
	"io"
)

func PrintRootHelp(w io.Writer) {
	fmt.Fprint(w, `querybridge - query federated search backends

Usage:
  querybridge [global flags] <command> [command flags]

Commands:
  search    run a query against a configured server
  ping      check a configured server's reachability
  servers   list configured servers

Global flags:
  -c, -config   configuration file path (default querybridge.yaml)
  -format       output format: json|pretty (default json)

Examples:
  querybridge -c qb.yaml servers
  querybridge -c qb.yaml search -s media -q "dog" -l 10
  querybridge -c qb.yaml search -s media -f "year>=2000" -f "genre=drama,comedy"
`)
}
