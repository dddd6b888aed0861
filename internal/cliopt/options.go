package cliopt

import "flag"

// GlobalOptions are parsed once at the CLI root and passed to
// subcommands.
//
// NOTE: This is a separate package to avoid import cycles between the
// root command router and per-command code.
type GlobalOptions struct {
	Config string
	Format string
}

func DefaultGlobalOptions() GlobalOptions {
	return GlobalOptions{
		Config: "querybridge.yaml",
		Format: "json",
	}
}

func BindGlobalFlags(fs *flag.FlagSet, g *GlobalOptions) {
	fs.StringVar(&g.Config, "config", g.Config, "configuration file path")
	fs.StringVar(&g.Config, "c", g.Config, "configuration file path")
	fs.StringVar(&g.Format, "format", g.Format, "output format: json|pretty")
}
