package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/InioX/matugen-sub000/cli/cmd"
	"github.com/InioX/matugen-sub000/pkg"
)

// CLI is the top-level command-line interface.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Render  cmd.Render  `cmd:"" default:"withargs" help:"Render templates with a color scheme"`
	Check   cmd.Check   `cmd:""                   help:"Report template diagnostics without writing output"`
	Colors  cmd.Colors  `cmd:""                   help:"Print every color of a scheme"`
	Repl    cmd.Repl    `cmd:""                   help:"Evaluate template lines interactively"`
	Init    cmd.Init    `cmd:""                   help:"Initialize configuration file"`
	Version cmd.Version `cmd:""                   help:"Print version"`
}

// Run executes the CLI with the given arguments against env. The exit
// function is called by kong after printing help or a usage error.
func Run(
	ctx context.Context,
	env cmd.Env,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	d := userDirs(env)

	if err := d.mkdirAll(env.FS); err != nil {
		return err
	}

	vars := kong.Vars{
		cmd.ConfigIdentifier: d.configFile(),
		cmd.CacheIdentifier:  d.cache,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars(d))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags so that parse errors are already logged in
	// the requested format.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.Writers(env.Stdout, env.Stderr),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(resolve(ctx), d.configFile()),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithEnv(ctx, env)

	cli.Log.start(ctx)

	// No-op unless built with tag pprof and a mode is selected.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx)
}
