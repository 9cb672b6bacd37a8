package cmd

import (
	"fmt"
	"strings"

	"github.com/kzaag/gdp/cmn"
	"github.com/kzaag/gdp/target"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const exampleUsage = `
  # print what the config would run against every target
  gdp run -c ./deploy

  # run it
  gdp run -c ./deploy -e

  # create the tables under ./tables on the target called local
  gdp create -t local -e ./tables

  # show how a table maps into the portable types
  gdp describe -t local public.roads
`

var (
	rootArgs = target.NewArgs()
	demand   []string
	defines  []string
	log      *zap.SugaredLogger

	rootCmd = &cobra.Command{
		Use:     "gdp",
		Short:   "gdp creates, inspects and drops spatial tables across sql dialects.",
		Example: strings.Trim(exampleUsage, "\n"),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if err = processArgs(rootArgs); err != nil {
				return err
			}
			log, err = cmn.NewLogger(rootArgs.Verbose)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if log != nil {
				_ = log.Sync()
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		cmn.CndPrintError(rootArgs.Raw, err)
	}
	return err
}

func init() {
	setRootOpts(rootCmd, rootArgs)
}

func setRootOpts(cmd *cobra.Command, args *target.Args) {
	f := cmd.PersistentFlags()
	f.StringVarP(&args.ConfigPath, "config", "c", "", "config file or a directory holding one")
	f.StringVarP(&args.Target, "target", "t", "", "name of the target to use")
	f.BoolVarP(&args.Execute, "execute", "e", false, "send statements to the database instead of only printing them")
	f.BoolVarP(&args.Verbose, "verbose", "v", false, "print timings and debug logs")
	f.BoolVarP(&args.Raw, "raw", "r", false, "disable colored output")
	f.StringArrayVar(&demand, "demand", nil, "run an on demand target")
	f.StringArrayVar(&defines, "set", nil, "override a define, name=value")
}

func processArgs(args *target.Args) error {
	for _, d := range demand {
		args.Demand[d] = struct{}{}
	}
	for _, s := range defines {
		kv := strings.SplitN(s, "=", 2)
		if len(kv) != 2 || kv[0] == "" {
			return fmt.Errorf("invalid define %q, expected name=value", s)
		}
		args.Set[kv[0]] = kv[1]
	}
	return nil
}

// openTarget loads the config and opens a pool on the selected target.
func openTarget() (*target.Ctx, *target.Config, target.Pool, func() error, error) {
	c, err := target.NewConfigFromPath(rootArgs.ConfigPath, rootArgs)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	t, err := c.FindTarget(rootArgs.Target)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	ctx := target.NewCtx(log)
	p, closer, err := ctx.NewPool(t)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return ctx, c, p, closer, nil
}
