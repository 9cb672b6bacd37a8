package cmd

import (
	"path/filepath"

	"github.com/kzaag/gdp/rdbms"
	"github.com/kzaag/gdp/target"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "run the exec steps of every target in the config",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := target.NewConfigFromPath(rootArgs.ConfigPath, rootArgs)
		if err != nil {
			return err
		}
		return target.NewCtx(log).ExecConfig(c, rootArgs)
	},
}

var createCmd = &cobra.Command{
	Use:   "create PATH...",
	Short: "create the tables and register the rasters defined under PATH",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, _, p, closer, err := openTarget()
		if err != nil {
			return err
		}
		defer closer()
		paths := make([]string, len(args))
		for i, a := range args {
			if paths[i], err = filepath.Abs(a); err != nil {
				return err
			}
		}
		script, err := ctx.ScriptCreate(p, paths, rootArgs)
		if err != nil {
			return err
		}
		return execScript(p, script)
	},
}

var dropCmd = &cobra.Command{
	Use:   "drop TABLE...",
	Short: "drop tables together with their spatial metadata",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, _, p, closer, err := openTarget()
		if err != nil {
			return err
		}
		defer closer()
		script, err := ctx.ScriptDrop(p, args)
		if err != nil {
			return err
		}
		return execScript(p, script)
	},
}

func execScript(p target.Pool, script []string) error {
	return target.WithCommand(p, func(c rdbms.Command) error {
		_, err := target.ExecLines(c, script, rootArgs)
		return err
	})
}

func init() {
	rootCmd.AddCommand(runCmd, createCmd, dropCmd)
}
