package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/inodb/vibe-panel/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage vibe-panel configuration",
		Long:  "Show, get, or set configuration values. Config is stored in ~/.vibe-panel.yaml.",
		Example: `  vibe-panel config                                        # show all config
  vibe-panel config set genomenexus.url http://localhost:8888  # use a local Genome Nexus
  vibe-panel config get oncokb.genes                          # get a value`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConfigShow(cmd)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConfigSet(cmd, args[0], args[1])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConfigGet(cmd, args[0])
		},
	})

	return cmd
}

func (a *app) runConfigShow(cmd *cobra.Command) error {
	out, err := yaml.Marshal(a.v.AllSettings())
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if used := a.v.ConfigFileUsed(); used != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "# Config file: %s\n", used)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "# No config file, showing defaults. Config file: ~/%s.yaml\n", config.Name)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(out))
	return nil
}

func (a *app) runConfigSet(cmd *cobra.Command, key, value string) error {
	switch value {
	case "true", "yes", "on":
		a.v.Set(key, true)
	case "false", "no", "off":
		a.v.Set(key, false)
	default:
		a.v.Set(key, value)
	}

	cfgFile := a.v.ConfigFileUsed()
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		cfgFile = filepath.Join(home, config.Name+".yaml")
	}

	if err := a.v.WriteConfigAs(cfgFile); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", key, value, cfgFile)
	return nil
}

func (a *app) runConfigGet(cmd *cobra.Command, key string) error {
	val := a.v.Get(key)
	if val == nil {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Fprintln(cmd.OutOrStdout(), val)
	return nil
}

// noArgs and exactArgs report argument count errors as usage errors.
func noArgs(cmd *cobra.Command, args []string) error {
	return exactArgs(0)(cmd, args)
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}
