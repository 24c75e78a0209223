package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/chain-reaction/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Create or inspect the config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default config file",
	Long: `Write the built-in defaults to path, or to the user config file
($XDG_CONFIG_HOME/chainreaction/config.yaml) when no path is given.
An existing file is never overwritten.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print which config file is in use",
	Args:  cobra.NoArgs,
	Run:   runConfigPath,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	Run:   runConfigShow,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigInit(_ *cobra.Command, args []string) {
	var path string
	if len(args) == 1 {
		path = args[0]
	} else {
		p, err := config.UserConfigPath()
		if err != nil {
			fatalf("%v", err)
		}
		path = p
	}
	if err := config.WriteDefault(path); err != nil {
		fatalf("%v", err)
	}
	fmt.Printf("Wrote %s\n", path)
}

func runConfigPath(_ *cobra.Command, _ []string) {
	_, source, err := config.LoadWithSource(flagConfig)
	if err != nil {
		fatalf("%v", err)
	}
	userPath, err := config.UserConfigPath()
	if err != nil {
		userPath = "(unavailable)"
	}
	fmt.Printf("Source:    %s\n", source)
	if flagConfig != "" {
		fmt.Printf("File:      %s\n", flagConfig)
	}
	fmt.Printf("User file: %s\n", userPath)
}

func runConfigShow(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	out, err := yaml.Marshal(cfg)
	if err != nil {
		fatalf("%v", err)
	}
	os.Stdout.Write(out)
}
