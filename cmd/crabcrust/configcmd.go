package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/crabcrust/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configForce bool

func newConfigCmd() *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "inspect or create the config file",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Print(string(data))
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "write the default configuration",
		Args:  cobra.NoArgs,
		RunE:  initConfig,
	}
	initCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing file")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "print the config file location",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(configPath())
		},
	}

	profilesCmd := &cobra.Command{
		Use:   "profiles",
		Short: "list built-in git command profiles",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListProfiles() {
				p, _ := config.GetProfile(name)
				fmt.Printf("  %-8s timeout %-4s dmd %-5t %v\n", name, p.Timeout, p.DMD, p.Success)
			}
		},
	}

	cfgCmd.AddCommand(showCmd, initCmd, pathCmd, profilesCmd)
	return cfgCmd
}

func configPath() string {
	if configFile != "" {
		return configFile
	}
	return config.Path()
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := configPath()
	if _, err := os.Stat(path); err == nil && !configForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := config.Save(path, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Println(styles.Field("wrote", 6, path))
	return nil
}
