package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/berrythewa/fmclip/internal/common"
	"github.com/berrythewa/fmclip/internal/config"
	"github.com/berrythewa/fmclip/pkg/utils"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the fmclip configuration file",
		Long: `The configuration file holds the preference defaults, the clipboard
backend and the logging setup. Preferences changed with 'fmclip prefs'
are stored in the database and take precedence over the defaults here.`,
	}

	cmd.AddCommand(newConfigPathCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigEditCmd())
	cmd.AddCommand(newConfigValidateCmd())
	return cmd
}

// activeConfigPath is the --config flag or the default location.
func activeConfigPath() (string, error) {
	if cfgFile != "" {
		return config.ExpandHome(cfgFile), nil
	}
	path, err := config.GetActiveConfigPath()
	if err != nil {
		return "", fmt.Errorf("failed to get active config path: %w", err)
	}
	return path, nil
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show where fmclip keeps its files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current := GetConfig()
			if current == nil {
				return errors.New("configuration not loaded")
			}
			return writePaths(cmd.OutOrStdout(), current)
		},
	}
}

func writePaths(w io.Writer, c *config.Config) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "config\t%s\n", c.Path)
	fmt.Fprintf(tw, "env file\t%s\n", c.SystemPaths.EnvFile)
	fmt.Fprintf(tw, "database\t%s\n", c.DBPath())
	if c.Log.EnableFileLogging {
		fmt.Fprintf(tw, "log\t%s\n", filepath.Join(c.SystemPaths.LogDir, common.LogFileName))
	}
	fmt.Fprintf(tw, "backend\t%s (%s)\n", config.ResolveBackend(c.Clipboard.Backend), c.Clipboard.Backend)
	return tw.Flush()
}

func newConfigShowCmd() *cobra.Command {
	var (
		outputFormat string
		defaults     bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration after .env and FMCLIP_* overrides were applied.
With --defaults the built-in values are printed instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current := GetConfig()
			if defaults {
				current = config.DefaultConfig()
			}
			if current == nil {
				return errors.New("configuration not loaded")
			}
			return writeConfig(cmd.OutOrStdout(), current, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "yaml", "output format (yaml or json)")
	cmd.Flags().BoolVar(&defaults, "defaults", false, "print the built-in defaults")
	return cmd
}

func writeConfig(w io.Writer, c *config.Config, outputFormat string) error {
	switch outputFormat {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	case "yaml":
		data, err := yaml.Marshal(c)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		if c.Path != "" {
			fmt.Fprintf(w, "# %s\n", c.Path)
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unsupported format: %s", outputFormat)
	}
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with defaults",
		Long: `Write the defaults for this platform to the configuration file. The
export and import paths point at clipboard.xml in your documents folder.
An existing file is kept unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := activeConfigPath()
			if err != nil {
				return err
			}

			// the first run of any command already wrote this file
			current := GetConfig()
			justCreated := current != nil && current.Created && current.Path == path
			if utils.FileExists(path) && !force && !justCreated {
				return fmt.Errorf("configuration already exists at %s, use --force to overwrite", path)
			}

			fresh := config.DefaultConfig()
			config.ApplyPlatformDefaults(fresh)
			if err := fresh.Save(path); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}
			GetZapLogger().Info("Configuration written",
				zap.String("path", path),
				zap.String("export_path", fresh.Defaults.ExportPath))

			f := formatterFor(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), f.Success("Configuration written to "+path))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

func newConfigEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Open the configuration file in $VISUAL or $EDITOR",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := activeConfigPath()
			if err != nil {
				return err
			}

			edit := exec.CommandContext(cmd.Context(), editor(), path)
			edit.Stdin = os.Stdin
			edit.Stdout = os.Stdout
			edit.Stderr = os.Stderr
			if err := edit.Run(); err != nil {
				return fmt.Errorf("failed to run editor: %w", err)
			}

			f := formatterFor(cmd.OutOrStdout())
			if err := validateConfig(path); err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), f.Failure(err.Error()))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), f.Success("Configuration is valid"))
			return nil
		},
	}
}

func editor() string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if e := os.Getenv(env); e != "" {
			return e
		}
	}
	if runtime.GOOS == "windows" {
		return "notepad"
	}
	return "vi"
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := activeConfigPath()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				path = config.ExpandHome(args[0])
			}

			if err := validateConfig(path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid")
			return nil
		},
	}
}

// validateConfig parses the file over the defaults and checks the values.
func validateConfig(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	c := config.DefaultConfig()
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("invalid YAML: %w", err)
	}
	return c.Validate()
}
