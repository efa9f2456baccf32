package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"

	"github.com/n2code/vsprojm"
	"github.com/n2code/vsprojm/cmd/vsprojm/flags"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type cli struct {
	config  *viper.Viper
	stdout  io.Writer
	stderr  io.Writer
	prompt  func(quiet bool, fancy bool) vsprojm.RequestChoice
	fancy   bool
	logger  *slog.Logger
	started bool //an operation began, later errors are not caused by the invocation
}

func newRootCommand(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "vsprojm",
		Short: "Keep a Visual Studio C/C++ project and its filter file in sync",
		Long: `vsprojm adds, deletes, and reorganizes the source files of a .vcxproj project.
The filter file (.vcxproj.filters) is updated alongside so both always agree.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(cmd); err != nil {
				return err
			}
			if c.config.GetBool(flags.VerboseKey) && c.config.GetBool(flags.QuietKey) {
				return fmt.Errorf("quiet mode and verbose mode are mutually exclusive")
			}
			c.setupLogging()
			return nil
		},
	}
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)
	root.PersistentFlags().SortFlags = false
	root.PersistentFlags().StringP(flags.Project, "p", "", "project file, or a directory to search upwards from (default: working directory)")
	root.PersistentFlags().BoolP(flags.Verbose, "v", false, "output more details on what is done")
	root.PersistentFlags().BoolP(flags.Quiet, "q", false, "output only requested information and errors")
	root.PersistentFlags().String(flags.Config, "", "config file (default: .vsprojm.yaml in the working or home directory)")

	root.AddCommand(
		c.addCommand(),
		c.deleteCommand(),
		c.viewCommand(),
		c.renameCommand(),
		c.settingCommand("add-incdir", "incdir", "Add an include directory to every configuration", flags.Path, "P",
			func(api vsprojm.Vsprojm, value string) ([]string, error) { return api.AddIncludeDirectory(value) }),
		c.settingCommand("add-libdir", "libdir", "Add a library directory to every configuration", flags.Path, "P",
			func(api vsprojm.Vsprojm, value string) ([]string, error) { return api.AddLibraryDirectory(value) }),
		c.settingCommand("add-lib", "lib", "Add a library to the linker inputs of every configuration", flags.Name, "n",
			func(api vsprojm.Vsprojm, value string) ([]string, error) { return api.AddLibrary(value) }),
	)
	return root
}

func (c *cli) addCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add",
		Aliases: []string{"a"},
		Short:   "Add files with the given extension and sort them into filters mirroring their folders",
		Args:    noArguments,
		RunE: func(cmd *cobra.Command, args []string) error {
			extension, _ := cmd.Flags().GetString(flags.Extension)
			directory, _ := cmd.Flags().GetString(flags.Directory)
			recursive, _ := cmd.Flags().GetBool(flags.Recursive)
			pattern, negate, err := patternFlags(cmd)
			if err != nil {
				return err
			}
			return c.withProject(cmd, func(api vsprojm.Vsprojm) error {
				_, err := api.AddFiles(vsprojm.ScanRequest{
					Extension: extension,
					Directory: directory,
					Recursive: recursive,
					Pattern:   pattern,
					Negate:    negate,
					Ignore:    c.config.GetStringSlice(flags.IgnoreKey),
				})
				return err
			})
		},
	}
	cmd.Flags().StringP(flags.Extension, "e", "", "extension of the files to add, e.g. cpp")
	cmd.Flags().StringP(flags.Directory, "d", "", "directory to search (default: project directory)")
	cmd.Flags().BoolP(flags.Recursive, "r", false, "search subdirectories too")
	addPatternFlags(cmd)
	addDryRunFlag(cmd)
	cmd.MarkFlagRequired(flags.Extension)
	return cmd
}

func (c *cli) deleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete",
		Aliases: []string{"del"},
		Short:   "Remove a filter, a file, a folder, or all files with an extension from the project",
		Long: `Remove files from the project and the filter file. Files on disk are not touched.
A target is resolved as a filter first (the whole subtree is removed), then as a file, then as a folder.
Filters left without content are removed as well.`,
		Args: noArguments,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, _ := cmd.Flags().GetString(flags.Target)
			extension, _ := cmd.Flags().GetString(flags.Extension)
			pattern, negate, err := patternFlags(cmd)
			if err != nil {
				return err
			}
			return c.withProject(cmd, func(api vsprojm.Vsprojm) error {
				_, err := api.Delete(vsprojm.DeleteRequest{
					Target:    target,
					Extension: extension,
					Pattern:   pattern,
					Negate:    negate,
				}, c.choice(cmd))
				return err
			})
		},
	}
	cmd.Flags().StringP(flags.Target, "t", "", "filter, file, or folder to remove")
	cmd.Flags().StringP(flags.Extension, "e", "", "remove all files with this extension")
	addPatternFlags(cmd)
	addConfirmationFlag(cmd)
	addDryRunFlag(cmd)
	cmd.MarkFlagsOneRequired(flags.Target, flags.Extension)
	cmd.MarkFlagsMutuallyExclusive(flags.Target, flags.Extension)
	return cmd
}

func (c *cli) viewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "view",
		Aliases: []string{"v"},
		Short:   "Display the filters and their files as a tree",
		Args:    noArguments,
		RunE: func(cmd *cobra.Command, args []string) error {
			filesOnly, _ := cmd.Flags().GetBool(flags.FilesOnly)
			level, _ := cmd.Flags().GetInt(flags.Level)
			return c.withProject(cmd, func(api vsprojm.Vsprojm) error {
				return api.PrintTree(filesOnly, level)
			})
		},
	}
	cmd.Flags().BoolP(flags.FilesOnly, "f", false, "hide filters without files")
	cmd.Flags().IntP(flags.Level, "l", vsprojm.AllLevels, "depth to display, 0 shows only filters")
	return cmd
}

func (c *cli) renameCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rename",
		Aliases: []string{"ren"},
		Short:   "Rename a filter, merging into an existing one if necessary",
		Args:    noArguments,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, _ := cmd.Flags().GetString(flags.From)
			to, _ := cmd.Flags().GetString(flags.To)
			return c.withProject(cmd, func(api vsprojm.Vsprojm) error {
				_, err := api.Rename(from, to, c.choice(cmd))
				return err
			})
		},
	}
	cmd.Flags().StringP(flags.From, "f", "", `filter to rename, e.g. "Source Files\net"`)
	cmd.Flags().StringP(flags.To, "t", "", "new filter path")
	addConfirmationFlag(cmd)
	addDryRunFlag(cmd)
	cmd.MarkFlagRequired(flags.From)
	cmd.MarkFlagRequired(flags.To)
	return cmd
}

func (c *cli) settingCommand(use string, alias string, short string, flag string, shorthand string, apply func(vsprojm.Vsprojm, string) ([]string, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:     use,
		Aliases: []string{alias},
		Short:   short,
		Args:    noArguments,
		RunE: func(cmd *cobra.Command, args []string) error {
			value, _ := cmd.Flags().GetString(flag)
			return c.withProject(cmd, func(api vsprojm.Vsprojm) error {
				_, err := apply(api, value)
				return err
			})
		},
	}
	cmd.Flags().StringP(flag, shorthand, "", "value to add")
	addDryRunFlag(cmd)
	cmd.MarkFlagRequired(flag)
	return cmd
}

// withProject opens the project, runs the operation, and commits its changes.
func (c *cli) withProject(cmd *cobra.Command, operation func(vsprojm.Vsprojm) error) (err error) {
	c.started = true
	api, err := vsprojm.Open(c.projectLocation(), c.createConfig(cmd))
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := api.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()
	if err := operation(api); err != nil {
		return err
	}
	return api.PersistChanges()
}

func (c *cli) projectLocation() string {
	if location := c.config.GetString(flags.ProjectKey); location != "" {
		return location
	}
	return "."
}

func (c *cli) createConfig(cmd *cobra.Command) vsprojm.CreateConfig {
	config := vsprojm.CreateConfig{
		DefaultFilter: c.config.GetString(flags.DefaultFilterKey),
		FancyTerminal: c.fancy,
		Logger:        c.logger,
		Output:        c.stdout,
		ErrorOutput:   c.stderr,
	}
	if dryRun := cmd.Flags().Lookup(flags.DryRun); dryRun != nil {
		config.DryRun, _ = cmd.Flags().GetBool(flags.DryRun)
	}
	switch {
	case c.config.GetBool(flags.VerboseKey):
		config.Verbosity = vsprojm.VerboseMode
	case c.config.GetBool(flags.QuietKey):
		config.Verbosity = vsprojm.QuietMode
	}
	return config
}

func (c *cli) choice(cmd *cobra.Command) vsprojm.RequestChoice {
	quiet := c.config.GetBool(flags.QuietKey)
	if yes, _ := cmd.Flags().GetBool(flags.Yes); yes {
		return AutoChooseDefaultOption(quiet, c.stdout)
	}
	return c.prompt(quiet, c.fancy)
}

func noArguments(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%s accepts no arguments, only flags", cmd.Name())
	}
	return nil
}

func addPatternFlags(cmd *cobra.Command) {
	cmd.Flags().StringP(flags.Regex, "x", "", "only consider files whose relative path matches this regular expression")
	cmd.Flags().Bool(flags.Not, false, "invert the regular expression")
}

func patternFlags(cmd *cobra.Command) (pattern *regexp.Regexp, negate bool, err error) {
	expression, _ := cmd.Flags().GetString(flags.Regex)
	negate, _ = cmd.Flags().GetBool(flags.Not)
	if expression == "" {
		if negate {
			return nil, false, fmt.Errorf("--%s requires --%s", flags.Not, flags.Regex)
		}
		return nil, false, nil
	}
	if pattern, err = regexp.Compile(expression); err != nil {
		return nil, false, fmt.Errorf("bad regular expression: %w", err)
	}
	return pattern, negate, nil
}

func addConfirmationFlag(cmd *cobra.Command) {
	cmd.Flags().BoolP(flags.Yes, "y", false, "do not ask for confirmation")
}

func addDryRunFlag(cmd *cobra.Command) {
	cmd.Flags().Bool(flags.DryRun, false, "show what would change without writing anything")
}
