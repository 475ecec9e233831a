package main

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/woozymasta/vmt/internal/config"
	"github.com/woozymasta/vmt/internal/prompt"
)

// options holds command line flags.
type options struct {
	searchPaths    string
	logPath        string
	settingsPath   string
	exclude        []string
	textureExclude []string
	jobs           int
	rename         bool
	useSaved       bool
	noPrompt       bool
	dryRun         bool
	verbose        bool
	accessible     bool
	exactComments  bool
}

// app carries the command's I/O so tests can replace it.
type app struct {
	out      io.Writer
	errOut   io.Writer
	prompter prompt.Prompter // nil selects one from the flags
	opt      options
}

// newApp returns an app writing to the process's standard streams.
func newApp() *app {
	return &app{out: os.Stdout, errOut: os.Stderr}
}

// newRootCmd builds the vmtclean command tree with flags bound to a.opt.
func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vmtclean [root]",
		Short: "Normalize a tree of VMT materials",
		Long: titleStyle.Render("vmtclean") + labelStyle.Render(" - normalize a tree of VMT materials") + `

Lowercases texture path lines in every .vmt under root, checks each texture
against the search paths listed in ` + config.SearchPathsFileName + ` and writes
problems to ` + config.LogFileName + `. With --rename, directory and file names
are lowercased first.

When root is omitted it is taken from the saved settings or asked for.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := ""
			if len(args) == 1 {
				root = args[0]
			}
			return a.runClean(cmd.Context(), root, cmd.Flags().Changed("rename"))
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&a.opt.searchPaths, "search-paths", config.SearchPathsFileName, "file listing texture search paths, one per line")
	f.StringVar(&a.opt.settingsPath, "settings", "", "settings file (default is $XDG_CONFIG_HOME/vmtclean/"+config.SettingsFileName+")")
	f.BoolVarP(&a.opt.verbose, "verbose", "v", false, "log every processed file")
	f.BoolVar(&a.opt.exactComments, "exact-comments", false, "cut trailing comments exactly at // instead of one character before")

	lf := cmd.Flags()
	lf.StringVar(&a.opt.logPath, "log", config.LogFileName, "log file for parse failures and missing textures")
	lf.BoolVar(&a.opt.rename, "rename", false, "lowercase directory and file names (slow)")
	lf.BoolVar(&a.opt.useSaved, "use-saved", false, "use the saved settings without asking")
	lf.BoolVar(&a.opt.noPrompt, "no-prompt", false, "never ask; fail when something is missing")
	lf.BoolVar(&a.opt.dryRun, "dry-run", false, "report without renaming or writing files")
	lf.BoolVar(&a.opt.accessible, "accessible", false, "use plain line-based prompts")
	lf.IntVarP(&a.opt.jobs, "jobs", "j", 1, "materials processed concurrently")
	lf.StringSliceVar(&a.opt.exclude, "exclude", nil, "skip files and directories matching these patterns")
	lf.StringSliceVar(&a.opt.textureExclude, "texture-exclude", nil, "skip lookups for matching texture references")

	cmd.AddCommand(newInspectCmd(a))

	return cmd
}

// logger returns a console logger honoring --verbose.
func (a *app) logger() *log.Logger {
	level := log.WarnLevel
	if a.opt.verbose {
		level = log.InfoLevel
	}

	return log.NewWithOptions(a.errOut, log.Options{
		Prefix: "vmtclean",
		Level:  level,
	})
}

// prompt returns the injected prompter or one matching the flags.
func (a *app) prompt() prompt.Prompter {
	switch {
	case a.prompter != nil:
		return a.prompter
	case a.opt.noPrompt:
		return &prompt.Static{}
	default:
		return prompt.Form{Accessible: a.opt.accessible}
	}
}

// store returns the settings store from --settings or the default location.
func (a *app) store() (*config.Store, error) {
	if a.opt.settingsPath != "" {
		return config.NewStore(a.opt.settingsPath), nil
	}

	return config.DefaultStore()
}
