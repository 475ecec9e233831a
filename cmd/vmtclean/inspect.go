package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/woozymasta/vmt"
	"github.com/woozymasta/vmt/internal/config"
)

var errInvalidMaterial = errors.New("material is invalid")

// newInspectCmd builds the inspect subcommand.
func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.vmt>",
		Short: "Parse one material and print its shader, parameters and issues",
		Long: `Parse one material and print its shader, parameters and issues.

Texture references are checked against the search path file when it exists.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.inspect(args[0])
		},
	}
}

// inspect prints one material and its validation issues. An unparsable
// material is reported and returned as errInvalidMaterial.
func (a *app) inspect(path string) error {
	m, err := vmt.DecodeFile(path, &vmt.ParseOptions{DisableLegacyCommentTrim: a.opt.exactComments})
	if err != nil {
		return err
	}

	vopt := &vmt.ValidateOptions{DisableFileCheck: true}
	paths, err := config.LoadSearchPaths(a.opt.searchPaths)
	switch {
	case err == nil:
		vopt = &vmt.ValidateOptions{Resolver: vmt.NewResolver(paths)}
	case errors.Is(err, config.ErrSearchPathsMissing):
		a.logger().Info("texture lookup disabled", "err", err)
	default:
		return err
	}

	fmt.Fprintln(a.out, titleStyle.Render(path))
	if m.Valid() {
		fmt.Fprintf(a.out, "%s %s\n", labelStyle.Render("shader:"), m.Shader())
		for _, k := range m.Keys() {
			v, _ := m.Param(k)
			fmt.Fprintf(a.out, "  %s %s\n", labelStyle.Render(k), v)
		}
	}

	issues := vmt.Validate(m, vopt)
	for _, is := range issues {
		style := warningStyle
		if is.Level == vmt.IssueError {
			style = errorStyle
		}
		line := style.Render(string(is.Level)+": ") + is.Message
		if is.Path != "" {
			line += " " + pathStyle.Render(is.Path) + " (" + is.Key + ")"
		}
		fmt.Fprintln(a.out, line)
	}
	if len(issues) == 0 {
		fmt.Fprintln(a.out, successStyle.Render("ok"))
	}

	if !m.Valid() {
		return fmt.Errorf("%w: %s", errInvalidMaterial, path)
	}

	return nil
}
