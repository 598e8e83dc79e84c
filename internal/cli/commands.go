package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vk/partgrid/internal/app"
	"github.com/vk/partgrid/internal/emit"
)

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usageError("%s accepts no arguments, got %q", cmd.CommandPath(), args)
	}
	return nil
}

func planFlags(cmd *cobra.Command, f *flags) {
	cmd.Flags().BoolVar(&f.static, "static", false, "Derive a plan valid for every atom assignment.")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Write the plan to a file instead of stdout.")
}

func describeCommand(deps Deps, f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print the derived plan as YAML",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(deps, f, string(emit.FormatYAML))
			if err != nil {
				return err
			}
			return a.Run(cmd.Context())
		},
	}
	planFlags(cmd, f)
	return cmd
}

func makeCommand(deps Deps, f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "make",
		Short: "Print the derived rules as a Makefile",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(deps, f, string(emit.FormatMake))
			if err != nil {
				return err
			}
			return a.Run(cmd.Context())
		},
	}
	planFlags(cmd, f)
	return cmd
}

func watchCommand(deps Deps, f *flags) *cobra.Command {
	var debounce = app.DefaultDebounce
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the plan file whenever the description or sources change",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if f.output == "" {
				return usageError("watch requires --output")
			}
			a, err := newApp(deps, f, f.format)
			if err != nil {
				return err
			}
			return a.Watch(cmd.Context(), debounce)
		},
	}
	planFlags(cmd, f)
	cmd.Flags().StringVar(&f.format, "format", string(emit.FormatMake), "Output format. Options: "+strings.Join(emit.Formats(), ", ")+".")
	cmd.Flags().DurationVar(&debounce, "debounce", app.DefaultDebounce, "Quiet period before regenerating.")
	return cmd
}

func atomsCommand(deps Deps, f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "atoms",
		Short: "List the atoms and their values",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(deps, f, "")
			if err != nil {
				return err
			}
			atoms, err := a.Atoms(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ATOM\tVALUE\tDEFAULT\tDOC")
			for _, at := range atoms {
				fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", at.Name, changed(strconv.FormatBool(at.Value), at.Value != at.Default), at.Default, at.Doc)
			}
			return tw.Flush()
		},
	}
}

func keysCommand(deps Deps, f *flags) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "List the configuration keys and their values",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(deps, f, "")
			if err != nil {
				return err
			}
			keys, err := a.Keys(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tTYPE\tVALUE\tDEFAULT\tDOC")
			for _, k := range keys {
				if !all && !k.Public {
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", k.Name, k.Type, changed(strconv.Quote(k.Value), k.Set), k.Default, k.Doc)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Include keys that are not public.")
	return cmd
}

// changed marks values that differ from their default. Cells are not
// colored, since tabwriter would count the escape codes as text.
func changed(s string, isChanged bool) string {
	if isChanged {
		return s + "*"
	}
	return s
}
