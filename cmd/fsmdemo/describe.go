package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/comalice/fsmx"
	"github.com/comalice/fsmx/internal/production"
)

func newDescribeCmd(a *app) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:       "describe [elevator|moore|resetting|mealy]",
		Short:     "Print a machine definition as DOT, YAML or JSON",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"elevator", "moore", "resetting", "mealy"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "elevator"
			if len(args) == 1 {
				target = args[0]
			}
			if !cmd.Flags().Changed("format") {
				format = a.cfg.Describe.Format
			}
			return a.describe(cmd, target, production.Format(format), out)
		},
	}
	cmd.Flags().StringVar(&format, "format", "dot", "output format (dot, yaml, json)")
	cmd.Flags().StringVar(&out, "out", "", "also store each description in this directory (yaml or json)")
	return cmd
}

func (a *app) describe(cmd *cobra.Command, target string, format production.Format, dir string) error {
	var ds []fsmx.Description
	if target == "elevator" {
		c, err := a.newElevator()
		if err != nil {
			return err
		}
		for _, m := range c.List.Members() {
			ds = append(ds, m.Describe())
		}
	} else {
		m, err := a.newSwitch(target, io.Discard)
		if err != nil {
			return err
		}
		ds = append(ds, m.Describe())
	}

	if dir != "" {
		if err := a.store(cmd, dir, format, ds); err != nil {
			return err
		}
	}
	return production.Export(cmd.OutOrStdout(), format, ds...)
}

func (a *app) store(cmd *cobra.Command, dir string, format production.Format, ds []fsmx.Description) error {
	var (
		s   *production.Store
		err error
	)
	switch format {
	case production.FormatJSON:
		s, err = production.NewJSONStore(dir)
	case production.FormatYAML:
		s, err = production.NewYAMLStore(dir)
	default:
		return fmt.Errorf("--out needs yaml or json, not %q", format)
	}
	if err != nil {
		return err
	}
	for _, d := range ds {
		if err := s.Save(cmd.Context(), d); err != nil {
			return err
		}
	}
	return nil
}
