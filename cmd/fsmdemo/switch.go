package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/comalice/fsmx"
	"github.com/comalice/fsmx/examples/switchfsm"
)

var switchVariants = map[string]func(io.Writer, ...fsmx.Option) (*fsmx.Machine, error){
	"moore":     switchfsm.NewMoore,
	"resetting": switchfsm.NewResetting,
	"mealy":     switchfsm.NewMealy,
}

func newSwitchCmd(a *app) *cobra.Command {
	var variant string
	cmd := &cobra.Command{
		Use:   "switch",
		Short: "Toggle a light switch from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSwitch(cmd.Context(), variant)
		},
	}
	cmd.Flags().StringVar(&variant, "variant", "moore", "switch variant (moore, resetting, mealy)")
	return cmd
}

// newSwitch builds variant with its outputs going to w.
func (a *app) newSwitch(variant string, w io.Writer) (*fsmx.Machine, error) {
	build, ok := switchVariants[variant]
	if !ok {
		return nil, fmt.Errorf("unknown switch variant %q", variant)
	}
	return build(w, fsmx.WithObserver(a.observer()))
}

func (a *app) runSwitch(ctx context.Context, variant string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	m, err := a.newSwitch(variant, a.out)
	if err != nil {
		return err
	}
	if err := m.Start(ctx); err != nil {
		return err
	}
	a.flush()

	sc := bufio.NewScanner(a.in)
	for {
		fmt.Fprint(a.out, "t=Toggle, r=Restart, q=Quit ? ")
		if !sc.Scan() {
			fmt.Fprintln(a.out)
			return sc.Err()
		}
		switch strings.TrimSpace(sc.Text()) {
		case "t":
			fmt.Fprintln(a.out, "> Toggling switch...")
			if err := m.Dispatch(ctx, switchfsm.Toggle{}); err != nil {
				fmt.Fprintln(a.out, "error:", err)
			}
		case "r":
			if err := m.Start(ctx); err != nil {
				fmt.Fprintln(a.out, "error:", err)
			}
		case "q":
			return nil
		default:
			fmt.Fprintln(a.out, "> Invalid input")
		}
		a.flush()
	}
}
