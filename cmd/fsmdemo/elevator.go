package main

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/comalice/fsmx"
	"github.com/comalice/fsmx/examples/elevator"
	"github.com/comalice/fsmx/observe"
)

// printServices announces help calls on the demo output.
type printServices struct{ a *app }

func (s printServices) CallMaintenance()  { fmt.Fprintln(s.a.out, "*** calling maintenance ***") }
func (s printServices) CallFirefighters() { fmt.Fprintln(s.a.out, "*** calling firefighters ***") }

func newElevatorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "elevator",
		Short: "Operate the elevator controller from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runElevator(cmd.Context())
		},
	}
}

func (a *app) newElevator() (*elevator.Controller, error) {
	opts := []elevator.Option{
		elevator.WithLogger(a.log),
		elevator.WithObserver(a.observer()),
	}
	if a.cfg.Elevator.StrictList {
		opts = append(opts, elevator.WithStrictList())
	}
	return elevator.New(printServices{a}, opts...)
}

func (a *app) runElevator(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	c, err := a.newElevator()
	if err != nil {
		return err
	}
	if err := c.Start(ctx); err != nil {
		return err
	}
	a.flush()
	d := observe.NewTracedDispatcher(c.List, "elevator", nil)

	sc := bufio.NewScanner(a.in)
	for {
		fmt.Fprint(a.out, "c=Call, f=FloorSensor, a=Alarm, q=Quit ? ")
		if !sc.Scan() {
			fmt.Fprintln(a.out)
			return sc.Err()
		}
		e, quit, err := a.parseElevator(sc.Text())
		switch {
		case quit:
			fmt.Fprintln(a.out, "Thanks for playing!")
			return nil
		case err != nil:
			fmt.Fprintln(a.out, err)
			continue
		}
		if err := d.Dispatch(ctx, e); err != nil {
			fmt.Fprintln(a.out, "error:", err)
		}
		a.flush()
		fmt.Fprintf(a.out, "  floor %d, elevator %s, motor %s\n",
			c.Floor(),
			c.Elevator.StateName(c.Elevator.Current()),
			c.Motor.StateName(c.Motor.Current()))
	}
}

func (a *app) parseElevator(line string) (fsmx.Event, bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, false, fmt.Errorf("invalid input")
	}
	floor := func() (int, error) {
		if len(fields) != 2 {
			return 0, fmt.Errorf("usage: %s <floor>", fields[0])
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 0 || n >= a.cfg.Elevator.Floors {
			return 0, fmt.Errorf("floor must be 0..%d", a.cfg.Elevator.Floors-1)
		}
		return n, nil
	}

	switch fields[0] {
	case "c":
		n, err := floor()
		return elevator.Call{Floor: n}, false, err
	case "f":
		n, err := floor()
		return elevator.FloorSensor{Floor: n}, false, err
	case "a":
		return elevator.Alarm{}, false, nil
	case "q":
		return nil, true, nil
	default:
		return nil, false, fmt.Errorf("invalid input %q", fields[0])
	}
}
