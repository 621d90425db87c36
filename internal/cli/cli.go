// Package cli implements the shiftcalc command line tool.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"timesheet.service/internal/core"
	"timesheet.service/internal/core/timerange"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	policy core.OvertimePolicy
	root   *cobra.Command
}

// NewApp creates the CLI with the overtime policy used to annotate durations.
func NewApp(policy core.OvertimePolicy) *App {
	a := &App{policy: policy}

	a.root = &cobra.Command{
		Use:   "shiftcalc",
		Short: "Compute worked time for a shift",
		Long: `shiftcalc computes the worked duration between a start and an end time
after deducting a break, the same way the timesheet service does.`,
		SilenceUsage: true,
	}

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.durationCmd())
	a.root.AddCommand(a.validateCmd())
	a.root.AddCommand(a.dayTypesCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "shiftcalc %s (commit: %s)\n", Version, Commit)
		},
	}
}

func (a *App) durationCmd() *cobra.Command {
	var (
		start   string
		end     string
		breaks  string
		dayType string
	)

	cmd := &cobra.Command{
		Use:   "duration",
		Short: "Compute the worked duration of a shift",
		Long: `Compute the worked duration of a shift.

Example:
  shiftcalc duration --start=09:00 --end=17:30 --break=00:30`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ev, err := core.EvaluateTimes(dayType, start, end, breaks)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if ev.Leave {
				fmt.Fprintf(out, "%s is a leave day: no working time\n", ev.DayType.Label())
				return nil
			}
			fmt.Fprintf(out, "Duration: %s (%d minutes)\n", ev.Worked, ev.Worked.TotalMinutes())

			over, under, err := a.policy.Classify(ev.DayType, ev.Start, ev.End, ev.Break)
			if err != nil {
				return err
			}
			if over || under {
				diff, _ := a.policy.TimeDifference(ev.Start, ev.End, ev.Break)
				kind := "Overtime"
				if under {
					kind = "Undertime"
				}
				fmt.Fprintf(out, "%s: %+.1fh against a %s shift\n", kind, diff, a.policy.ShiftLength)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM, required)")
	cmd.Flags().StringVar(&end, "end", "", "End time (HH:MM, required)")
	cmd.Flags().StringVar(&breaks, "break", "00:00", "Break length (HH:MM)")
	cmd.Flags().StringVar(&dayType, "daytype", string(timerange.DayWork), "Day type code")

	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func (a *App) validateCmd() *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that an end time comes after a start time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := timerange.ParseClockTime(start)
			if err != nil {
				return err
			}
			e, err := timerange.ParseClockTime(end)
			if err != nil {
				return err
			}
			if !timerange.ValidateTimePair(s, e) {
				return fmt.Errorf("%w: %s is not after %s", timerange.ErrInvalidRange, e, s)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s-%s is valid\n", s, e)
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM, required)")
	cmd.Flags().StringVar(&end, "end", "", "End time (HH:MM, required)")

	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func (a *App) dayTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daytypes",
		Short: "List the day type codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, d := range timerange.DayTypes {
				leave, err := timerange.IsLeaveType(d)
				if err != nil {
					return err
				}
				marker := ""
				if leave {
					marker = "leave"
				}
				fmt.Fprintf(out, "%-6s %-26s %s\n", d, d.Label(), marker)
			}
			return nil
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}
