package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hrms-backend-go/internal/service/attendance"
	"github.com/spf13/cobra"
)

// AttendanceOptions holds flags for attendance mark-absent.
type AttendanceOptions struct {
	*RootOptions
	Date string

	now func() time.Time
}

func NewAttendanceCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attendance",
		Short: "Run attendance jobs",
	}
	cmd.AddCommand(newMarkAbsentCommand(&AttendanceOptions{RootOptions: rootOpts, now: time.Now}))
	return cmd
}

func newMarkAbsentCommand(opts *AttendanceOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mark-absent",
		Short: "Mark employees without attendance on a business day as absent",
		Long: `Mark every active employee who has no attendance record on the given
business day as absent. Weekends are skipped and re-running is harmless.
Without --date the previous business day is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := opts.day()
			if err != nil {
				return err
			}

			_, db, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			svc := attendanceService.NewAttendanceService(
				postgresql.NewTransactor(db),
				postgresql.NewAttendanceRepository(db),
				postgresql.NewEmployeeRepository(db),
				nil,
				nil,
			)

			result, err := svc.MarkAbsent(cmd.Context(), day)
			if err != nil {
				return err
			}

			return render(cmd.OutOrStdout(), opts.RootOptions, result, func(w io.Writer) {
				if result.Skipped {
					fmt.Fprintf(w, "%s is not a working day, nothing marked\n", result.Date)
					return
				}
				fmt.Fprintf(w, "%s: marked %d of %d active employees absent\n", result.Date, result.Marked, result.Checked)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", "", "business day as YYYY-MM-DD (default yesterday)")

	return cmd
}

func (o *AttendanceOptions) day() (time.Time, error) {
	if o.Date == "" {
		return attendance.DayStart(o.now().Add(-24 * time.Hour)), nil
	}
	day, err := attendance.ParseBusinessDate(o.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", o.Date)
	}
	return day, nil
}
