package cli

import (
	"fmt"
	"io"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/lock"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hrms-backend-go/internal/repository/postgresql"
	payrollService "github.com/cmlabs-hris/hrms-backend-go/internal/service/payroll"
	"github.com/spf13/cobra"
)

// PayrollOptions holds flags for payroll generate.
type PayrollOptions struct {
	*RootOptions
	Month   int
	Year    int
	AdminID string
}

func NewPayrollCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payroll",
		Short: "Run payroll jobs",
	}
	cmd.AddCommand(newPayrollGenerateCommand(rootOpts))
	return cmd
}

func newPayrollGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PayrollOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:     "generate",
		Short:   "Generate payroll for every active employee for one month",
		Example: "  hrmsctl payroll generate --month 3 --year 2024 --admin-id 0190c1d2-...",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := payroll.GenerateRequest{Month: opts.Month, Year: opts.Year}
			if err := req.Validate(); err != nil {
				return err
			}
			if validator.IsEmpty(opts.AdminID) {
				return fmt.Errorf("--admin-id is required")
			}

			cfg, db, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			var locker lock.Locker = lock.NewMemory()
			if cfg.Redis.Addr != "" {
				redisLocker := lock.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
				defer redisLocker.Close()
				locker = redisLocker
			}

			attendanceRepo := postgresql.NewAttendanceRepository(db)
			svc := payrollService.NewPayrollService(
				postgresql.NewPayrollRepository(db),
				postgresql.NewEmployeeRepository(db),
				attendanceRepo,
				locker,
				nil,
				payrollService.Config{LockTTL: cfg.Payroll.LockTTL, Workers: cfg.Payroll.Workers},
			)

			resp, err := svc.GeneratePayroll(cmd.Context(), req, user.AdminRef(opts.AdminID))
			if err != nil {
				return err
			}

			return render(cmd.OutOrStdout(), opts.RootOptions, resp, func(w io.Writer) {
				fmt.Fprintf(w, "generated %d payroll records for %04d-%02d\n", resp.Generated, resp.Year, resp.Month)
			})
		},
	}

	cmd.Flags().IntVar(&opts.Month, "month", 0, "month 1-12 (required)")
	cmd.Flags().IntVar(&opts.Year, "year", 0, "four-digit year (required)")
	cmd.Flags().StringVar(&opts.AdminID, "admin-id", "", "admin recorded as the generator (required)")
	_ = cmd.MarkFlagRequired("month")
	_ = cmd.MarkFlagRequired("year")

	return cmd
}
