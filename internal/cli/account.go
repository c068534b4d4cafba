package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hrms-backend-go/internal/repository/postgresql"
	serviceAuth "github.com/cmlabs-hris/hrms-backend-go/internal/service/auth"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// AccountOptions holds flags for account create.
type AccountOptions struct {
	*RootOptions
	Type       string
	Email      string
	FullName   string
	Password   string
	Department string
	Position   string

	BasicSalary      string
	Housing          string
	Transport        string
	Meal             string
	Medical          string
	OtherAllowance   string
	OvertimeRate     string
	TaxRate          string
	InsuranceRate    string
	OtherDeduction   string
	DailyHours       float64
	OvertimeEligible bool
}

func NewAccountCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage admin and employee accounts",
	}
	cmd.AddCommand(newAccountCreateCommand(rootOpts))
	return cmd
}

func newAccountCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AccountOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account, with a compensation profile for employees",
		Example: `  hrmsctl account create --type admin --email hr@example.com --name "HR Admin" --password secret
  hrmsctl account create --email jane@example.com --name "Jane" --password secret \
    --basic-salary 2100 --housing 300 --tax-rate 10 --overtime-rate 20 --overtime-eligible`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			account, profile, err := opts.build()
			if err != nil {
				return err
			}

			_, db, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			created, err := createAccount(cmd.Context(), postgresql.NewTransactor(db),
				postgresql.NewAccountRepository(db), postgresql.NewEmployeeProfileWriter(db),
				account, profile, opts.position(), opts.Password)
			if err != nil {
				return err
			}

			resp := user.NewAccountResponse(created)
			return render(cmd.OutOrStdout(), opts.RootOptions, resp, func(w io.Writer) {
				fmt.Fprintf(w, "created %s %s <%s>\n", resp.UserType, resp.ID, resp.Email)
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Type, "type", string(user.TypeEmployee), "account type (admin|employee)")
	f.StringVar(&opts.Email, "email", "", "login email (required)")
	f.StringVar(&opts.FullName, "name", "", "full name (required)")
	f.StringVar(&opts.Password, "password", "", "initial password (required)")
	f.StringVar(&opts.Department, "department", "", "department")
	f.StringVar(&opts.Position, "position", "", "job position (employees)")
	f.StringVar(&opts.BasicSalary, "basic-salary", "0", "monthly basic salary")
	f.StringVar(&opts.Housing, "housing", "0", "housing allowance")
	f.StringVar(&opts.Transport, "transport", "0", "transport allowance")
	f.StringVar(&opts.Meal, "meal", "0", "meal allowance")
	f.StringVar(&opts.Medical, "medical", "0", "medical allowance")
	f.StringVar(&opts.OtherAllowance, "other-allowance", "0", "other allowance")
	f.StringVar(&opts.OvertimeRate, "overtime-rate", "0", "pay per overtime hour")
	f.StringVar(&opts.TaxRate, "tax-rate", "0", "tax as a percentage of basic salary")
	f.StringVar(&opts.InsuranceRate, "insurance-rate", "0", "insurance as a percentage of basic salary")
	f.StringVar(&opts.OtherDeduction, "other-deduction", "0", "fixed monthly deduction")
	f.Float64Var(&opts.DailyHours, "daily-hours", 8, "standard working hours per day")
	f.BoolVar(&opts.OvertimeEligible, "overtime-eligible", false, "pay overtime beyond the daily hours")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

// build validates the flags and returns the account and, for employees, the profile.
func (o *AccountOptions) build() (user.Account, *employee.CompensationProfile, error) {
	userType, err := user.ParseUserType(o.Type)
	if err != nil {
		return user.Account{}, nil, err
	}

	email := strings.ToLower(strings.TrimSpace(o.Email))

	var errs validator.ValidationErrors
	if !validator.IsValidEmail(email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email must be a valid email address"})
	}
	if validator.IsEmpty(o.FullName) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}
	if len(o.Password) < 8 {
		errs = append(errs, validator.ValidationError{Field: "password", Message: "password must be at least 8 characters"})
	}

	account := user.Account{
		Ref:      user.Ref{Type: userType},
		Email:    email,
		FullName: strings.TrimSpace(o.FullName),
		IsActive: true,
	}
	if d := strings.TrimSpace(o.Department); d != "" {
		account.Department = &d
	}

	if userType != user.TypeEmployee {
		if len(errs) > 0 {
			return user.Account{}, nil, errs
		}
		return account, nil, nil
	}

	parse := func(field, raw string) decimal.Decimal {
		d, err := decimal.NewFromString(raw)
		if err != nil || d.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: field, Message: field + " must be a non-negative number"})
			return decimal.Zero
		}
		return d
	}

	profile := employee.CompensationProfile{
		BasicSalary: parse("basic-salary", o.BasicSalary),
		Allowances: employee.Allowances{
			Housing:   parse("housing", o.Housing),
			Transport: parse("transport", o.Transport),
			Meal:      parse("meal", o.Meal),
			Medical:   parse("medical", o.Medical),
			Other:     parse("other-allowance", o.OtherAllowance),
		},
		OvertimeRate:       parse("overtime-rate", o.OvertimeRate),
		TaxRate:            parse("tax-rate", o.TaxRate),
		InsuranceRate:      parse("insurance-rate", o.InsuranceRate),
		OtherDeduction:     parse("other-deduction", o.OtherDeduction),
		StandardDailyHours: o.DailyHours,
		OvertimeEligible:   o.OvertimeEligible,
	}
	if o.DailyHours <= 0 || o.DailyHours > 24 {
		errs = append(errs, validator.ValidationError{Field: "daily-hours", Message: "daily-hours must be between 0 and 24"})
	}

	if len(errs) > 0 {
		return user.Account{}, nil, errs
	}
	return account, &profile, nil
}

func (o *AccountOptions) position() *string {
	if p := strings.TrimSpace(o.Position); p != "" {
		return &p
	}
	return nil
}

func createAccount(
	ctx context.Context,
	tx database.Transactor,
	accounts user.AccountRepository,
	profiles employee.ProfileWriter,
	account user.Account,
	profile *employee.CompensationProfile,
	position *string,
	password string,
) (user.Account, error) {
	hash, err := serviceAuth.HashPassword(password)
	if err != nil {
		return user.Account{}, err
	}
	account.PasswordHash = hash

	var created user.Account
	err = tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		created, err = accounts.Create(ctx, account)
		if err != nil {
			return err
		}
		if profile == nil {
			return nil
		}
		return profiles.SetProfile(ctx, created.Ref.ID, position, *profile)
	})
	if err != nil {
		return user.Account{}, err
	}
	return created, nil
}
