package report

import (
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/validator"
)

// MaxExportDays bounds the date range of one attendance export.
const MaxExportDays = 366

type AttendanceExportRequest struct {
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	UserType  *string `json:"user_type,omitempty"`
}

func (r *AttendanceExportRequest) Validate() error {
	var errs validator.ValidationErrors

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}
	if startOK && endOK {
		if end.Before(start) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must not be before start_date",
			})
		} else if int(end.Sub(start).Hours()/24) >= MaxExportDays {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "date range must not exceed " + validator.Itoa(MaxExportDays) + " days",
			})
		}
	}

	if r.UserType != nil && !user.UserType(*r.UserType).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "user_type",
			Message: "user_type must be one of: admin, employee",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PayrollExportRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r *PayrollExportRequest) Validate() error {
	errs := validator.ValidatePeriod(r.Month, r.Year)
	if len(errs) > 0 {
		return errs
	}
	return nil
}
