package validations

import (
	"context"
	"regexp"
	"strings"

	pkgError "github.com/AzielCF/daily-post/pkg/error"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const invalidRunDateMessage = "Invalid date format. Use YYYY-MM-DD."

var runDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// PublishRequest is the input of a manual publish.
type PublishRequest struct {
	RunDate string
	Force   bool
}

// DeleteRunsRequest selects either one date or every run.
type DeleteRunsRequest struct {
	RunDate string
	All     bool
}

func runDateRules() []validation.Rule {
	return []validation.Rule{
		validation.Match(runDatePattern).Error(invalidRunDateMessage),
		validation.Date("2006-01-02").Error(invalidRunDateMessage),
	}
}

// ValidateRunDate checks the YYYY-MM-DD shape and that the date exists.
func ValidateRunDate(ctx context.Context, runDate string) error {
	if err := validation.ValidateWithContext(ctx, runDate, runDateRules()...); err != nil {
		return pkgError.ValidationError(err.Error())
	}
	return nil
}

func ValidatePublishRequest(ctx context.Context, request PublishRequest) error {
	request.RunDate = strings.TrimSpace(request.RunDate)
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.RunDate, runDateRules()...),
	)
	if err != nil {
		return pkgError.ValidationError(err.Error())
	}
	return nil
}

func ValidateDeleteRunsRequest(ctx context.Context, request DeleteRunsRequest) error {
	if request.All {
		return nil
	}
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.RunDate,
			validation.Required.Error("Query param `date` must be YYYY-MM-DD"),
			validation.Match(runDatePattern).Error("Query param `date` must be YYYY-MM-DD"),
		),
	)
	if err != nil {
		return pkgError.ValidationError(err.Error())
	}
	return nil
}
