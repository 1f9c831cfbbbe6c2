package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	domainPublish "github.com/AzielCF/daily-post/domains/publish"
	pkgError "github.com/AzielCF/daily-post/pkg/error"
	"github.com/AzielCF/daily-post/pkg/timeutils"
)

var (
	absoluteURLPattern = regexp.MustCompile(`(?i)^https?://`)
	httpsURLPattern    = regexp.MustCompile(`(?i)^https://`)
)

var frenchDayNames = map[timeutils.Weekday]string{
	timeutils.Monday:    "Lundi",
	timeutils.Tuesday:   "Mardi",
	timeutils.Wednesday: "Mercredi",
	timeutils.Thursday:  "Jeudi",
	timeutils.Friday:    "Vendredi",
	timeutils.Saturday:  "Samedi",
	timeutils.Sunday:    "Dimanche",
}

// ContentOptions carries the settings used to render a payload.
type ContentOptions struct {
	PublicBaseURL string
	Production    bool
	Phone         string
	PriceEN       string
	PriceFR       string
}

type contentService struct {
	templates domainPublish.ITemplateStore
	opts      ContentOptions
}

func NewContentService(templates domainPublish.ITemplateStore, opts ContentOptions) domainPublish.IContentProvider {
	if opts.Phone == "" {
		opts.Phone = "+1 819-647-2933"
	}
	if opts.PriceEN == "" {
		opts.PriceEN = "$10.44"
	}
	if opts.PriceFR == "" {
		opts.PriceFR = "10,44 $"
	}
	return &contentService{templates: templates, opts: opts}
}

func (s *contentService) BuildPayload(ctx context.Context, runDate string) (domainPublish.SchedulePayload, error) {
	weekday, err := timeutils.WeekdayForDate(runDate)
	if err != nil {
		return domainPublish.SchedulePayload{}, pkgError.ValidationError("Invalid date format. Use YYYY-MM-DD.")
	}

	tpl, err := s.templates.GetActive(ctx, weekday)
	if err != nil {
		return domainPublish.SchedulePayload{}, fmt.Errorf("failed to load template for %s: %w", weekday, err)
	}
	if tpl == nil {
		return domainPublish.SchedulePayload{}, pkgError.NotFoundError(fmt.Sprintf("No active scheduled template for %s", weekday))
	}

	mediaURLs := make([]string, 0, len(tpl.MediaPaths))
	for _, path := range tpl.MediaPaths {
		absolute, err := s.absoluteMediaURL(path)
		if err != nil {
			return domainPublish.SchedulePayload{}, err
		}
		mediaURLs = append(mediaURLs, absolute)
	}
	if len(mediaURLs) == 0 {
		return domainPublish.SchedulePayload{}, pkgError.ValidationError(fmt.Sprintf("Template %s has no media URLs", tpl.Weekday))
	}

	return domainPublish.SchedulePayload{
		RunDate:   runDate,
		Weekday:   tpl.Weekday,
		MediaURLs: mediaURLs,
		Caption:   BuildCaption(*tpl, s.opts),
		Template:  *tpl,
	}, nil
}

func (s *contentService) absoluteMediaURL(value string) (string, error) {
	value = strings.TrimSpace(value)
	if absoluteURLPattern.MatchString(value) {
		if s.opts.Production && !httpsURLPattern.MatchString(value) {
			return "", pkgError.ValidationError("Scheduled template media URLs must use https in production.")
		}
		return value, nil
	}

	base := strings.TrimRight(s.opts.PublicBaseURL, "/")
	if base == "" {
		return "", pkgError.ValidationError("PUBLIC_BASE_URL is required to build media URLs")
	}
	if s.opts.Production && !httpsURLPattern.MatchString(base) {
		return "", pkgError.ValidationError("PUBLIC_BASE_URL must use https in production.")
	}

	if !strings.HasPrefix(value, "/") {
		value = "/" + value
	}
	return base + value, nil
}

// BuildCaption renders the English block followed by the French block.
func BuildCaption(tpl domainPublish.Template, opts ContentOptions) string {
	englishDay := tpl.Weekday.Title()
	frenchDay := frenchDayNames[tpl.Weekday]

	englishHeader := englishDay
	frenchHeader := frenchDay
	if tpl.IsDailySpecial {
		englishHeader = englishDay + " Special"
		frenchHeader = "Spécial du " + strings.ToLower(frenchDay)
	}

	english := []string{englishHeader, ""}
	french := []string{frenchHeader, ""}

	if tpl.IsDailySpecial {
		english = append(english, fmt.Sprintf("%s - %s", tpl.TitleEN, opts.PriceEN), "")
		french = append(french, fmt.Sprintf("%s - %s", tpl.TitleFR, opts.PriceFR), "")
	}

	english = append(english,
		"Everyday Deals:",
		fmt.Sprintf(`- 9" Pizza of Your Choice + 355ml beverage - %s`, opts.PriceEN),
		"",
		fmt.Sprintf("Call for pickup (%s)", opts.Phone),
	)
	french = append(french,
		"Promotions quotidiennes:",
		fmt.Sprintf(`- Pizza 9" de votre choix + breuvage 355ml - %s`, opts.PriceFR),
		"",
		fmt.Sprintf("Appelez pour commander aujourd'hui : %s", opts.Phone),
	)

	lines := append(english, "")
	lines = append(lines, french...)
	return strings.Join(lines, "\n")
}
