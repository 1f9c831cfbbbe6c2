package usecase

import (
	"context"
	"testing"

	domainPublish "github.com/AzielCF/daily-post/domains/publish"
	pkgError "github.com/AzielCF/daily-post/pkg/error"
	"github.com/AzielCF/daily-post/pkg/timeutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCaption_DailySpecial(t *testing.T) {
	tpl := domainPublish.Template{
		Weekday:        timeutils.Monday,
		TitleEN:        "Hamburger Platter",
		TitleFR:        "Assiette hamburger",
		IsDailySpecial: true,
	}

	caption := BuildCaption(tpl, ContentOptions{Phone: "+1 819-647-2933", PriceEN: "$10.44", PriceFR: "10,44 $"})

	expected := "Monday Special\n" +
		"\n" +
		"Hamburger Platter - $10.44\n" +
		"\n" +
		"Everyday Deals:\n" +
		"- 9\" Pizza of Your Choice + 355ml beverage - $10.44\n" +
		"\n" +
		"Call for pickup (+1 819-647-2933)\n" +
		"\n" +
		"Spécial du lundi\n" +
		"\n" +
		"Assiette hamburger - 10,44 $\n" +
		"\n" +
		"Promotions quotidiennes:\n" +
		"- Pizza 9\" de votre choix + breuvage 355ml - 10,44 $\n" +
		"\n" +
		"Appelez pour commander aujourd'hui : +1 819-647-2933"
	assert.Equal(t, expected, caption)
}

func TestBuildCaption_Weekend(t *testing.T) {
	tpl := domainPublish.Template{Weekday: timeutils.Saturday, TitleEN: "Weekend Deals", TitleFR: "Promotions du week-end"}

	caption := BuildCaption(tpl, ContentOptions{Phone: "555", PriceEN: "$1", PriceFR: "1 $"})

	assert.True(t, len(caption) > 0)
	assert.Contains(t, caption, "Saturday\n\nEveryday Deals:")
	assert.Contains(t, caption, "Samedi\n\nPromotions quotidiennes:")
	assert.NotContains(t, caption, "Weekend Deals")
	assert.NotContains(t, caption, "Special")
}

func TestContentService_BuildPayload(t *testing.T) {
	templates := staticTemplates{
		timeutils.Monday: {
			Weekday:    timeutils.Monday,
			TitleEN:    "Hamburger Platter",
			TitleFR:    "Assiette hamburger",
			MediaPaths: []string{"/images/a.png", "images/b.png", "https://cdn.example.com/c.png"},
			Active:     true,
		},
		timeutils.Tuesday: {Weekday: timeutils.Tuesday, MediaPaths: []string{"/images/a.png"}, Active: false},
		timeutils.Friday:  {Weekday: timeutils.Friday, Active: true},
		timeutils.Sunday:  {Weekday: timeutils.Sunday, MediaPaths: []string{"http://cdn.example.com/c.png"}, Active: true},
	}

	t.Run("resolves relative paths against the base url", func(t *testing.T) {
		svc := NewContentService(templates, ContentOptions{PublicBaseURL: "https://example.com/"})
		payload, err := svc.BuildPayload(context.Background(), "2026-03-02")
		require.NoError(t, err)

		assert.Equal(t, "2026-03-02", payload.RunDate)
		assert.Equal(t, timeutils.Monday, payload.Weekday)
		assert.Equal(t, []string{
			"https://example.com/images/a.png",
			"https://example.com/images/b.png",
			"https://cdn.example.com/c.png",
		}, payload.MediaURLs)
		assert.Contains(t, payload.Caption, "Monday")
		assert.Contains(t, payload.Caption, "+1 819-647-2933")
	})

	t.Run("inactive template is not found", func(t *testing.T) {
		svc := NewContentService(templates, ContentOptions{PublicBaseURL: "https://example.com"})
		_, err := svc.BuildPayload(context.Background(), "2026-03-03")
		var notFound pkgError.NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "No active scheduled template for tuesday", err.Error())
	})

	t.Run("template without media", func(t *testing.T) {
		svc := NewContentService(templates, ContentOptions{PublicBaseURL: "https://example.com"})
		_, err := svc.BuildPayload(context.Background(), "2026-03-06")
		assert.EqualError(t, err, "Template friday has no media URLs")
	})

	t.Run("base url is required for relative paths", func(t *testing.T) {
		svc := NewContentService(templates, ContentOptions{})
		_, err := svc.BuildPayload(context.Background(), "2026-03-02")
		assert.EqualError(t, err, "PUBLIC_BASE_URL is required to build media URLs")
	})

	t.Run("production requires https base url", func(t *testing.T) {
		svc := NewContentService(templates, ContentOptions{PublicBaseURL: "http://example.com", Production: true})
		_, err := svc.BuildPayload(context.Background(), "2026-03-02")
		assert.EqualError(t, err, "PUBLIC_BASE_URL must use https in production.")
	})

	t.Run("production requires https media", func(t *testing.T) {
		svc := NewContentService(templates, ContentOptions{PublicBaseURL: "https://example.com", Production: true})
		_, err := svc.BuildPayload(context.Background(), "2026-03-08")
		assert.EqualError(t, err, "Scheduled template media URLs must use https in production.")
	})

	t.Run("invalid date", func(t *testing.T) {
		svc := NewContentService(templates, ContentOptions{PublicBaseURL: "https://example.com"})
		_, err := svc.BuildPayload(context.Background(), "03/02/2026")
		var validationErr pkgError.ValidationError
		require.ErrorAs(t, err, &validationErr)
	})
}
