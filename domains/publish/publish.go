package publish

import (
	"context"
	"time"

	"github.com/AzielCF/daily-post/pkg/timeutils"
)

type RunStatus string

const (
	StatusPosted  RunStatus = "posted"
	StatusFailed  RunStatus = "failed"
	StatusSkipped RunStatus = "skipped"
)

type RunMode string

const (
	ModeCron   RunMode = "cron"
	ModeManual RunMode = "manual"
)

// RunRecord is the ledger row for one calendar date.
type RunRecord struct {
	RunDate         string            `json:"run_date"`
	Weekday         timeutils.Weekday `json:"weekday_key"`
	Status          RunStatus         `json:"status"`
	PrimaryMediaID  *string           `json:"instagram_media_id"`
	SecondaryPostID *string           `json:"facebook_post_id"`
	ErrorMessage    *string           `json:"error_message"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

type UpsertRunInput struct {
	RunDate         string
	Weekday         timeutils.Weekday
	Status          RunStatus
	PrimaryMediaID  *string
	SecondaryPostID *string
	ErrorMessage    *string
}

// Template is the scheduled content for one weekday.
type Template struct {
	Weekday        timeutils.Weekday `json:"weekday_key"`
	TitleEN        string            `json:"title_en"`
	TitleFR        string            `json:"title_fr"`
	MediaPaths     []string          `json:"media_urls"`
	IsDailySpecial bool              `json:"is_daily_special"`
	SortOrder      int               `json:"sort_order"`
	Active         bool              `json:"active"`
}

// SchedulePayload is the content resolved for one publish attempt.
type SchedulePayload struct {
	RunDate   string            `json:"run_date"`
	Weekday   timeutils.Weekday `json:"weekday_key"`
	MediaURLs []string          `json:"media_urls"`
	Caption   string            `json:"caption"`
	Template  Template          `json:"template"`
}

type ContainerStatus string

const (
	ContainerPending  ContainerStatus = "pending"
	ContainerFinished ContainerStatus = "finished"
	ContainerError    ContainerStatus = "error"
	ContainerExpired  ContainerStatus = "expired"
)

type ContainerRole string

const (
	RoleSingle         ContainerRole = "single"
	RoleCarouselChild  ContainerRole = "carousel-child"
	RoleCarouselParent ContainerRole = "carousel-parent"
)

// MediaContainer is a platform-side staging object tracked during one run.
type MediaContainer struct {
	CreationID string
	Status     ContainerStatus
	Role       ContainerRole
}

// ContainerState is what the platform reports when a container is polled.
type ContainerState struct {
	StatusCode string
	Message    string
}

type RunRequest struct {
	RunDate string
	Force   bool
	Mode    RunMode
}

type PublishResult struct {
	Status          RunStatus         `json:"status"`
	RunDate         string            `json:"run_date"`
	Weekday         timeutils.Weekday `json:"weekday_key"`
	Reason          string            `json:"reason"`
	PrimaryMediaID  *string           `json:"instagram_media_id"`
	SecondaryPostID *string           `json:"facebook_post_id"`
	ErrorMessage    *string           `json:"error_message"`
	Payload         *SchedulePayload  `json:"payload,omitempty"`
	ExistingRun     *RunRecord        `json:"existing_run,omitempty"`
}

type SuccessAlert struct {
	RunDate         string
	Weekday         timeutils.Weekday
	PrimaryMediaID  string
	SecondaryPostID string
	Mode            RunMode
}

type FailureAlert struct {
	RunDate      string
	Weekday      timeutils.Weekday
	Reason       string
	ErrorMessage string
}

// Preview is the content and ledger state for a date, without publishing.
type Preview struct {
	RunDate     string          `json:"run_date"`
	Payload     SchedulePayload `json:"payload"`
	ExistingRun *RunRecord      `json:"existing_run"`
	DryRun      bool            `json:"dry_run"`
	NextWindow  *time.Time      `json:"next_window,omitempty"`
}

// TickResult is returned by one evaluation of the scheduled trigger.
type TickResult struct {
	Decision timeutils.WindowDecision `json:"decision"`
	Result   *PublishResult           `json:"result,omitempty"`
	Skipped  string                   `json:"skipped,omitempty"`
}

type IRunLedger interface {
	Get(ctx context.Context, runDate string) (*RunRecord, error)
	Upsert(ctx context.Context, input UpsertRunInput) (RunRecord, error)
	Delete(ctx context.Context, runDate string) (bool, error)
	DeleteAll(ctx context.Context) (int64, error)
	List(ctx context.Context, limit int) ([]RunRecord, error)
}

type ITemplateStore interface {
	GetActive(ctx context.Context, weekday timeutils.Weekday) (*Template, error)
	List(ctx context.Context) ([]Template, error)
}

type IContentProvider interface {
	BuildPayload(ctx context.Context, runDate string) (SchedulePayload, error)
}

// IPrimaryPlatform is the asynchronous container protocol of the primary feed.
type IPrimaryPlatform interface {
	CreateSingle(ctx context.Context, imageURL, caption string) (string, error)
	CreateChild(ctx context.Context, imageURL string) (string, error)
	CreateParent(ctx context.Context, childIDs []string, caption string) (string, error)
	PollStatus(ctx context.Context, creationID string) (ContainerState, error)
	Publish(ctx context.Context, creationID string) (string, error)
}

// ISecondaryPlatform is the synchronous page feed protocol.
type ISecondaryPlatform interface {
	PublishSingle(ctx context.Context, imageURL, caption string) (string, error)
	UploadUnpublished(ctx context.Context, imageURL string) (string, error)
	PublishFeed(ctx context.Context, attachmentIDs []string, caption string) (string, error)
}

// IPrimaryPublisher publishes a payload through the container protocol.
type IPrimaryPublisher interface {
	PublishPrimary(ctx context.Context, payload SchedulePayload) (string, error)
}

// ISecondaryPublisher publishes a payload to the page feed.
type ISecondaryPublisher interface {
	PublishSecondary(ctx context.Context, payload SchedulePayload) (string, error)
}

type INotifier interface {
	NotifySuccess(ctx context.Context, alert SuccessAlert) error
	NotifyFailure(ctx context.Context, alert FailureAlert) error
}

type IPublishUsecase interface {
	Run(ctx context.Context, request RunRequest) (PublishResult, error)
}

type IPreviewUsecase interface {
	Preview(ctx context.Context, runDate string) (Preview, error)
}

type IRunsUsecase interface {
	List(ctx context.Context, limit int) ([]RunRecord, error)
	Delete(ctx context.Context, runDate string) (bool, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type IScheduleUsecase interface {
	Tick(ctx context.Context) (TickResult, error)
	StartLoop(ctx context.Context, every time.Duration)
}

// ILeaser guards a trigger against concurrent nodes.
type ILeaser interface {
	AcquireLease(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)
	ReleaseLease(ctx context.Context, key, owner string) error
}
