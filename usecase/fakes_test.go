package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	domainPublish "github.com/AzielCF/daily-post/domains/publish"
	domainToken "github.com/AzielCF/daily-post/domains/token"
	"github.com/AzielCF/daily-post/pkg/timeutils"
)

type memoryLedger struct {
	mu      sync.Mutex
	rows    map[string]domainPublish.RunRecord
	upserts []domainPublish.UpsertRunInput
	getErr  error
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{rows: map[string]domainPublish.RunRecord{}}
}

func (l *memoryLedger) Get(_ context.Context, runDate string) (*domainPublish.RunRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.getErr != nil {
		return nil, l.getErr
	}
	row, ok := l.rows[runDate]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (l *memoryLedger) Upsert(_ context.Context, input domainPublish.UpsertRunInput) (domainPublish.RunRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.upserts = append(l.upserts, input)
	row := domainPublish.RunRecord{
		RunDate:         input.RunDate,
		Weekday:         input.Weekday,
		Status:          input.Status,
		PrimaryMediaID:  input.PrimaryMediaID,
		SecondaryPostID: input.SecondaryPostID,
		ErrorMessage:    input.ErrorMessage,
		UpdatedAt:       time.Now().UTC(),
	}
	l.rows[input.RunDate] = row
	return row, nil
}

func (l *memoryLedger) Delete(_ context.Context, runDate string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.rows[runDate]
	delete(l.rows, runDate)
	return ok, nil
}

func (l *memoryLedger) DeleteAll(context.Context) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := int64(len(l.rows))
	l.rows = map[string]domainPublish.RunRecord{}
	return n, nil
}

func (l *memoryLedger) List(context.Context, int) ([]domainPublish.RunRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domainPublish.RunRecord, 0, len(l.rows))
	for _, row := range l.rows {
		out = append(out, row)
	}
	return out, nil
}

type staticTemplates map[timeutils.Weekday]domainPublish.Template

func (s staticTemplates) GetActive(_ context.Context, weekday timeutils.Weekday) (*domainPublish.Template, error) {
	tpl, ok := s[weekday]
	if !ok || !tpl.Active {
		return nil, nil
	}
	return &tpl, nil
}

func (s staticTemplates) List(context.Context) ([]domainPublish.Template, error) {
	out := make([]domainPublish.Template, 0, len(s))
	for _, w := range timeutils.Weekdays {
		if tpl, ok := s[w]; ok {
			out = append(out, tpl)
		}
	}
	return out, nil
}

// fakePrimary scripts the container protocol. Each creation id answers the
// statuses queued in polls, then FINISHED.
type fakePrimary struct {
	mu        sync.Mutex
	calls     []string
	next      int
	polls     map[string][]domainPublish.ContainerState
	pollErr   error
	failChild int
	publishID string
}

func newFakePrimary() *fakePrimary {
	return &fakePrimary{polls: map[string][]domainPublish.ContainerState{}, failChild: -1, publishID: "ig-media-1"}
}

func (f *fakePrimary) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakePrimary) newID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	return fmt.Sprintf("c%d", f.next)
}

func (f *fakePrimary) count(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func (f *fakePrimary) CreateSingle(_ context.Context, imageURL, _ string) (string, error) {
	f.record("single:" + imageURL)
	return f.newID(), nil
}

func (f *fakePrimary) CreateChild(_ context.Context, imageURL string) (string, error) {
	f.mu.Lock()
	children := 0
	for _, c := range f.calls {
		if len(c) > 6 && c[:6] == "child:" {
			children++
		}
	}
	fail := f.failChild == children
	f.mu.Unlock()

	f.record("child:" + imageURL)
	if fail {
		return "", errors.New("Invalid image")
	}
	return f.newID(), nil
}

func (f *fakePrimary) CreateParent(_ context.Context, childIDs []string, _ string) (string, error) {
	f.record(fmt.Sprintf("parent:%v", childIDs))
	return f.newID(), nil
}

func (f *fakePrimary) PollStatus(_ context.Context, creationID string) (domainPublish.ContainerState, error) {
	f.record("poll:" + creationID)
	if f.pollErr != nil {
		return domainPublish.ContainerState{}, f.pollErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	queue := f.polls[creationID]
	if len(queue) == 0 {
		return domainPublish.ContainerState{StatusCode: "FINISHED"}, nil
	}
	f.polls[creationID] = queue[1:]
	return queue[0], nil
}

func (f *fakePrimary) Publish(_ context.Context, creationID string) (string, error) {
	f.record("publish:" + creationID)
	return f.publishID, nil
}

type fakeSecondary struct {
	mu         sync.Mutex
	calls      []string
	feedIDs    []string
	uploads    int
	err        error
	feedPostID string
}

func newFakeSecondary() *fakeSecondary {
	return &fakeSecondary{feedPostID: "page_99"}
}

func (f *fakeSecondary) PublishSingle(_ context.Context, imageURL, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "single:"+imageURL)
	if f.err != nil {
		return "", f.err
	}
	return f.feedPostID, nil
}

func (f *fakeSecondary) UploadUnpublished(_ context.Context, imageURL string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "upload:"+imageURL)
	f.uploads++
	return fmt.Sprintf("photo-%d", f.uploads), nil
}

func (f *fakeSecondary) PublishFeed(_ context.Context, attachmentIDs []string, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "feed")
	f.feedIDs = append([]string(nil), attachmentIDs...)
	if f.err != nil {
		return "", f.err
	}
	return f.feedPostID, nil
}

type recordingNotifier struct {
	mu        sync.Mutex
	successes []domainPublish.SuccessAlert
	failures  []domainPublish.FailureAlert
	err       error
}

func (n *recordingNotifier) NotifySuccess(_ context.Context, alert domainPublish.SuccessAlert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, alert)
	return n.err
}

func (n *recordingNotifier) NotifyFailure(_ context.Context, alert domainPublish.FailureAlert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures = append(n.failures, alert)
	return n.err
}

type memoryTokens struct {
	rows  map[domainToken.Provider]domainToken.APIToken
	saves int
}

func newMemoryTokens() *memoryTokens {
	return &memoryTokens{rows: map[domainToken.Provider]domainToken.APIToken{}}
}

func (m *memoryTokens) Get(_ context.Context, provider domainToken.Provider) (*domainToken.APIToken, error) {
	row, ok := m.rows[provider]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (m *memoryTokens) Save(_ context.Context, token domainToken.APIToken) error {
	m.saves++
	m.rows[token.Provider] = token
	return nil
}

type fakeExchanger struct {
	canExchange bool
	hasPage     bool
	exchanged   string
	pageErr     error
}

func (f *fakeExchanger) CanExchange() bool { return f.canExchange }

func (f *fakeExchanger) HasPage() bool { return f.hasPage }

func (f *fakeExchanger) ExchangeLongLived(_ context.Context, currentToken string) (string, int64, error) {
	f.exchanged = currentToken
	return "long-lived", 3600, nil
}

func (f *fakeExchanger) PageAccessToken(_ context.Context, userToken string) (string, error) {
	if f.pageErr != nil {
		return "", f.pageErr
	}
	return "page-for-" + userToken, nil
}

type fakeLeaser struct {
	acquired bool
	err      error
	released []string
}

func (f *fakeLeaser) AcquireLease(_ context.Context, key, _ string, _ time.Duration) (bool, error) {
	return f.acquired, f.err
}

func (f *fakeLeaser) ReleaseLease(_ context.Context, key, _ string) error {
	f.released = append(f.released, key)
	return nil
}

type recordingPublisher struct {
	requests []domainPublish.RunRequest
}

func (p *recordingPublisher) Run(_ context.Context, request domainPublish.RunRequest) (domainPublish.PublishResult, error) {
	p.requests = append(p.requests, request)
	return domainPublish.PublishResult{Status: domainPublish.StatusPosted, RunDate: request.RunDate, Reason: reasonScheduledPosted}, nil
}
