package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Chaitraputtabudhi/prox-deals-automation/config"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/entity"
	domainerrors "github.com/Chaitraputtabudhi/prox-deals-automation/internal/domain/errors"
	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIngest struct {
	summary *usecase.IngestSummary
	err     error
}

func (f *fakeIngest) RunIngestPass(context.Context) (*usecase.IngestSummary, error) {
	return f.summary, f.err
}

// blockingIngest parks inside the pass until released, so tests can issue a
// second request while the first is still in flight.
type blockingIngest struct {
	started chan struct{}
	release chan struct{}
}

func (f *blockingIngest) RunIngestPass(context.Context) (*usecase.IngestSummary, error) {
	close(f.started)
	<-f.release

	return &usecase.IngestSummary{}, nil
}

type fakeDigest struct {
	summary *usecase.SendSummary
	err     error
}

func (f *fakeDigest) RunSendPass(context.Context) (*usecase.SendSummary, error) {
	return f.summary, f.err
}

type fakeRecipients struct {
	upserted *entity.Recipient
	err      error
}

func (f *fakeRecipients) UpsertRecipient(_ context.Context, name, email string, preferred []string) (*entity.Recipient, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.upserted = &entity.Recipient{Name: name, Email: email, PreferredRetailers: preferred}

	return f.upserted, nil
}

func (f *fakeRecipients) ListRecipients(context.Context) ([]*entity.Recipient, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.upserted == nil {
		return nil, nil
	}

	return []*entity.Recipient{f.upserted}, nil
}

func newTestHandler(ingest usecase.IngestUsecase, digest usecase.DigestUsecase, recipients usecase.RecipientUsecase) *RunHandler {
	return NewRunHandler(RunHandlerParams{
		Config:       &config.Config{},
		Logger:       slog.New(slog.DiscardHandler),
		IngestSvc:    ingest,
		DigestSvc:    digest,
		RecipientSvc: recipients,
	})
}

func performRequest(method, target, body string, handle echo.HandlerFunc) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = handle(c)

	return rec
}

func TestHandleRunIngest_ReturnsSummary(t *testing.T) {
	h := newTestHandler(
		&fakeIngest{summary: &usecase.IngestSummary{Inserted: 3, Duplicates: 2, Failed: 1}},
		&fakeDigest{}, &fakeRecipients{},
	)

	rec := performRequest(http.MethodPost, "/run/ingest", "", h.HandleRunIngest)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"inserted":3`)
	assert.Contains(t, rec.Body.String(), `"duplicates":2`)
	assert.Contains(t, rec.Body.String(), `"failed":1`)
}

func TestHandleRunIngest_FeedFailureMapsToStatus(t *testing.T) {
	h := newTestHandler(
		&fakeIngest{err: domainerrors.ErrFeedUnavailable},
		&fakeDigest{}, &fakeRecipients{},
	)

	rec := performRequest(http.MethodPost, "/run/ingest", "", h.HandleRunIngest)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "FEED_UNAVAILABLE")
}

func TestHandleRun_RejectsOverlappingPasses(t *testing.T) {
	ingest := &blockingIngest{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	h := newTestHandler(ingest, &fakeDigest{summary: &usecase.SendSummary{}}, &fakeRecipients{})

	done := make(chan *httptest.ResponseRecorder)
	go func() {
		done <- performRequest(http.MethodPost, "/run/ingest", "", h.HandleRunIngest)
	}()
	<-ingest.started

	// While the ingest pass is in flight, both endpoints refuse to start
	// another pass.
	rec := performRequest(http.MethodPost, "/run/send", "", h.HandleRunSend)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "PASS_ALREADY_RUNNING")

	close(ingest.release)
	first := <-done
	require.Equal(t, http.StatusOK, first.Code)

	// The guard resets once the pass finishes.
	rec = performRequest(http.MethodPost, "/run/send", "", h.HandleRunSend)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleRunSend_ReturnsSummary(t *testing.T) {
	h := newTestHandler(
		&fakeIngest{},
		&fakeDigest{summary: &usecase.SendSummary{Sent: 2, SkippedEmpty: 1}},
		&fakeRecipients{},
	)

	rec := performRequest(http.MethodPost, "/run/send", "", h.HandleRunSend)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"sent":2`)
	assert.Contains(t, rec.Body.String(), `"skipped_empty":1`)
}

func TestHandleUpsertRecipient(t *testing.T) {
	recipients := &fakeRecipients{}
	h := newTestHandler(&fakeIngest{}, &fakeDigest{}, recipients)

	body := `{"name":"Ana","email":"ana@example.com","preferred_retailers":["Grocery Outlet"]}`
	rec := performRequest(http.MethodPost, "/recipients", body, h.HandleUpsertRecipient)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, recipients.upserted)
	assert.Equal(t, "ana@example.com", recipients.upserted.Email)
	assert.Contains(t, rec.Body.String(), `"preferred_retailers":["Grocery Outlet"]`)
}

func TestHandleUpsertRecipient_ErrorEnvelope(t *testing.T) {
	h := newTestHandler(&fakeIngest{}, &fakeDigest{}, &fakeRecipients{
		err: domainerrors.ErrRecipientUpsertFailed,
	})

	body := `{"name":"","email":"bad"}`
	rec := performRequest(http.MethodPost, "/recipients", body, h.HandleUpsertRecipient)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "RECIPIENT_UPSERT_FAILED")
}
