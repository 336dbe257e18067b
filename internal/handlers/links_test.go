package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/arjunstein/url-shortener/internal/analytics"
	"github.com/arjunstein/url-shortener/internal/handlers"
	"github.com/arjunstein/url-shortener/internal/messaging"
	"github.com/arjunstein/url-shortener/internal/shortener"
	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errMock = errors.New("mock error")

// mockService is a test double for handlers.LinkService.
type mockService struct {
	link      *shortener.ShortLink
	target    string
	createErr error
	err       error

	createdTarget string
	createdExpiry *time.Time
}

func (m *mockService) Create(_ context.Context, targetURL string, expiresAt *time.Time) (*shortener.ShortLink, error) {
	m.createdTarget = targetURL
	m.createdExpiry = expiresAt

	if m.createErr != nil {
		return nil, m.createErr
	}

	return m.link, nil
}

func (m *mockService) Resolve(_ context.Context, _ shortener.Code) (string, error) {
	return m.target, m.err
}

func (m *mockService) List(_ context.Context) ([]*shortener.ShortLink, error) {
	if m.err != nil {
		return nil, m.err
	}

	return []*shortener.ShortLink{m.link}, nil
}

func (m *mockService) Delete(_ context.Context, _ shortener.Code) error {
	return m.err
}

// errorPublish returns a publish function that always fails.
func errorPublish[T any](err error) messaging.Publish[T] {
	return func(_ *T) error { return err }
}

// capture returns a publish function that records events.
func capture[T any](events *[]*T) messaging.Publish[T] {
	return func(e *T) error {
		*events = append(*events, e)

		return nil
	}
}

func newTestHandler(svc handlers.LinkService) *handlers.LinkHandler {
	return handlers.NewLinkHandler(
		svc,
		messaging.Discard[analytics.LinkCreatedEvent](),
		messaging.Discard[analytics.LinkAccessedEvent](),
		messaging.Discard[analytics.LinkDeletedEvent](),
		zap.NewNop(),
	)
}

func testLink() *shortener.ShortLink {
	return &shortener.ShortLink{
		ID:        uuid.New(),
		Code:      "Ab3dEf9h",
		TargetURL: "https://example.com/",
		Clicks:    3,
		CreatedAt: time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC),
	}
}

func statusOf(t *testing.T, err error) int {
	t.Helper()

	var se huma.StatusError
	require.ErrorAs(t, err, &se)

	return se.GetStatus()
}

func TestCreateLink(t *testing.T) {
	t.Run("normalizes target before creating", func(t *testing.T) {
		svc := &mockService{link: testLink()}
		handler := newTestHandler(svc)

		req := &handlers.CreateLinkRequest{}
		req.Body.TargetURL = "example.com"

		resp, err := handler.CreateLink(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/", svc.createdTarget)
		assert.Nil(t, svc.createdExpiry)
		assert.Equal(t, "Ab3dEf9h", resp.Body.ShortCode)
		assert.Equal(t, svc.link.ID.String(), resp.Body.ID)
		assert.Equal(t, handlers.FormatLocal(svc.link.CreatedAt), resp.Body.CreatedAt)
		assert.Nil(t, resp.Body.ExpiresAt)
	})

	t.Run("parses expiry in local time", func(t *testing.T) {
		svc := &mockService{link: testLink()}
		handler := newTestHandler(svc)

		expiry := "2030-06-01 12:00:00"
		req := &handlers.CreateLinkRequest{}
		req.Body.TargetURL = "https://example.com"
		req.Body.ExpiresAt = &expiry

		_, err := handler.CreateLink(context.Background(), req)

		require.NoError(t, err)
		require.NotNil(t, svc.createdExpiry)
		assert.True(t, time.Date(2030, 6, 1, 12, 0, 0, 0, time.Local).Equal(*svc.createdExpiry))
	})

	t.Run("empty expiry means no expiry", func(t *testing.T) {
		svc := &mockService{link: testLink()}
		handler := newTestHandler(svc)

		empty := ""
		req := &handlers.CreateLinkRequest{}
		req.Body.TargetURL = "https://example.com"
		req.Body.ExpiresAt = &empty

		_, err := handler.CreateLink(context.Background(), req)

		require.NoError(t, err)
		assert.Nil(t, svc.createdExpiry)
	})

	t.Run("rejects invalid target without calling the service", func(t *testing.T) {
		svc := &mockService{link: testLink()}
		handler := newTestHandler(svc)

		req := &handlers.CreateLinkRequest{}
		req.Body.TargetURL = "http://.bad."

		resp, err := handler.CreateLink(context.Background(), req)

		assert.Nil(t, resp)
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
		assert.Empty(t, svc.createdTarget)
	})

	t.Run("rejects malformed expiry", func(t *testing.T) {
		svc := &mockService{link: testLink()}
		handler := newTestHandler(svc)

		expiry := "2030-06-01T12:00:00Z"
		req := &handlers.CreateLinkRequest{}
		req.Body.TargetURL = "https://example.com"
		req.Body.ExpiresAt = &expiry

		_, err := handler.CreateLink(context.Background(), req)

		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
		assert.Empty(t, svc.createdTarget)
	})

	t.Run("hides persistence errors", func(t *testing.T) {
		svc := &mockService{createErr: &shortener.PersistenceError{Op: "create short link", Err: errMock}}
		handler := newTestHandler(svc)

		req := &handlers.CreateLinkRequest{}
		req.Body.TargetURL = "https://example.com"

		_, err := handler.CreateLink(context.Background(), req)

		assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))
		assert.NotContains(t, err.Error(), errMock.Error())
	})

	t.Run("publishes created event with request metadata", func(t *testing.T) {
		var events []*analytics.LinkCreatedEvent

		svc := &mockService{link: testLink()}
		handler := handlers.NewLinkHandler(
			svc,
			capture(&events),
			messaging.Discard[analytics.LinkAccessedEvent](),
			messaging.Discard[analytics.LinkDeletedEvent](),
			zap.NewNop(),
		)

		ctx := handlers.ContextWithRequestMeta(context.Background(), handlers.RequestMeta{
			ClientIP:  "10.0.0.1",
			UserAgent: "TestAgent/1.0",
		})

		req := &handlers.CreateLinkRequest{}
		req.Body.TargetURL = "https://example.com"

		_, err := handler.CreateLink(ctx, req)

		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "Ab3dEf9h", events[0].Code)
		assert.Equal(t, "10.0.0.1", events[0].ClientIP)
		assert.Equal(t, "TestAgent/1.0", events[0].UserAgent)
	})

	t.Run("succeeds even if publish fails", func(t *testing.T) {
		handler := handlers.NewLinkHandler(
			&mockService{link: testLink()},
			errorPublish[analytics.LinkCreatedEvent](errMock),
			messaging.Discard[analytics.LinkAccessedEvent](),
			messaging.Discard[analytics.LinkDeletedEvent](),
			zap.NewNop(),
		)

		req := &handlers.CreateLinkRequest{}
		req.Body.TargetURL = "https://example.com"

		resp, err := handler.CreateLink(context.Background(), req)

		require.NoError(t, err)
		assert.NotNil(t, resp)
	})
}

func TestRedirect(t *testing.T) {
	t.Run("redirects temporarily to the target", func(t *testing.T) {
		handler := newTestHandler(&mockService{target: "https://example.com/"})

		resp, err := handler.Redirect(context.Background(), &handlers.CodeRequest{Code: "Ab3dEf9h"})

		require.NoError(t, err)
		assert.Equal(t, http.StatusTemporaryRedirect, resp.Status)
		assert.Equal(t, "https://example.com/", resp.Location)
	})

	t.Run("unknown code is 404", func(t *testing.T) {
		handler := newTestHandler(&mockService{err: shortener.ErrNotFound})

		_, err := handler.Redirect(context.Background(), &handlers.CodeRequest{Code: "missing1"})

		assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	})

	t.Run("expired link is 410 with local expiry", func(t *testing.T) {
		expiry := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		handler := newTestHandler(&mockService{err: &shortener.ExpiredError{Code: "old12345", ExpiresAt: expiry}})

		_, err := handler.Redirect(context.Background(), &handlers.CodeRequest{Code: "old12345"})

		var expired *handlers.ExpiredResponse
		require.ErrorAs(t, err, &expired)
		assert.Equal(t, http.StatusGone, expired.GetStatus())
		assert.Equal(t, "url expired", expired.Message)
		assert.Equal(t, handlers.FormatLocal(expiry), expired.ExpiredAt)
	})

	t.Run("persistence failure is 500", func(t *testing.T) {
		handler := newTestHandler(&mockService{err: &shortener.PersistenceError{Op: "find short link", Err: errMock}})

		_, err := handler.Redirect(context.Background(), &handlers.CodeRequest{Code: "Ab3dEf9h"})

		assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))
	})

	t.Run("target that is not a valid header value is 500", func(t *testing.T) {
		handler := newTestHandler(&mockService{target: "https://example.com/\r\nSet-Cookie: x=y"})

		_, err := handler.Redirect(context.Background(), &handlers.CodeRequest{Code: "Ab3dEf9h"})

		assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))
	})

	t.Run("publishes accessed event", func(t *testing.T) {
		var events []*analytics.LinkAccessedEvent

		handler := handlers.NewLinkHandler(
			&mockService{target: "https://example.com/"},
			messaging.Discard[analytics.LinkCreatedEvent](),
			capture(&events),
			messaging.Discard[analytics.LinkDeletedEvent](),
			zap.NewNop(),
		)

		ctx := handlers.ContextWithRequestMeta(context.Background(), handlers.RequestMeta{
			ClientIP: "10.0.0.1",
			Referrer: "https://news.example.org/",
		})

		_, err := handler.Redirect(ctx, &handlers.CodeRequest{Code: "Ab3dEf9h"})

		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "Ab3dEf9h", events[0].Code)
		assert.Equal(t, "https://news.example.org/", events[0].Referrer)
	})

	t.Run("does not publish when resolution fails", func(t *testing.T) {
		var events []*analytics.LinkAccessedEvent

		handler := handlers.NewLinkHandler(
			&mockService{err: shortener.ErrNotFound},
			messaging.Discard[analytics.LinkCreatedEvent](),
			capture(&events),
			messaging.Discard[analytics.LinkDeletedEvent](),
			zap.NewNop(),
		)

		_, _ = handler.Redirect(context.Background(), &handlers.CodeRequest{Code: "missing1"})

		assert.Empty(t, events)
	})
}

func TestListLinks(t *testing.T) {
	t.Run("includes click counts", func(t *testing.T) {
		handler := newTestHandler(&mockService{link: testLink()})

		resp, err := handler.ListLinks(context.Background(), nil)

		require.NoError(t, err)
		require.Len(t, resp.Body, 1)
		assert.Equal(t, int64(3), resp.Body[0].Clicks)
		assert.Equal(t, "Ab3dEf9h", resp.Body[0].ShortCode)
	})

	t.Run("store failure is 500", func(t *testing.T) {
		handler := newTestHandler(&mockService{err: errMock})

		_, err := handler.ListLinks(context.Background(), nil)

		assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))
	})
}

func TestDeleteLink(t *testing.T) {
	t.Run("publishes deleted event", func(t *testing.T) {
		var events []*analytics.LinkDeletedEvent

		handler := handlers.NewLinkHandler(
			&mockService{},
			messaging.Discard[analytics.LinkCreatedEvent](),
			messaging.Discard[analytics.LinkAccessedEvent](),
			capture(&events),
			zap.NewNop(),
		)

		_, err := handler.DeleteLink(context.Background(), &handlers.CodeRequest{Code: "Ab3dEf9h"})

		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "Ab3dEf9h", events[0].Code)
	})

	t.Run("store failure is 500", func(t *testing.T) {
		handler := newTestHandler(&mockService{err: errMock})

		_, err := handler.DeleteLink(context.Background(), &handlers.CodeRequest{Code: "Ab3dEf9h"})

		assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))
	})
}
