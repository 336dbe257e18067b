package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/arjunstein/url-shortener/internal/analytics"
	"github.com/arjunstein/url-shortener/internal/messaging"
	"github.com/arjunstein/url-shortener/internal/shortener"
	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"
	"golang.org/x/net/http/httpguts"
)

// LinkService is the subset of shortener.Service used by the HTTP layer.
type LinkService interface {
	Create(ctx context.Context, targetURL string, expiresAt *time.Time) (*shortener.ShortLink, error)
	Resolve(ctx context.Context, code shortener.Code) (string, error)
	List(ctx context.Context) ([]*shortener.ShortLink, error)
	Delete(ctx context.Context, code shortener.Code) error
}

// LinkHandler handles short link operations.
type LinkHandler struct {
	service         LinkService
	publishCreated  messaging.Publish[analytics.LinkCreatedEvent]
	publishAccessed messaging.Publish[analytics.LinkAccessedEvent]
	publishDeleted  messaging.Publish[analytics.LinkDeletedEvent]
	logger          *zap.Logger
}

// NewLinkHandler creates a new link handler.
func NewLinkHandler(
	service LinkService,
	publishCreated messaging.Publish[analytics.LinkCreatedEvent],
	publishAccessed messaging.Publish[analytics.LinkAccessedEvent],
	publishDeleted messaging.Publish[analytics.LinkDeletedEvent],
	logger *zap.Logger,
) *LinkHandler {
	return &LinkHandler{
		service:         service,
		publishCreated:  publishCreated,
		publishAccessed: publishAccessed,
		publishDeleted:  publishDeleted,
		logger:          logger,
	}
}

func (h *LinkHandler) CreateLink(ctx context.Context, req *CreateLinkRequest) (*CreateLinkResponse, error) {
	target, err := shortener.NormalizeTarget(req.Body.TargetURL)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	var expiresAt *time.Time

	if req.Body.ExpiresAt != nil && *req.Body.ExpiresAt != "" {
		t, err := ParseLocal(*req.Body.ExpiresAt)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid expires_at: expected format YYYY-MM-DD HH:MM:SS")
		}

		expiresAt = &t
	}

	link, err := h.service.Create(ctx, target, expiresAt)
	if err != nil {
		h.logger.Error("failed to create short link",
			zap.String("target_url", target),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("failed to create short link")
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.LinkCreatedEvent{
		Code:      string(link.Code),
		TargetURL: link.TargetURL,
		CreatedAt: link.CreatedAt,
		ExpiresAt: link.ExpiresAt,
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
	}

	if err := h.publishCreated(event); err != nil {
		h.logger.Error("failed to publish analytics event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	return &CreateLinkResponse{Body: linkBody(link)}, nil
}

func (h *LinkHandler) ListLinks(ctx context.Context, _ *struct{}) (*ListLinksResponse, error) {
	links, err := h.service.List(ctx)
	if err != nil {
		h.logger.Error("failed to list short links", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to list short links")
	}

	resp := &ListLinksResponse{Body: make([]LinkSummary, 0, len(links))}
	for _, link := range links {
		resp.Body = append(resp.Body, LinkSummary{LinkBody: linkBody(link), Clicks: link.Clicks})
	}

	return resp, nil
}

func (h *LinkHandler) DeleteLink(ctx context.Context, req *CodeRequest) (*struct{}, error) {
	if err := h.service.Delete(ctx, shortener.Code(req.Code)); err != nil {
		h.logger.Error("failed to delete short link",
			zap.String("code", req.Code),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("failed to delete short link")
	}

	event := &analytics.LinkDeletedEvent{
		Code:      req.Code,
		DeletedAt: time.Now(),
		ClientIP:  RequestMetaFromContext(ctx).ClientIP,
	}

	if err := h.publishDeleted(event); err != nil {
		h.logger.Error("failed to publish delete event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	return nil, nil //nolint:nilnil // 204 has no body
}

func (h *LinkHandler) Redirect(ctx context.Context, req *CodeRequest) (*RedirectResponse, error) {
	target, err := h.service.Resolve(ctx, shortener.Code(req.Code))
	if err != nil {
		return nil, h.resolveError(req.Code, err)
	}

	if !httpguts.ValidHeaderFieldValue(target) {
		h.logger.Warn("stored target is not a valid header value",
			zap.String("code", req.Code),
			zap.String("target_url", target),
		)

		return nil, huma.Error500InternalServerError("invalid stored target url")
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.LinkAccessedEvent{
		Code:       req.Code,
		AccessedAt: time.Now(),
		ClientIP:   meta.ClientIP,
		UserAgent:  meta.UserAgent,
		Referrer:   meta.Referrer,
	}

	if err := h.publishAccessed(event); err != nil {
		h.logger.Error("failed to publish access event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	return &RedirectResponse{
		Status:   http.StatusTemporaryRedirect,
		Location: target,
	}, nil
}

func (h *LinkHandler) resolveError(code string, err error) error {
	var expired *shortener.ExpiredError

	switch {
	case errors.Is(err, shortener.ErrNotFound):
		return huma.Error404NotFound("short url not found")
	case errors.As(err, &expired):
		return &ExpiredResponse{
			Message:   expiredMessage,
			ExpiredAt: FormatLocal(expired.ExpiresAt),
		}
	default:
		h.logger.Error("failed to resolve short link",
			zap.String("code", code),
			zap.Error(err),
		)

		return huma.Error500InternalServerError("internal server error")
	}
}

func linkBody(link *shortener.ShortLink) LinkBody {
	return LinkBody{
		ID:        link.ID.String(),
		ShortCode: string(link.Code),
		TargetURL: link.TargetURL,
		CreatedAt: FormatLocal(link.CreatedAt),
		ExpiresAt: formatLocalPtr(link.ExpiresAt),
	}
}
