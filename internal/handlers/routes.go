package handlers

import (
	"net/http"
	"time"

	"github.com/arjunstein/url-shortener/internal/ratelimit"
	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers all short link routes with per-endpoint rate limit configuration.
func RegisterRoutes(api huma.API, h *LinkHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-link",
		Method:        http.MethodPost,
		Path:          "/api/v1/shorten",
		Summary:       "Create short link",
		Description:   "Generates a short code for the target URL with an optional expiry.",
		Tags:          []string{"Links"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Scope: ratelimit.ScopeWrite},
		},
	}, h.CreateLink)

	huma.Register(api, huma.Operation{
		OperationID: "list-links",
		Method:      http.MethodGet,
		Path:        "/api/v1/shorten",
		Summary:     "List short links",
		Description: "Returns every stored link with its click count, including expired links not yet swept.",
		Tags:        []string{"Links"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Scope: ratelimit.ScopeRead},
		},
	}, h.ListLinks)

	// Deletes are rare administrative calls and get their own tight budget.
	huma.Register(api, huma.Operation{
		OperationID:   "delete-link",
		Method:        http.MethodDelete,
		Path:          "/api/v1/shorten/{code}",
		Summary:       "Delete short link",
		Description:   "Removes the link for a code. Unknown codes are not an error.",
		Tags:          []string{"Links"},
		DefaultStatus: http.StatusNoContent,
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 20},
				},
			},
		},
	}, h.DeleteLink)

	redirect := func(id, path string) huma.Operation {
		return huma.Operation{
			OperationID: id,
			Method:      http.MethodGet,
			Path:        path,
			Summary:     "Redirect to target URL",
			Description: "Redirects to the target URL and counts the visit. Expired links answer 410.",
			Tags:        []string{"Links"},
			Errors:      []int{http.StatusNotFound, http.StatusGone},
			Metadata: map[string]any{
				ratelimit.MetadataKey: ratelimit.EndpointConfig{Scope: ratelimit.ScopeRead},
			},
		}
	}

	huma.Register(api, redirect("redirect", "/{code}"), h.Redirect)
	huma.Register(api, redirect("redirect-api", "/api/v1/{code}"), h.Redirect)
}
