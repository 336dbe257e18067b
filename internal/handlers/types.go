package handlers

// CreateLinkRequest is the request for creating a short link.
type CreateLinkRequest struct {
	Body struct {
		TargetURL string  `doc:"The URL to shorten. A missing scheme defaults to https." example:"https://example.com/very/long/path" json:"target_url"`
		ExpiresAt *string `doc:"Optional expiry in local time, YYYY-MM-DD HH:MM:SS" example:"2030-01-01 00:00:00" json:"expires_at,omitempty" nullable:"true"`
	}
}

// LinkBody is the representation of a stored short link.
type LinkBody struct {
	ID        string  `doc:"Record id" format:"uuid" json:"id"`
	ShortCode string  `doc:"The short code" example:"Ab3dEf9h" json:"short_code"`
	TargetURL string  `doc:"The normalized target URL" example:"https://example.com/" json:"target_url"`
	CreatedAt string  `doc:"Creation time in local time" example:"2026-01-15 10:30:00" json:"created_at"`
	ExpiresAt *string `doc:"Expiry in local time, if any" json:"expires_at" nullable:"true"`
}

// CreateLinkResponse is the response for a successfully created short link.
type CreateLinkResponse struct {
	Body LinkBody
}

// LinkSummary is a stored link together with its visit count.
type LinkSummary struct {
	LinkBody

	Clicks int64 `doc:"Number of successful redirects" json:"clicks" minimum:"0"`
}

// ListLinksResponse is the response for listing all stored links.
type ListLinksResponse struct {
	Body []LinkSummary
}

// CodeRequest identifies a link by its short code.
type CodeRequest struct {
	Code string `doc:"The short code" example:"Ab3dEf9h" path:"code"`
}

// RedirectResponse sends the client to the stored target.
type RedirectResponse struct {
	Status   int
	Location string `doc:"The target URL" header:"Location"`
}
