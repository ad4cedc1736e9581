package rcm

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type RawResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        string `json:"body"`
}

// RawGet fetches an arbitrary page of the upstream with the session's cookies
// and returns it untouched, it exists for manually inspecting the backend.
// Targets on other hosts are rejected.
func (c *Client) RawGet(ctx context.Context, session Session, target string) (RawResponse, error) {
	ctx, span := tracer.Start(ctx, "client:RawGet")
	defer span.End()

	fail := func(err error) (RawResponse, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return RawResponse{}, err
	}

	if target == "" {
		return fail(fmt.Errorf("%w: url is required", ErrValidation))
	}
	resolved, err := c.resolve(target)
	if err != nil {
		return fail(fmt.Errorf("%w: parse url: %s", ErrValidation, err.Error()))
	}
	if (resolved.Scheme != "http" && resolved.Scheme != "https") || !c.sameHost(resolved) {
		return fail(fmt.Errorf("%w: url must point to %s", ErrValidation, c.BaseUrl.Host))
	}
	span.SetAttributes(attribute.String("url", resolved.Path))

	res, err := c.request(session).
		SetContext(ctx).
		Get(resolved.String())
	if err != nil {
		return fail(err)
	}

	return RawResponse{
		Status:      res.StatusCode(),
		ContentType: res.Header().Get("Content-Type"),
		Body:        res.String(),
	}, nil
}
