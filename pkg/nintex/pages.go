package nintex

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// nextLinkKey is the continuation reference key list endpoints embed in
// every non-final page response.
const nextLinkKey = "nextLink"

// fetchAll walks a nextLink-chained listing to exhaustion and returns
// the accumulated items in server order. The initial request carries the
// caller's query parameters; continuation requests go to the exact
// nextLink URL with no parameters re-sent, since the link already
// encodes the full query state.
//
// Each page must carry its items under payloadKey; a page without it
// fails the whole accumulation and no partial results are returned. An
// empty first page with no nextLink yields an empty slice, not an error.
func fetchAll[T any](ctx context.Context, c *Client, path, payloadKey string, query url.Values) ([]T, error) {
	items := []T{}
	page := 1

	for {
		resp, err := c.Do(ctx, http.MethodGet, path, query, nil)
		if err != nil {
			return nil, err
		}

		envelope := map[string]json.RawMessage{}
		err = json.NewDecoder(resp.Body).Decode(&envelope)
		resp.Body.Close()

		if err != nil {
			return nil, fmt.Errorf("nintex: decoding %s page %d: %w", payloadKey, page, err)
		}

		raw, ok := envelope[payloadKey]
		if !ok {
			return nil, fmt.Errorf("nintex: %s page %d missing %q payload", path, page, payloadKey)
		}

		var pageItems []T
		if err := json.Unmarshal(raw, &pageItems); err != nil {
			return nil, fmt.Errorf("nintex: decoding %q items on page %d: %w", payloadKey, page, err)
		}

		items = append(items, pageItems...)

		c.logger.Debug("fetched page",
			slog.String("payload", payloadKey),
			slog.Int("page", page),
			slog.Int("count", len(pageItems)),
			slog.Int("total", len(items)),
		)

		next, err := decodeNextLink(envelope, page)
		if err != nil {
			return nil, err
		}

		if next == "" {
			c.logger.Debug("listing complete",
				slog.String("payload", payloadKey),
				slog.Int("pages", page),
				slog.Int("total", len(items)),
			)

			return items, nil
		}

		path, err = c.stripBaseURL(next)
		if err != nil {
			return nil, err
		}

		query = nil
		page++
	}
}

// decodeNextLink extracts the continuation reference from a page
// envelope. A missing key means the listing is exhausted.
func decodeNextLink(envelope map[string]json.RawMessage, page int) (string, error) {
	raw, ok := envelope[nextLinkKey]
	if !ok {
		return "", nil
	}

	var next string
	if err := json.Unmarshal(raw, &next); err != nil {
		return "", fmt.Errorf("nintex: decoding nextLink on page %d: %w", page, err)
	}

	return next, nil
}

// stripBaseURL removes the client's base URL prefix from a full URL,
// returning the path + query string for use with Do().
// Returns an error if the URL doesn't start with the expected base.
func (c *Client) stripBaseURL(fullURL string) (string, error) {
	if !strings.HasPrefix(fullURL, c.baseURL) {
		return "", fmt.Errorf("nintex: nextLink URL %q does not match base URL %q", fullURL, c.baseURL)
	}

	return fullURL[len(c.baseURL):], nil
}
