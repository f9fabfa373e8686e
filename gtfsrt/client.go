package gtfsrt

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"github.com/theoremus-urban-solutions/gtfsrt-cancellations/transit"
)

// fetchFeed downloads and decodes one GTFS-RT feed. Failures are reported as
// *transit.FetchError like every other upstream failure.
func fetchFeed(ctx context.Context, httpClient *http.Client, url string) (*gtfs.FeedMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, &transit.FetchError{URL: url, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Accept", "application/x-protobuf")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &transit.FetchError{URL: url, Err: fmt.Errorf("executing request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &transit.FetchError{URL: url, StatusCode: resp.StatusCode, Err: transit.ErrUnexpectedStatus}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &transit.FetchError{URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("reading body: %w", err)}
	}
	var fm gtfs.FeedMessage
	if err := proto.Unmarshal(body, &fm); err != nil {
		return nil, &transit.FetchError{URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("decoding feed: %w", err)}
	}
	return &fm, nil
}
