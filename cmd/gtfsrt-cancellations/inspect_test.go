package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/gtfsrt-cancellations/formatter"
	"github.com/theoremus-urban-solutions/gtfsrt-cancellations/transit"
)

func encodedFeed(t *testing.T) []byte {
	t.Helper()
	ts := time.Date(2024, 1, 20, 17, 0, 0, 0, time.UTC)
	data, err := formatter.EncodeProtobuf(transit.Feed{
		Timestamp: ts,
		Entities: []transit.CancellationEntity{{
			ID: "T1", TripID: "T1", RouteID: "Red", StartDate: "20240120", Timestamp: ts,
			StopTimeUpdates: []transit.SkippedStop{{StopID: "A", StopSequence: 1}},
		}},
	})
	require.NoError(t, err)
	return data
}

func TestInspectFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "TripUpdates.pb")
	require.NoError(t, os.WriteFile(path, encodedFeed(t), 0o644))

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out

	require.NoError(t, app.Run([]string{"gtfsrt-cancellations", "inspect", path}))
	assert.Contains(t, out.String(), `"trip_id": "T1"`)
	assert.Contains(t, out.String(), `"schedule_relationship": "CANCELED"`)
	assert.Contains(t, out.String(), `"schedule_relationship": "SKIPPED"`)
}

func TestInspectURL(t *testing.T) {
	data := encodedFeed(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(data)
	}))
	defer server.Close()

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out

	require.NoError(t, app.Run([]string{"gtfsrt-cancellations", "inspect", server.URL + "/TripUpdates.pb"}))
	assert.Contains(t, out.String(), `"start_date": "20240120"`)
}

func TestInspectErrors(t *testing.T) {
	app := newApp()
	app.Writer = &bytes.Buffer{}

	assert.Error(t, app.Run([]string{"gtfsrt-cancellations", "inspect"}))
	assert.Error(t, app.Run([]string{"gtfsrt-cancellations", "inspect", filepath.Join(t.TempDir(), "missing.pb")}))
}

func TestFetcherHTTPStatus(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := newFetcher().fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
}
