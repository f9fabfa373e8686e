// Package v3api is a client for the alerts and schedules endpoints of a
// JSON:API transit API such as the MBTA V3 API.
//
// The Client implements both data sources the converter needs:
//
//	client, err := v3api.NewClient(v3api.Config{
//	    BaseURL: "https://api-v3.mbta.com",
//	    APIKey:  os.Getenv("API_KEY"),
//	    Logger:  logger,
//	})
//	if err != nil {
//	    return err
//	}
//	alerts, err := client.FetchAlerts(ctx, transit.CancellationEffects()...)
//
// Responses are paginated with page[limit] and followed through links.next
// until the last page. Failures are reported as *transit.FetchError and are never
// retried.
package v3api
