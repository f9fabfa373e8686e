package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/theoremus-urban-solutions/gtfsrt-cancellations/formatter"
)

func inspectAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("inspect takes exactly one feed, got %d arguments", c.NArg())
	}
	src := c.Args().First()

	data, err := newFetcher().fetch(c.Context, src)
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}
	feed, err := formatter.DecodeProtobuf(data)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", src, err)
	}
	out, err := formatter.EncodeJSON(feed)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, string(out))
	return err
}
