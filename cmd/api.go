package main

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/desertthunder/podx/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet makes a signed GET request against the Podcast Index API and prints the response.
//
// Responses are not cached.
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: API path", shared.ErrMissingArgument)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	query, err := parseParams(cmd.StringSlice("param"))
	if err != nil {
		return err
	}

	index, err := r.openIndex()
	if err != nil {
		return err
	}

	r.logger.Info("GET request", "path", path, "query", query.Encode())

	resp, err := index.API().Get(ctx, path, query)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if !resp.OK() {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, !cmd.Bool("json"))
	}

	r.output.Write(resp.Body)
	r.output.Write([]byte("\n"))
	return nil
}

// parseParams turns repeated key=value flags into query values.
func parseParams(params []string) (url.Values, error) {
	query := url.Values{}
	for _, p := range params {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("%w: param %q must be key=value", shared.ErrInvalidFlag, p)
		}
		query.Add(k, v)
	}
	return query, nil
}
