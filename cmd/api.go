package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/desertthunder/hobbyhub/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIRequest sends the subcommand's method to a path inside a resource group and prints the response.
//
// The request goes through the group's client, so a stale access token is refreshed exactly like it is for every
// other command.
func (r *Runner) APIRequest(ctx context.Context, cmd *cli.Command) error {
	method := strings.ToUpper(cmd.Name)
	group := cmd.StringArg("group")
	path := cmd.StringArg("path")
	if group == "" {
		return fmt.Errorf("%w: group", shared.ErrMissingArgument)
	}
	if path == "" {
		path = "/"
	}

	client, err := r.hub.Client(group)
	if err != nil {
		return err
	}

	var body []byte
	if data := cmd.String("data"); data != "" {
		if !json.Valid([]byte(data)) {
			return fmt.Errorf("%w: data is not valid JSON", shared.ErrInvalidInput)
		}
		body = []byte(data)
	}

	r.logger.Info(method+" request", "url", client.URL(path))
	resp, err := client.Raw(ctx, method, path, body)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if err := r.writeBody(resp.Body, resp.IsJSON(), cmd.Bool("pretty")); err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}
	return nil
}

func (r *Runner) writeBody(body []byte, isJSON, pretty bool) error {
	if len(body) == 0 {
		return nil
	}
	if isJSON {
		var data any
		if err := json.Unmarshal(body, &data); err == nil {
			return r.writeJSON(data, pretty)
		}
	}
	r.output.Write(body)
	r.output.Write([]byte("\n"))
	return nil
}
