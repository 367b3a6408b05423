package cmd

import (
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/bqrun/pkg/utils"
	"github.com/urfave/cli/v2"
)

func clientCommand() *cli.Command {
	return &cli.Command{
		Name:    "client",
		Aliases: []string{"c"},
		Usage:   "Start bqrun client",
		Subcommands: []*cli.Command{
			clientHealthCheck(),
		},
	}
}

func clientHealthCheck() *cli.Command {
	var (
		url string
	)

	return &cli.Command{
		Name:  "health",
		Usage: "Check health of bqrun server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "server-url",
				Aliases:     []string{"u"},
				EnvVars:     []string{"BQRUN_SERVER_URL"},
				Usage:       "URL of bqrun server",
				Destination: &url,
				Value:       "http://localhost:8080/health",
			},
		},
		Action: func(c *cli.Context) error {
			req, err := http.NewRequest(http.MethodGet, url, nil)
			if err != nil {
				return goerr.Wrap(err, "failed to create request")
			}

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return goerr.Wrap(err, "failed to send request")
			}
			defer utils.SafeClose(resp.Body)

			if resp.StatusCode != http.StatusOK {
				return goerr.New("server is not healthy", goerr.V("status", resp.Status))
			}

			utils.Logger().Info("Server is healthy")

			return nil
		},
	}
}
