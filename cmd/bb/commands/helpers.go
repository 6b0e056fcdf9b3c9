package commands

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/bitbucket-client/pkg/bbclient"
	"github.com/fivetwenty-io/bitbucket-client/pkg/bitbucket"
)

// Output formats.
const (
	OutputFormatTable = "table"
	OutputFormatJSON  = "json"
	OutputFormatYAML  = "yaml"
)

const notAvailable = "N/A"

// Common static errors used throughout the commands package.
var (
	ErrOwnerRequired       = errors.New("owner is required (use --owner or BITBUCKET_OWNER)")
	ErrRepoRequired        = errors.New("repository is required (use --repo or BITBUCKET_REPO)")
	ErrWebhookURLRequired  = errors.New("webhook URL is required")
	ErrBuildKeyRequired    = errors.New("build status key is required")
	ErrBuildStateRequired  = errors.New("build status state is required")
	ErrTeamNotFound        = errors.New("owner is not a team")
	ErrUsernameRequired    = errors.New("username is required")
	ErrAppPasswordRequired = errors.New("app password is required")
)

// newClient builds a client from viper-managed configuration. Commands
// that only need owner-level access pass requireRepo false.
func newClient(ctx context.Context, requireRepo bool) (bitbucket.Client, error) {
	owner := viper.GetString("owner")
	if owner == "" {
		return nil, ErrOwnerRequired
	}

	repo := viper.GetString("repo")
	if requireRepo && repo == "" {
		return nil, ErrRepoRequired
	}

	config := &bitbucket.Config{
		Owner:       owner,
		Repository:  repo,
		APIEndpoint: viper.GetString("api"),
	}

	if username := viper.GetString("username"); username != "" {
		config.Credentials = &bitbucket.Credentials{
			Username:    username,
			AppPassword: viper.GetString("app_password"),
		}
	}

	return bbclient.New(ctx, config)
}

// outputFormat returns the selected output format.
func outputFormat() string {
	format := viper.GetString("output")
	if format == "" {
		return OutputFormatTable
	}

	return format
}

// renderStructured writes data as JSON or YAML; table rendering is left
// to the caller per resource.
func renderStructured(data interface{}) error {
	switch outputFormat() {
	case OutputFormatJSON:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		return encoder.Encode(data)
	default:
		encoder := yaml.NewEncoder(os.Stdout)

		return encoder.Encode(data)
	}
}
