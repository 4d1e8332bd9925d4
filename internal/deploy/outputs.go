package deploy

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/joho/godotenv"
)

var ErrNoBackendOutputs = errors.New("backend metadata has no GraphQL API outputs")

// BackendOutputs are the settings later invocations need to reach the
// deployed backend.
type BackendOutputs struct {
	Endpoint string
	APIKey   string
	Region   string
}

type backendMeta struct {
	Providers struct {
		CloudFormation struct {
			Region string `json:"Region"`
		} `json:"awscloudformation"`
	} `json:"providers"`
	API map[string]struct {
		Output struct {
			Endpoint string `json:"GraphQLAPIEndpointOutput"`
			APIKey   string `json:"GraphQLAPIKeyOutput"`
		} `json:"output"`
	} `json:"api"`
}

// ReadBackendOutputs extracts the GraphQL endpoint, API key and region from
// the backend metadata file written by a deploy.
func ReadBackendOutputs(path string) (*BackendOutputs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var meta backendMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	names := make([]string, 0, len(meta.API))
	for name := range meta.API {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		out := meta.API[name].Output
		if out.Endpoint == "" {
			continue
		}
		return &BackendOutputs{
			Endpoint: out.Endpoint,
			APIKey:   out.APIKey,
			Region:   meta.Providers.CloudFormation.Region,
		}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNoBackendOutputs, path)
}

// Env returns the outputs as environment variables.
func (o *BackendOutputs) Env() map[string]string {
	env := map[string]string{
		"GRAPHQL_ENDPOINT": o.Endpoint,
		"GRAPHQL_API_KEY":  o.APIKey,
	}
	if o.Region != "" {
		env["AWS_REGION"] = o.Region
	}
	return env
}

// WriteEnvFile writes the outputs as a dotenv file at path.
func WriteEnvFile(path string, o *BackendOutputs) error {
	return godotenv.Write(o.Env(), path)
}
