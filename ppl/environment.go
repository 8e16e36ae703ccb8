package ppl

// Environment selects the fixed endpoint pair of a PPL myAPI2 deployment:
// the OAuth2 token endpoint and the API base URL. All request paths are
// relative to BaseURL.
type Environment struct {
	// Name identifies the environment ("production" or "test").
	Name string

	// TokenURL is the OAuth2 client-credentials token endpoint.
	TokenURL string

	// BaseURL is the API root, always with a trailing slash.
	BaseURL string
}

// The two deployments PPL operates. Which one a Client talks to is decided
// by Config.Production at construction and never changes afterwards.
var (
	Production = Environment{
		Name:     "production",
		TokenURL: "https://api.dhl.com/ecs/ppl/myapi2/login/getAccessToken",
		BaseURL:  "https://api.dhl.com/ecs/ppl/myapi2/",
	}

	Testing = Environment{
		Name:     "test",
		TokenURL: "https://api-dev.dhl.com/ecs/ppl/myapi2/login/getAccessToken",
		BaseURL:  "https://api-dev.dhl.com/ecs/ppl/myapi2/",
	}
)
