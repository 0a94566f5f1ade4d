package config

const (
	envHubBaseURL = "HUB_BASE_URL"
	envHubToken   = "HUB_API_TOKEN"

	defaultHubBaseURL = "https://api.academyhub.example/v1"
)

// HubConfig controls how we talk to the academy hub API.
type HubConfig struct {
	BaseURL  string
	APIToken string
}

func loadHub() HubConfig {
	return HubConfig{
		BaseURL:  envOrDefault(envHubBaseURL, defaultHubBaseURL),
		APIToken: envOrDefault(envHubToken, ""),
	}
}
