package oauth

// DiscordConfig holds Discord adapter settings.
type DiscordConfig struct {
	Scopes []string `env:"DISCORD_OAUTH_SCOPES" envSeparator:","`
	Prompt string   `env:"DISCORD_OAUTH_PROMPT" envDefault:""`
}

// GitHubConfig holds GitHub adapter settings.
type GitHubConfig struct {
	Scopes []string `env:"GITHUB_OAUTH_SCOPES" envSeparator:","`
	// AllowUnverifiedEmail skips the verified primary email requirement.
	AllowUnverifiedEmail bool `env:"GITHUB_OAUTH_ALLOW_UNVERIFIED_EMAIL" envDefault:"false"`
}

// GoogleConfig holds Google adapter settings.
type GoogleConfig struct {
	Scopes     []string `env:"GOOGLE_OAUTH_SCOPES" envSeparator:","`
	AccessType string   `env:"GOOGLE_OAUTH_ACCESS_TYPE" envDefault:""`
	Prompt     string   `env:"GOOGLE_OAUTH_PROMPT" envDefault:""`
}
