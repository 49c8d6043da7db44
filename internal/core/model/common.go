package model

// Provider identifiers. Lookups normalize provider names to these upper-case keys.
const (
	ProviderOpenAI = "OPENAI"
	ProviderClaude = "CLAUDE"
)

// Model identifiers used in examples and tests
const (
	ModelGPT4o        = "gpt-4o"
	ModelGPT4oMini    = "gpt-4o-mini"
	ModelO3           = "o3"
	ModelClaude3Haiku = "claude-3-haiku"
	ModelClaude4Opus  = "claude-4-opus"
)

// Call status labels
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// TokensPerMillion is the unit all rate table prices are expressed in
const TokensPerMillion = 1_000_000
