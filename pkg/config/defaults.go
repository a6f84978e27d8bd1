package config

const (
	defaultAPIListen = ":3001"

	defaultLLMProvider = "ollama"
	defaultLLMModel    = "llama3.2"
	defaultLLMTimeout  = "30s"

	defaultKafkaTopic = "wayfarer.suggestions"

	defaultFunctionLimit = 3
	defaultFollowupLimit = 5
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		LLM: LLMConfig{
			Provider: defaultLLMProvider,
			Model:    defaultLLMModel,
			Timeout:  defaultLLMTimeout,
		},
		Events: EventsConfig{
			KafkaTopic: defaultKafkaTopic,
		},
		Suggest: SuggestConfig{
			FunctionLimit: defaultFunctionLimit,
			FollowupLimit: defaultFollowupLimit,
		},
	}
}
