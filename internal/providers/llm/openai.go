package llm

const (
	openAIBaseURL   = "https://api.openai.com"
	deepSeekBaseURL = "https://api.deepseek.com"
)

// OpenAI provider is implemented using OpenAICompatible.
type OpenAI struct {
	*OpenAICompatible
}

func NewOpenAI(apiKey, model string, opts HTTPOptions) *OpenAI {
	return &OpenAI{
		OpenAICompatible: NewOpenAICompatible(OpenAICompatibleConfig{
			Name:       "openai",
			BaseURL:    openAIBaseURL,
			APIKey:     apiKey,
			Model:      model,
			AuthHeader: "Authorization",
			AuthPrefix: "Bearer ",
			HTTP:       opts,
		}),
	}
}

// DeepSeek speaks the OpenAI chat completions dialect.
type DeepSeek struct {
	*OpenAICompatible
}

func NewDeepSeek(apiKey, model string, opts HTTPOptions) *DeepSeek {
	return &DeepSeek{
		OpenAICompatible: NewOpenAICompatible(OpenAICompatibleConfig{
			Name:       "deepseek",
			BaseURL:    deepSeekBaseURL,
			APIKey:     apiKey,
			Model:      model,
			AuthHeader: "Authorization",
			AuthPrefix: "Bearer ",
			HTTP:       opts,
		}),
	}
}
