package config

// Default returns the built-in configuration used when no file is supplied.
func Default() Config {
	return Config{
		DataDir: "data",
		Scheduler: SchedulerConfig{
			CronExpression: "0 6 * * *",
		},
		Thresholds: ThresholdConfig{
			ScoreMin:      30,
			HackerNewsMin: 50,
			ColdStartDays: 7,
		},
		Sources: SourcesConfig{
			GitHub: GitHubConfig{
				Enabled: true,
				Repos: []RepoConfig{
					{Owner: "langchain-ai", Repo: "langchain", Name: "LangChain"},
					{Owner: "run-llama", Repo: "llama_index", Name: "LlamaIndex"},
					{Owner: "langgenius", Repo: "dify", Name: "Dify"},
					{Owner: "microsoft", Repo: "autogen", Name: "AutoGen"},
				},
			},
			RSS: RSSConfig{
				Enabled: true,
				Feeds: []FeedConfig{
					{URL: "https://blog.langchain.dev/rss/", Name: "LangChain Blog", Category: "framework"},
					{URL: "https://openai.com/blog/rss.xml", Name: "OpenAI Blog", Category: "llm"},
					{URL: "https://www.anthropic.com/rss.xml", Name: "Anthropic Blog", Category: "llm"},
				},
			},
			HackerNews: HackerNewsConfig{
				Enabled: true,
			},
			Arxiv: ArxivConfig{
				Enabled: true,
				TopN:    20,
			},
		},
		Keywords: DefaultKeywords(),
		AI: AIConfig{
			Host:           "http://localhost:11434",
			EmbeddingModel: "nomic-embed-text",
			GeneratorModel: "qwen2.5:3b",
		},
	}
}

// DefaultKeywords returns the built-in category lexicons.
// Matching is case-insensitive substring search over title plus excerpt.
func DefaultKeywords() map[string][]string {
	return map[string][]string{
		"framework": {
			"langchain", "llamaindex", "llama index", "semantic kernel",
			"haystack", "autogen", "crewai", "dify",
		},
		"llm": {
			"gpt", "claude", "gemini", "llama", "deepseek", "qwen",
			"mistral", "large language model", "llm",
		},
		"rag": {
			"rag", "retrieval augmented", "retrieval-augmented",
			"vector database", "vector store", "embedding", "chroma",
		},
		"agent": {
			"agent", "mcp", "tool use", "function calling", "tool calling",
		},
		"workflow": {
			"workflow", "orchestration", "pipeline", "n8n", "automation",
		},
	}
}
