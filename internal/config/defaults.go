package config

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"groq_api_key":         "",
		"groq_model":           "llama-3.3-70b-versatile",
		"milvus_addr":          "http://localhost:19530",
		"milvus_collection":    "cloudstack_docs",
		"max_context_chunks":   8,
		"output_dir":           "generated",
		"terraform_validation": true,
		"validation_timeout":   60,
		"max_retries":          3,
		"empty_hint_after":     3,
		"show_progress":        true,
		"timeout":              60,
	}
}
