package config

// UIConfig holds terminal view configuration.
type UIConfig struct {
	// Theme is "auto", "dark" or "light"
	Theme string `json:"theme" yaml:"theme"`

	// ChatPaneRatio is the share of the terminal width given to the chat pane (0.0-1.0)
	ChatPaneRatio float64 `json:"chat_pane_ratio" yaml:"chat_pane_ratio"`

	// MarkdownReplies renders tutor replies through glamour
	MarkdownReplies bool `json:"markdown_replies" yaml:"markdown_replies"`
}

// DefaultUIConfig returns sensible UI defaults.
func DefaultUIConfig() *UIConfig {
	return &UIConfig{
		Theme:           "auto",
		ChatPaneRatio:   0.38,
		MarkdownReplies: true,
	}
}
