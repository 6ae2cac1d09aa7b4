package config

import "time"

const (
	// Placeholder session name until the naming agent runs
	SentinelSessionName = "New Chat"

	// Greeting shown (not persisted) when a fresh session starts
	DefaultGreeting = "Hello! I'm your AI assistant. How can I help you today?"

	// Sidebar previews
	PreviewLength = 50
	EmptyPreview  = "(empty)"

	// Session naming
	NamingThreshold      = 2
	NamingSourceMessages = 3
	MaxSessionNameLen    = 50

	// Model invocation timeout; the sole bounded wait per turn
	RequestTimeout = 90 * time.Second

	// Provider model catalog cache
	ModelCacheDuration = 1 * time.Hour
)
