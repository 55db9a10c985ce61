package core

import "time"

// Settings represents the main configuration for the engine
type Settings struct {
	StartBalance float64          // Initial cash balance for new accounts
	ScanInterval time.Duration    // Delay between automated scan ticks
	Watchlist    []string         // Symbols watched by default for new accounts
	Universe     []Instrument     // Instruments the automated policy may buy
	Telegram     TelegramSettings // Telegram notification settings
}

// TelegramSettings holds configuration for Telegram integration
type TelegramSettings struct {
	Enabled bool   // Whether Telegram notifications are enabled
	Token   string // Telegram bot token
	Users   []int  // List of authorized user IDs
}
