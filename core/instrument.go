package core

import (
	"encoding/json"
	"time"
)

// Instrument is one tradable entry of the scan universe with its
// reference price.
type Instrument struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
}

// MarketSnapshot is an externally supplied quote/analysis record. The
// engine only ever reads CurrentPrice to seed a manual trade; the
// remaining fields are carried opaquely for display layers.
type MarketSnapshot struct {
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name"`
	CurrentPrice float64         `json:"current_price"`
	ChangePct    float64         `json:"change_percent"`
	LastUpdated  time.Time       `json:"last_updated"`
	Analysis     json.RawMessage `json:"analysis,omitempty"`
}

// DefaultUniverse is the fixed instrument set scanned by the automated
// policy when no custom universe is configured.
var DefaultUniverse = []Instrument{
	{Symbol: "RELIANCE", Name: "Reliance Industries", Price: 2980},
	{Symbol: "TCS", Name: "Tata Consultancy Svcs", Price: 4120},
	{Symbol: "INFY", Name: "Infosys Ltd", Price: 1650},
	{Symbol: "HDFCBANK", Name: "HDFC Bank Ltd", Price: 1450},
	{Symbol: "TATAMOTORS", Name: "Tata Motors Ltd", Price: 980},
	{Symbol: "SBIN", Name: "State Bank of India", Price: 760},
	{Symbol: "BHARTIARTL", Name: "Bharti Airtel", Price: 1200},
	{Symbol: "ICICIBANK", Name: "ICICI Bank", Price: 1080},
	{Symbol: "ITC", Name: "ITC Limited", Price: 435},
	{Symbol: "LT", Name: "Larsen & Toubro", Price: 3600},
	{Symbol: "AXISBANK", Name: "Axis Bank", Price: 1050},
	{Symbol: "KOTAKBANK", Name: "Kotak Mahindra Bank", Price: 1750},
	{Symbol: "WIPRO", Name: "Wipro Limited", Price: 480},
	{Symbol: "ASIANPAINT", Name: "Asian Paints", Price: 2850},
	{Symbol: "MARUTI", Name: "Maruti Suzuki", Price: 11500},
}
