package models

import "time"

// Owner er eierfeltet slik GitHub search-API-et returnerer det.
// ID er peker fordi transformereren må kunne skille null fra 0.
type Owner struct {
	Login string `json:"login"`
	Type  string `json:"type"`
	ID    *int64 `json:"id"`
}

// RawRepo er ett repository slik det kommer rett fra search-API-et,
// før vasking. Felter som kan være null i payloaden er pekere.
type RawRepo struct {
	ID              *int64   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Owner           *Owner   `json:"owner"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
	PushedAt        string   `json:"pushed_at"`
	Size            *float64 `json:"size"`
	StargazersCount int64    `json:"stargazers_count"`
	WatchersCount   int64    `json:"watchers_count"`
	Language        *string  `json:"language"`
	Forks           int64    `json:"forks"`
	Watchers        int64    `json:"watchers"`
	Score           float64  `json:"score"`
	Archived        bool     `json:"archived"`
	Disabled        bool     `json:"disabled"`
	IsTemplate      bool     `json:"is_template"`
}

// SearchResponse er toppnivå-payloaden fra search-API-et.
type SearchResponse struct {
	TotalCount        int       `json:"total_count"`
	IncompleteResults bool      `json:"incomplete_results"`
	Items             []RawRepo `json:"items"`
}

// CleanRepo er én ferdig vasket rad i repositories-tabellen.
// ID er unik i tabellen, og CreatedAt, UserType og UserID er aldri
// tomme etter transformasjon. Size og Language er alltid utfylt.
type CleanRepo struct {
	ID              int64
	Name            string
	Description     string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	PushedAt        time.Time
	Size            float64
	StargazersCount int64
	WatchersCount   int64
	Language        string
	Forks           int64
	Watchers        int64
	Score           float64
	User            string
	UserType        string
	UserID          int64
}
