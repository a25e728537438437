package server

import (
	"github.com/brk3/wellnest/pkg/wellness"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HabitListResponse struct {
	Habits []wellness.Habit `json:"habits"`
}

type FoodListResponse struct {
	Food []wellness.FoodLogEntry `json:"food"`
}

type JournalListResponse struct {
	Entries []wellness.JournalEntry `json:"entries"`
}

type ToggleRequest struct {
	Date string `json:"date"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

type APIKeyResponse struct {
	APIKey string `json:"api_key"`
}

type APIKeyInfo struct {
	Hash string `json:"hash"`
}

type APIKeyListResponse struct {
	Keys []APIKeyInfo `json:"keys"`
}
