package handlers

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope every endpoint except /health answers with.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	User    *LoginUser  `json:"user,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type LoginUser struct {
	ID       string   `json:"id"`
	FullName string   `json:"full_name"`
	Role     []string `json:"role"`
}

func respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondWithSuccess(w http.ResponseWriter, message string) {
	respondWithJSON(w, http.StatusOK, Response{Success: true, Message: message})
}

func respondWithError(w http.ResponseWriter, status int, message string) {
	respondWithJSON(w, status, Response{Success: false, Message: message})
}
