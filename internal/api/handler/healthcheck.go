package handler

import (
	"net/http"
	"time"
)

type HealthResponse struct {
	OK   bool      `json:"ok"`
	Time time.Time `json:"time"`
}

func RootHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, map[string]string{
			"message": "InsectControl API",
		})
	}
}

func HealthcheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, HealthResponse{OK: true, Time: time.Now().UTC()})
	}
}
