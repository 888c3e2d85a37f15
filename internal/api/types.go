package api

import (
	"evalgo.org/darkroom/internal/contact"
	"evalgo.org/darkroom/models"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

// GalleryResponse is one page of a normalized collection.
type GalleryResponse struct {
	Category string                   `json:"category"`
	Name     string                   `json:"name"`
	Count    int                      `json:"count"`
	Images   []models.ImageDescriptor `json:"images"`
}

// ContactResponse is the result of a contact submission.
type ContactResponse struct {
	Success bool                  `json:"success"`
	ID      string                `json:"id,omitempty"`
	Error   string                `json:"error,omitempty"`
	Details *contact.VerifyResult `json:"details,omitempty"`
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status      string `json:"status"`
	Service     string `json:"service"`
	Version     string `json:"version"`
	Uptime      string `json:"uptime"`
	Collections int    `json:"cached_collections"`
}
