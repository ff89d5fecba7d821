// File: ecitizen/handlers/bundle.go
package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Dialogue endpoints
	CreateSession    gin.HandlerFunc
	HandleUtterance  gin.HandlerFunc
	GetSessionStatus gin.HandlerFunc
	CancelSession    gin.HandlerFunc
	EndSession       gin.HandlerFunc

	// Service catalog endpoints
	ListServices gin.HandlerFunc
	GetService   gin.HandlerFunc
}

// NewHandlerBundle wires the voice and catalog handlers into a bundle.
func NewHandlerBundle(voice *VoiceHandler, services *ServicesHandler) *HandlerBundle {
	return &HandlerBundle{
		CreateSession:    voice.CreateSession,
		HandleUtterance:  voice.HandleUtterance,
		GetSessionStatus: voice.GetStatus,
		CancelSession:    voice.CancelSession,
		EndSession:       voice.EndSession,
		ListServices:     services.ListServices,
		GetService:       services.GetService,
	}
}
