package handler

import "github.com/julienschmidt/httprouter"

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", h.List)
	router.GET("/api/v1/bookings/:id", h.GetByID)
	router.PUT("/api/v1/bookings/:id", h.Update)
	router.DELETE("/api/v1/bookings/:id", h.Delete)
}
