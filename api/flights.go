package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zvrva/skyfare/internal/service/flights"
)

const flightSampleSize = 10

type FlightHandler struct {
	service flights.FlightUseCase
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/:flightId", h.get)
}

func (h *FlightHandler) list(c *gin.Context) {
	flights, err := h.service.Sample(c.Request.Context(), flightSampleSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, flights)
}

func (h *FlightHandler) get(c *gin.Context) {
	flight, err := h.service.GetByFlightID(c.Request.Context(), c.Param("flightId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}
