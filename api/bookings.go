package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zvrva/skyfare/internal/service/booking"
	"github.com/zvrva/skyfare/internal/service/flights"
	"github.com/zvrva/skyfare/internal/service/pricing"
)

type BookingHandler struct {
	bookings booking.BookingUseCase
	pricing  pricing.PricingUseCase
	flights  flights.FlightUseCase
}

type attemptRequest struct {
	UserID   string `json:"userId" binding:"required"`
	FlightID string `json:"flightId" binding:"required"`
}

type createBookingRequest struct {
	UserID        string `json:"userId" binding:"required"`
	FlightID      string `json:"flightId" binding:"required"`
	PassengerName string `json:"passengerName"`
}

type createBookingResponse struct {
	Success   bool   `json:"success"`
	BookingID string `json:"bookingId"`
	PNR       string `json:"pnr"`
	TicketURL string `json:"ticketUrl,omitempty"`
}

type priceResponse struct {
	Price          int64   `json:"price"`
	BasePrice      int64   `json:"basePrice"`
	Surged         bool    `json:"surged"`
	Multiplier     float64 `json:"surgeMultiplier"`
	SurgeExpiresAt string  `json:"surgeExpiresAt,omitempty"`
}

func NewBookingHandler(bookings booking.BookingUseCase, pricing pricing.PricingUseCase, flights flights.FlightUseCase) *BookingHandler {
	return &BookingHandler{bookings: bookings, pricing: pricing, flights: flights}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/attempt", h.attempt)
	router.GET("/price/:flightId", h.price)
	router.POST("/", h.create)
	router.GET("/history/:userId", h.history)
	router.GET("/ticket/:bookingId", h.ticket)
}

func (h *BookingHandler) attempt(c *gin.Context) {
	var req attemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId and flightId are required"})
		return
	}

	decision, err := h.pricing.RecordAttempt(c.Request.Context(), req.UserID, req.FlightID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, decision)
}

func (h *BookingHandler) price(c *gin.Context) {
	flight, err := h.flights.GetByFlightID(c.Request.Context(), c.Param("flightId"))
	if err != nil {
		writeError(c, err)
		return
	}

	quote, err := h.pricing.CurrentPrice(c.Request.Context(), flight)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := priceResponse{
		Price:      quote.Price,
		BasePrice:  quote.BasePrice,
		Surged:     quote.Surged,
		Multiplier: quote.Multiplier,
	}
	if quote.SurgeExpiresAt != nil {
		resp.SurgeExpiresAt = quote.SurgeExpiresAt.Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId and flightId are required"})
		return
	}

	created, err := h.bookings.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		UserID:        req.UserID,
		FlightID:      req.FlightID,
		PassengerName: req.PassengerName,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	resp := createBookingResponse{
		Success:   true,
		BookingID: created.ID,
		PNR:       created.PNR,
	}
	// The artifact ref is internal storage naming; clients download through
	// the ticket endpoint.
	if created.TicketRef != "" {
		resp.TicketURL = "/api/bookings/ticket/" + created.ID
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *BookingHandler) history(c *gin.Context) {
	bookings, err := h.bookings.History(c.Request.Context(), c.Param("userId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) ticket(c *gin.Context) {
	booked, data, err := h.bookings.Ticket(c.Request.Context(), c.Param("bookingId"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=ticket_%s.txt", booked.PNR))
	c.Data(http.StatusOK, "text/plain", data)
}
