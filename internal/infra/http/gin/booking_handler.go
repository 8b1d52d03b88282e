package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	bookingapp "staybook/internal/app/handlers/booking"
	"staybook/internal/app/queries"
)

type BookingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type createBookingRequest struct {
	PropertyID string `json:"property_id"`
	GuestID    string `json:"guest_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	GuestCount int    `json:"guest_count"`
}

func (h BookingHandler) Create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		badRequest(c, err)
		return
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		badRequest(c, err)
		return
	}
	cmd := bookingapp.RequestBookingCommand{
		BookingID:       generateCommandID(),
		PropertyID:      req.PropertyID,
		GuestID:         req.GuestID,
		StartDate:       start,
		EndDate:         end,
		GuestCount:      req.GuestCount,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[bookingapp.RequestBookingCommand, *dto.Booking](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Booking created successfully", "booking": result})
}

func (h BookingHandler) Get(c *gin.Context) {
	result, err := queries.Ask[bookingapp.GetBookingQuery, *dto.Booking](c.Request.Context(), h.Queries, bookingapp.GetBookingQuery{BookingID: c.Param("id")})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) Cancel(c *gin.Context) {
	cmd := bookingapp.CancelBookingCommand{BookingID: c.Param("id")}
	result, err := commands.Dispatch[bookingapp.CancelBookingCommand, *dto.CancelResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	booking := result.Booking
	booking.Cancellation = nil
	c.JSON(http.StatusOK, gin.H{
		"message":      "Booking cancelled successfully",
		"booking":      booking,
		"cancellation": result.Cancellation,
	})
}

func generateCommandID() string {
	return uuid.NewString()
}

var _ BookingHTTP = BookingHandler{}
