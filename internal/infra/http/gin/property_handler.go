package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	propertyapp "staybook/internal/app/handlers/property"
	"staybook/internal/app/queries"
)

type PropertyHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type createPropertyRequest struct {
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	MaxGuests         int     `json:"max_guests"`
	BasePricePerNight float64 `json:"base_price_per_night"`
}

func (h PropertyHandler) Create(c *gin.Context) {
	var req createPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cmd := propertyapp.CreatePropertyCommand{
		Name:              req.Name,
		Description:       req.Description,
		MaxGuests:         req.MaxGuests,
		BasePricePerNight: req.BasePricePerNight,
		IdempotencyKeyV:   c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[propertyapp.CreatePropertyCommand, *dto.Property](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Property created successfully", "property": result})
}

func (h PropertyHandler) Get(c *gin.Context) {
	result, err := queries.Ask[propertyapp.GetPropertyQuery, *dto.Property](c.Request.Context(), h.Queries, propertyapp.GetPropertyQuery{PropertyID: c.Param("id")})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PropertyHandler) Availability(c *gin.Context) {
	start, err := parseDate("start_date", c.Query("start_date"))
	if err != nil {
		badRequest(c, err)
		return
	}
	end, err := parseDate("end_date", c.Query("end_date"))
	if err != nil {
		badRequest(c, err)
		return
	}
	q := propertyapp.CheckAvailabilityQuery{PropertyID: c.Param("id"), StartDate: start, EndDate: end}
	result, err := queries.Ask[propertyapp.CheckAvailabilityQuery, *dto.Availability](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PropertyHandler) Bookings(c *gin.Context) {
	result, err := queries.Ask[propertyapp.ListBookingsQuery, *dto.BookingCollection](c.Request.Context(), h.Queries, propertyapp.ListBookingsQuery{PropertyID: c.Param("id")})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ PropertyHTTP = PropertyHandler{}
