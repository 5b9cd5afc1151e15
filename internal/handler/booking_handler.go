package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Shiggorat/shareit/internal/application"
	"github.com/Shiggorat/shareit/internal/common/domain"
	"github.com/Shiggorat/shareit/internal/common/middleware"
	"github.com/Shiggorat/shareit/internal/common/response"
	bookingDomain "github.com/Shiggorat/shareit/internal/domain/booking"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	bookings.Use(middleware.Identity())
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListBookerBookings)
		bookings.GET("/owner", h.ListOwnerBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.PATCH("/:id", h.DecideBooking)
	}
}

// CreateBooking handles POST /bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, err := actingUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// DecideBooking handles PATCH /bookings/:id?approved=true|false.
func (h *BookingHandler) DecideBooking(c *gin.Context) {
	userID, err := actingUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	bookingID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	approved, err := strconv.ParseBool(c.Query("approved"))
	if err != nil {
		response.BadRequest(c, "approved must be true or false")
		return
	}

	result, err := h.service.DecideBooking(c.Request.Context(), userID, bookingID, approved)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetBooking handles GET /bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	userID, err := actingUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	bookingID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), userID, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListBookerBookings handles GET /bookings?state=&from=&size=.
func (h *BookingHandler) ListBookerBookings(c *gin.Context) {
	h.list(c, h.service.ListBookerBookings)
}

// ListOwnerBookings handles GET /bookings/owner?state=&from=&size=.
func (h *BookingHandler) ListOwnerBookings(c *gin.Context) {
	h.list(c, h.service.ListOwnerBookings)
}

type listBookingsFunc func(ctx context.Context, userID uuid.UUID, state bookingDomain.State, page domain.Page) ([]application.BookingDTO, error)

func (h *BookingHandler) list(c *gin.Context, fn listBookingsFunc) {
	userID, err := actingUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	state, err := bookingDomain.ParseState(c.DefaultQuery("state", string(bookingDomain.StateAll)))
	if err != nil {
		response.Error(c, err)
		return
	}
	page, err := parsePage(c, defaultBookingPageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := fn(c.Request.Context(), userID, state, page)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
