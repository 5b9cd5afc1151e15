package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Shiggorat/shareit/internal/common/domain"
	"github.com/Shiggorat/shareit/internal/common/middleware"
)

const (
	defaultBookingPageSize = 10
	defaultItemPageSize    = 100
	defaultRequestPageSize = 10
)

// parsePage reads from and size query parameters. Absent values take the defaults;
// malformed or out-of-range values are a VALIDATION error.
func parsePage(c *gin.Context, defaultSize int) (domain.Page, error) {
	from, err := strconv.Atoi(c.DefaultQuery("from", "0"))
	if err != nil {
		return domain.Page{}, domain.NewValidationError("from must be an integer")
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(defaultSize)))
	if err != nil {
		return domain.Page{}, domain.NewValidationError("size must be an integer")
	}
	return domain.NewPage(from, size)
}

// pathID parses a UUID path parameter.
func pathID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, domain.NewValidationError("invalid " + name + ": " + c.Param(name))
	}
	return id, nil
}

// actingUser returns the id set by the identity middleware.
func actingUser(c *gin.Context) (uuid.UUID, error) {
	id, ok := middleware.GetUserID(c)
	if !ok {
		return uuid.Nil, domain.NewValidationError("missing " + middleware.UserIDHeader + " header")
	}
	return id, nil
}
