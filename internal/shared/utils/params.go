package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/recurra-io/recurra/internal/shared/errors"
)

// ParseUintParam parses a positive integer path parameter.
func ParseUintParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.NewBadRequestError("invalid " + name + " parameter")
	}
	return uint(id), nil
}

// CurrentUserID reads the authenticated user id asserted into the request
// context by the auth middleware.
func CurrentUserID(c *gin.Context) (uint, error) {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0, errors.NewUnauthorizedError("User not authenticated")
	}

	uid, ok := userID.(uint)
	if !ok {
		return 0, errors.NewInternalError("Internal error")
	}
	return uid, nil
}
