package dto

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Detail strings are part of the HTTP contract; clients and the web UI
// match on them verbatim.
const (
	DetailActivityNotFound = "Activity not found"
	DetailAlreadySignedUp  = "Student already signed up for this activity"
	DetailNotRegistered    = "Student not registered for this activity"
)

// MessageResponse is the success body for signup and unregister.
type MessageResponse struct {
	Message string `json:"message"`
}

// DetailResponse is the error body for every failed roster operation.
type DetailResponse struct {
	Detail string `json:"detail"`
}

// SignupRequest carries the email query parameter for signup/unregister.
type SignupRequest struct {
	Email string `form:"email" validate:"required,email"`
}

// Roster change actions published to the notification exchange.
const (
	ActionSignedUp     = "signed_up"
	ActionUnregistered = "unregistered"
)

// RosterChangeMessage is the payload published to RabbitMQ after a roster
// mutation commits.
type RosterChangeMessage struct {
	Activity   string    `json:"activity"`
	Email      string    `json:"email"`
	Action     string    `json:"action"`
	OccurredAt time.Time `json:"occurred_at"`
}

func SignedUpMessage(email, activityName string) string {
	return fmt.Sprintf("%s signed up for %s", email, activityName)
}

func UnregisteredMessage(email, activityName string) string {
	return fmt.Sprintf("%s unregistered from %s", email, activityName)
}

func ActivityNotFoundError(c *gin.Context) {
	c.JSON(http.StatusNotFound, DetailResponse{Detail: DetailActivityNotFound})
}

func AlreadySignedUpError(c *gin.Context) {
	c.JSON(http.StatusBadRequest, DetailResponse{Detail: DetailAlreadySignedUp})
}

func NotRegisteredError(c *gin.Context) {
	c.JSON(http.StatusBadRequest, DetailResponse{Detail: DetailNotRegistered})
}

func BadRequestError(c *gin.Context, detail string) {
	c.JSON(http.StatusBadRequest, DetailResponse{Detail: detail})
}

func SuccessMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageResponse{Message: message})
}
