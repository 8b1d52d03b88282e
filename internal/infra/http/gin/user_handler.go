package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	userapp "staybook/internal/app/handlers/user"
	"staybook/internal/app/queries"
)

type UserHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type registerUserRequest struct {
	Name string `json:"name"`
}

func (h UserHandler) Register(c *gin.Context) {
	var req registerUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cmd := userapp.RegisterUserCommand{Name: req.Name, IdempotencyKeyV: c.GetHeader("Idempotency-Key")}
	result, err := commands.Dispatch[userapp.RegisterUserCommand, *dto.User](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "user": result})
}

func (h UserHandler) Get(c *gin.Context) {
	result, err := queries.Ask[userapp.GetUserQuery, *dto.User](c.Request.Context(), h.Queries, userapp.GetUserQuery{UserID: c.Param("id")})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ UserHTTP = UserHandler{}
