package handlers

import (
	"net/http"
	"strconv"

	"VoxGate/internal/auth"
	"VoxGate/internal/models"
	"VoxGate/pkg/response"

	"github.com/gin-gonic/gin"
)

func (h *Handlers) handleRegister(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		response.FromError(c, err)
		return
	}

	user := &models.User{Email: req.Email, Password: hash}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "email": user.Email})
}

func (h *Handlers) handleLogin(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil || !auth.CheckPassword(user.Password, req.Password) {
		// unknown email and wrong password are indistinguishable on purpose
		response.Fail(c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}

	token, err := h.tokens.Sign(user.ID, user.Email)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token})
}

func (h *Handlers) handleGetUser(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid user id", nil)
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handlers) handleUpdateUser(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid user id", nil)
		return
	}

	var req struct {
		Email     *string `json:"email" binding:"omitempty,email"`
		Password  *string `json:"password" binding:"omitempty,min=6"`
		FirstName *string `json:"firstName"`
		LastName  *string `json:"lastName"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			response.FromError(c, err)
			return
		}
		user.Password = hash
	}

	if err := h.users.Update(c.Request.Context(), user); err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handlers) handleDeleteUser(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid user id", nil)
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	return uint(id), err
}
