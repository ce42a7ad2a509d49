package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/luminalabs/lumina-video-api/pkg/db"
	"github.com/luminalabs/lumina-video-api/pkg/middleware"
	"github.com/luminalabs/lumina-video-api/pkg/utils"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *Handlers) RegisterUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debugf("RegisterUser: Invalid request body: %v", err)
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	req.Email = strings.ToLower(req.Email)

	existingUser, err := h.Store.FindUserByEmail(req.Email)
	if err != nil {
		log.Errorf("RegisterUser: Error finding user by email '%s': %v", req.Email, err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Registration failed", nil)
		return
	}
	if existingUser != nil {
		log.Debugf("RegisterUser: User with email '%s' already exists.", req.Email)
		utils.ResponseWithError(c, http.StatusConflict, "User with email already exists", nil)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Errorf("RegisterUser: Error hashing password: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Registration failed", nil)
		return
	}

	user := &db.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
	}

	createdUser, err := h.Store.CreateUser(user)
	if err != nil {
		log.Errorf("RegisterUser: Error creating user: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Registration failed", nil)
		return
	}
	log.Infof("User with ID '%s' created.", createdUser.ID.String())

	utils.ResponseWithSuccess(c, http.StatusCreated, "User created successfully", nil)
}

func (h *Handlers) LoginUser(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debugf("LoginUser: Invalid request body: %v", err)
		utils.ResponseWithError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	req.Email = strings.ToLower(req.Email)

	user, err := h.Store.FindUserByEmail(req.Email)
	if err != nil {
		log.Errorf("LoginUser: Error finding user by email: %v", err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Login failed", nil)
		return
	}
	if user == nil {
		log.Debugf("LoginUser: User with email '%s' not found.", req.Email)
		utils.ResponseWithError(c, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		log.Debugf("LoginUser: Invalid password for user '%s'.", req.Email)
		utils.ResponseWithError(c, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	token, err := h.Tokens.GenerateToken(user.ID, user.Email, user.Username)
	if err != nil {
		log.Errorf("LoginUser: Failed to generate JWT token for user %s: %v", user.Email, err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to generate authentication token", nil)
		return
	}

	log.Infof("User %s logged in successfully.", user.Email)
	utils.ResponseWithSuccess(c, http.StatusOK, "Login successful", gin.H{"token": token})
}

// DeleteAccount removes the authenticated user. The token is the only
// source of identity here.
func (h *Handlers) DeleteAccount(c *gin.Context) {
	claims, exists := middleware.GetUserClaimsFromContext(c)
	if !exists {
		log.Error("DeleteAccount: User claims not found in context.")
		utils.ResponseWithError(c, http.StatusInternalServerError, "Authentication error: User claims not found", nil)
		return
	}

	user, err := h.Store.FindUserByID(claims.UserID)
	if err != nil {
		log.Errorf("DeleteAccount: Error finding user '%s': %v", claims.UserID.String(), err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to find user account", nil)
		return
	}
	if user == nil {
		log.Warnf("DeleteAccount: User '%s' from a valid token not found in DB.", claims.UserID.String())
		utils.ResponseWithError(c, http.StatusNotFound, "User account not found or already deleted", nil)
		return
	}

	if err := h.Store.DeleteUser(user.ID); err != nil {
		log.Errorf("DeleteAccount: Error deleting user '%s': %v", user.ID.String(), err)
		utils.ResponseWithError(c, http.StatusInternalServerError, "Failed to delete user account", nil)
		return
	}

	log.Infof("User '%s' (%s) deleted successfully.", user.ID.String(), user.Email)
	utils.ResponseWithSuccess(c, http.StatusNoContent, "User account deleted successfully", nil)
}
