package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fieldops/internal/authz"
	"fieldops/internal/models"
	"fieldops/internal/services"
)

type UserHandler struct {
	service services.UserService
}

type createUserRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Region   string `json:"region"`
	RoleID   int    `json:"role_id" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

func NewUserHandler(service services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// @Summary      Создать сотрудника
// @Tags         Staff
// @Accept       json
// @Produce      json
// @Param        user  body      createUserRequest  true  "Данные сотрудника"
// @Success      201   {object}  models.User
// @Failure      400   {object}  map[string]string
// @Router       /staff [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !authz.ValidRole(req.RoleID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role_id"})
		return
	}
	user := &models.User{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Region:   req.Region,
		RoleID:   req.RoleID,
	}
	if err := h.service.CreateUserWithPassword(user, req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	user, err := h.service.GetUserByID(id)
	if err != nil || user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// Me возвращает профиль текущего пользователя (из токена).
func (h *UserHandler) Me(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	user, err := h.service.GetUserByID(userID)
	if err != nil || user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	user, err := h.service.GetUserByID(id)
	if err != nil || user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	var req struct {
		FullName *string `json:"full_name"`
		Phone    *string `json:"phone"`
		Region   *string `json:"region"`
		RoleID   *int    `json:"role_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Region != nil {
		user.Region = *req.Region
	}
	if req.RoleID != nil {
		if !authz.ValidRole(*req.RoleID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role_id"})
			return
		}
		user.RoleID = *req.RoleID
	}
	if err := h.service.UpdateUser(user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	if err := h.service.DeleteUser(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}

func (h *UserHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	if roleStr := c.Query("role_id"); roleStr != "" {
		roleID, err := strconv.Atoi(roleStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role_id"})
			return
		}
		users, err := h.service.ListByRole(roleID, limit, offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, users)
		return
	}
	users, err := h.service.ListUsers(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, users)
}

// ListManagers — выборка для формы "кому отправить заявку".
func (h *UserHandler) ListManagers(c *gin.Context) {
	limit, offset := pagination(c)
	users, err := h.service.ListByRole(authz.RoleManager, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Count(c *gin.Context) {
	n, err := h.service.GetUserCount()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}
