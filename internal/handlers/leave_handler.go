package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fieldops/internal/authz"
	"fieldops/internal/models"
	"fieldops/internal/services"
)

type LeaveHandler struct {
	service *services.LeaveService
}

func NewLeaveHandler(service *services.LeaveService) *LeaveHandler {
	return &LeaveHandler{service: service}
}

type createLeaveRequest struct {
	Type      string `json:"type" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason"`
}

func (h *LeaveHandler) Create(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	var req createLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lr := &models.LeaveRequest{
		StaffID:   userID,
		Type:      models.LeaveType(req.Type),
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Reason:    req.Reason,
	}
	if err := h.service.Create(lr); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, lr)
}

func (h *LeaveHandler) Get(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	id, ok := pathInt(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid leave id"})
		return
	}
	lr, err := h.service.GetByID(id)
	if err != nil || lr == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "leave request not found"})
		return
	}
	// чужие заявки видят только менеджеры/HR/аудит
	if lr.StaffID != userID && !authz.IsElevated(roleID) && roleID != authz.RoleAudit {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}
	c.JSON(http.StatusOK, lr)
}

func (h *LeaveHandler) List(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	limit, offset := pagination(c)
	staffID, _ := strconv.Atoi(c.Query("staff_id"))
	if !authz.IsElevated(roleID) && roleID != authz.RoleAudit {
		staffID = userID
	}
	requests, err := h.service.List(staffID, c.Query("status"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, requests)
}

// Decide approves or rejects a pending request. Route-level RequireRoles
// already limits this to manager/HR/admin.
func (h *LeaveHandler) Decide(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	id, ok := pathInt(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid leave id"})
		return
	}
	var req struct {
		Approve *bool `json:"approve" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lr, err := h.service.Decide(id, userID, *req.Approve)
	if err != nil {
		h.leaveError(c, err)
		return
	}
	c.JSON(http.StatusOK, lr)
}

func (h *LeaveHandler) Cancel(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	id, ok := pathInt(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid leave id"})
		return
	}
	lr, err := h.service.Cancel(id, userID, authz.IsElevated(roleID))
	if err != nil {
		h.leaveError(c, err)
		return
	}
	c.JSON(http.StatusOK, lr)
}

func (h *LeaveHandler) leaveError(c *gin.Context, err error) {
	switch err {
	case services.ErrLeaveNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case services.ErrNotRequestOwner, services.ErrDecisionNotAllowed:
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case services.ErrInvalidTransition:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
