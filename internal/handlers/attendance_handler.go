package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fieldops/internal/authz"
	"fieldops/internal/models"
	"fieldops/internal/services"
)

type AttendanceHandler struct {
	service *services.AttendanceService
}

func NewAttendanceHandler(service *services.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: service}
}

// CheckIn opens a new attendance record for the current user.
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	var req struct {
		Device string `json:"device"`
	}
	// тело опционально
	_ = c.ShouldBindJSON(&req)

	rec, err := h.service.CheckIn(userID, req.Device)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *AttendanceHandler) CheckOut(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	if err := h.service.CheckOut(userID); err != nil {
		if err == services.ErrNoOpenShift {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "checked out"})
}

func (h *AttendanceHandler) ListLogins(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	f := attendanceFilterFromQuery(c)
	// обычный сотрудник видит только свою историю
	if !authz.IsElevated(roleID) && roleID != authz.RoleAudit {
		f.StaffID = userID
	}
	records, err := h.service.ListLogins(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *AttendanceHandler) CreateJourney(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	var req struct {
		RepID    int    `json:"rep_id"`
		ClientID int    `json:"client_id" binding:"required"`
		PlanDate string `json:"plan_date" binding:"required"`
		Notes    string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	repID := userID
	if req.RepID != 0 && authz.IsElevated(roleID) {
		repID = req.RepID
	}
	j := &models.JourneyPlan{
		RepID:    repID,
		ClientID: req.ClientID,
		PlanDate: req.PlanDate,
		Notes:    req.Notes,
	}
	if err := h.service.CreateJourney(j); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, j)
}

func (h *AttendanceHandler) GetJourney(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid journey id"})
		return
	}
	j, err := h.service.GetJourney(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "journey plan not found"})
		return
	}
	c.JSON(http.StatusOK, j)
}

func (h *AttendanceHandler) ListJourneys(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	f := attendanceFilterFromQuery(c)
	if !authz.IsElevated(roleID) && roleID != authz.RoleAudit {
		f.StaffID = userID
	}
	plans, err := h.service.ListJourneys(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, plans)
}

// ChangeJourneyStatus moves a plan along pending -> checked_in -> completed
// (or cancels it). Owner or an elevated role only.
func (h *AttendanceHandler) ChangeJourneyStatus(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	id, ok := pathInt(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid journey id"})
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	j, err := h.service.ChangeJourneyStatus(id, userID, authz.IsElevated(roleID), models.JourneyStatus(req.Status))
	if err != nil {
		switch err {
		case services.ErrJourneyNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case services.ErrNotJourneyOwner:
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case services.ErrInvalidTransition:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, j)
}

func (h *AttendanceHandler) DeleteJourney(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	id, ok := pathInt(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid journey id"})
		return
	}
	if err := h.service.DeleteJourney(id, userID, authz.IsElevated(roleID)); err != nil {
		switch err {
		case services.ErrJourneyNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case services.ErrNotJourneyOwner, services.ErrJourneyFinalized:
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "journey plan deleted"})
}

func attendanceFilterFromQuery(c *gin.Context) models.AttendanceFilter {
	limit, offset := pagination(c)
	staffID, _ := strconv.Atoi(c.Query("staff_id"))
	return models.AttendanceFilter{
		StaffID: staffID,
		From:    c.Query("from"),
		To:      c.Query("to"),
		Status:  c.Query("status"),
		Limit:   limit,
		Offset:  offset,
	}
}
