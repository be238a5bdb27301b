package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fieldops/internal/authz"
	"fieldops/internal/models"
	"fieldops/internal/services"
)

type SalesHandler struct {
	service *services.SalesService
}

func NewSalesHandler(service *services.SalesService) *SalesHandler {
	return &SalesHandler{service: service}
}

type createSaleRequest struct {
	RepID    int     `json:"rep_id"`
	ClientID int     `json:"client_id" binding:"required"`
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Quantity int     `json:"quantity" binding:"required,gt=0"`
	SoldAt   string  `json:"sold_at"` // "2006-01-02", по умолчанию сегодня
}

func (h *SalesHandler) CreateSale(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	var req createSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// торговый всегда пишет от своего имени, rep_id в запросе
	// уважаем только для менеджеров
	repID := userID
	if req.RepID != 0 && authz.IsElevated(roleID) {
		repID = req.RepID
	}

	soldAt := time.Now()
	if req.SoldAt != "" {
		t, err := time.Parse("2006-01-02", req.SoldAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "sold_at must be YYYY-MM-DD"})
			return
		}
		soldAt = t
	}

	sale := &models.MasterSale{
		RepID:    repID,
		ClientID: req.ClientID,
		Amount:   req.Amount,
		Quantity: req.Quantity,
		SoldAt:   soldAt,
	}
	if err := h.service.CreateSale(sale); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, sale)
}

func (h *SalesHandler) GetSale(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sale id"})
		return
	}
	sale, err := h.service.GetSale(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "sale not found"})
		return
	}
	c.JSON(http.StatusOK, sale)
}

func (h *SalesHandler) UpdateSale(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sale id"})
		return
	}
	var sale models.MasterSale
	if err := c.ShouldBindJSON(&sale); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sale.ID = id
	if err := h.service.UpdateSale(&sale); err != nil {
		if err == services.ErrSaleNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sale)
}

func (h *SalesHandler) DeleteSale(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sale id"})
		return
	}
	if err := h.service.DeleteSale(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "sale deleted"})
}

// ListSales — листинг с фильтрами и сортировкой для главного экрана продаж.
func (h *SalesHandler) ListSales(c *gin.Context) {
	f := salesFilterFromQuery(c)
	sales, err := h.service.FilterSales(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sales)
}

func (h *SalesHandler) CreateTarget(c *gin.Context) {
	var target models.SalesTarget
	if err := c.ShouldBindJSON(&target); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.CreateTarget(&target); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, target)
}

func (h *SalesHandler) UpdateTarget(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid target id"})
		return
	}
	var target models.SalesTarget
	if err := c.ShouldBindJSON(&target); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	target.ID = id
	if err := h.service.UpdateTarget(&target); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, target)
}

func (h *SalesHandler) DeleteTarget(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid target id"})
		return
	}
	if err := h.service.DeleteTarget(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "target deleted"})
}

func (h *SalesHandler) ListTargets(c *gin.Context) {
	repID, _ := strconv.Atoi(c.Query("rep_id"))
	targets, err := h.service.ListTargets(c.Query("period"), repID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, targets)
}

// Performance отдаёт сводку план/факт по торговым за период.
func (h *SalesHandler) Performance(c *gin.Context) {
	rows, err := h.service.Performance(c.Query("period"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func salesFilterFromQuery(c *gin.Context) models.SalesFilter {
	limit, offset := pagination(c)
	repID, _ := strconv.Atoi(c.Query("rep_id"))
	clientID, _ := strconv.Atoi(c.Query("client_id"))
	return models.SalesFilter{
		RepID:    repID,
		ClientID: clientID,
		From:     c.Query("from"),
		To:       c.Query("to"),
		SortBy:   c.DefaultQuery("sort_by", "sold_at"),
		Order:    c.DefaultQuery("order", "desc"),
		Limit:    limit,
		Offset:   offset,
	}
}
