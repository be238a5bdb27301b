package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fieldops/internal/models"
	"fieldops/internal/services"
)

// ClientHandler обслуживает справочник торговых точек.
type ClientHandler struct {
	service *services.ClientService
}

func NewClientHandler(service *services.ClientService) *ClientHandler {
	return &ClientHandler{service: service}
}

func (h *ClientHandler) Create(c *gin.Context) {
	var client models.Client
	if err := c.ShouldBindJSON(&client); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.service.Create(&client)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client id"})
		return
	}
	client, err := h.service.GetByID(id)
	if err != nil || client == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client id"})
		return
	}
	var client models.Client
	if err := c.ShouldBindJSON(&client); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	client.ID = id
	if err := h.service.Update(&client); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client id"})
		return
	}
	if err := h.service.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "client deleted"})
}

func (h *ClientHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	clients, err := h.service.List(c.Query("region"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, clients)
}
