package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// значение в контексте может быть int / int64 / float64 / string,
// в зависимости от того, кто его туда положил
func ctxInt(c *gin.Context, key string) (int, bool) {
	v, ok := c.Get(key)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case string:
		if n, err := strconv.Atoi(t); err == nil {
			return n, true
		}
	}
	return 0, false
}

func getUserAndRole(c *gin.Context) (userID, roleID int) {
	userID, _ = ctxInt(c, "user_id")
	roleID, _ = ctxInt(c, "role_id")
	return
}

func pathInt(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func pathInt64(c *gin.Context, name string) (int64, bool) {
	n, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return
}
