package delivery

import (
	"net/http"
	"strconv"

	"alertfi-backend/internal/admin/usecase"
	authdomain "alertfi-backend/internal/auth/domain"
	detectordelivery "alertfi-backend/internal/detector/delivery"
	"alertfi-backend/internal/detector/domain"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminUsecase usecase.AdminUsecase
}

func NewAdminHandler(adminUsecase usecase.AdminUsecase) *AdminHandler {
	return &AdminHandler{
		adminUsecase: adminUsecase,
	}
}

// GetUsers
// GET /api/admin/users?limit=50&offset=0
func (h *AdminHandler) GetUsers(c *gin.Context) {
	limit, offset := pageParams(c)

	users, total, err := h.adminUsecase.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		detectordelivery.WriteError(c, err)
		return
	}
	if users == nil {
		users = []*authdomain.User{}
	}

	c.JSON(http.StatusOK, gin.H{"users": users, "total": total})
}

// GetDetectors
// GET /api/admin/detectors?limit=50&offset=0
func (h *AdminHandler) GetDetectors(c *gin.Context) {
	limit, offset := pageParams(c)

	detectors, total, err := h.adminUsecase.ListDetectors(c.Request.Context(), limit, offset)
	if err != nil {
		detectordelivery.WriteError(c, err)
		return
	}
	if detectors == nil {
		detectors = []*domain.Detector{}
	}

	c.JSON(http.StatusOK, gin.H{"detectors": detectors, "total": total})
}

// GetReadings returns the most recent readings across every detector
// GET /api/admin/readings?limit=100
func (h *AdminHandler) GetReadings(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(usecase.DefaultRecentReadings)))

	readings, err := h.adminUsecase.RecentReadings(c.Request.Context(), limit)
	if err != nil {
		detectordelivery.WriteError(c, err)
		return
	}
	if readings == nil {
		readings = []*domain.Reading{}
	}

	c.JSON(http.StatusOK, gin.H{"readings": readings})
}

func pageParams(c *gin.Context) (int, int) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}
