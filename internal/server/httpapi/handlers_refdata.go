package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dvergara-cl/refdata/internal/common"
	"github.com/dvergara-cl/refdata/internal/server/models"
	"github.com/dvergara-cl/refdata/internal/server/services"
	"github.com/gin-gonic/gin"
)

func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// idParam parses the :id path segment. A non-numeric id behaves like a
// missing row.
func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusNotFound, gin.H{"status": false, "errors": []string{"Not found"}})
		return 0, false
	}
	return id, true
}

func listResponse(c *gin.Context, data any, page int, total int64) {
	c.JSON(http.StatusOK, gin.H{
		"data":     data,
		"page":     page,
		"per_page": services.PageSize,
		"total":    total,
	})
}

// joinedMessages flattens a validation error into the single audit detail
// line the activity log keeps.
func joinedMessages(err error) string {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return strings.Join(verr.Messages, ", ")
	}
	return err.Error()
}

type regionRequest struct {
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

func (s *HTTPServer) handleRegionList(c *gin.Context) {
	page := pageParam(c)
	regions, total, err := s.regions.List(c.Request.Context(), page)
	if err != nil {
		renderError(c, err)
		return
	}
	if regions == nil {
		regions = []*models.Region{}
	}
	listResponse(c, regions, page, total)
}

func (s *HTTPServer) handleRegionCreate(c *gin.Context) {
	var req regionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "errors": []string{"Invalid request body"}})
		return
	}

	var description, status string
	if req.Description != nil {
		description = *req.Description
	}
	if req.Status != nil {
		status = *req.Status
	}

	region, err := s.regions.Create(c.Request.Context(), description, status)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			record(c, models.ActionRegisterRegionsFailed, "Intento de registro fallido: "+joinedMessages(err))
		}
		renderError(c, err)
		return
	}

	record(c, models.ActionRegisterRegionsSuccessful, "Registro exitoso: "+region.Description)
	c.JSON(http.StatusOK, gin.H{"status": true, "message": "Successfully register"})
}

func (s *HTTPServer) handleRegionUpdate(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req regionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "errors": []string{"Invalid request body"}})
		return
	}

	if err := s.regions.Update(c.Request.Context(), id, req.Description, req.Status); err != nil {
		if errors.Is(err, common.ErrorValidation) {
			record(c, models.ActionUpdatedRegionsFailed, "Intento de actualizacion fallido: "+joinedMessages(err))
		}
		renderError(c, err)
		return
	}

	detail := "Región actualizada"
	if req.Description != nil {
		detail += ": " + *req.Description
	}
	record(c, models.ActionUpdatedRegionsSuccessful, detail)
	c.JSON(http.StatusOK, gin.H{"status": true, "message": "Successfully updated"})
}

func (s *HTTPServer) handleRegionDelete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	region, err := s.regions.Delete(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}

	record(c, models.ActionDeletedRegionsSuccessful, "Región eliminada: "+region.Description)
	c.JSON(http.StatusOK, gin.H{"status": true, "message": "Successfully eliminated"})
}

type communeRequest struct {
	RegionID    *int64  `json:"id_reg"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

func (s *HTTPServer) handleCommuneList(c *gin.Context) {
	page := pageParam(c)
	communes, total, err := s.communes.List(c.Request.Context(), page)
	if err != nil {
		renderError(c, err)
		return
	}
	if communes == nil {
		communes = []*models.Commune{}
	}
	listResponse(c, communes, page, total)
}

func (s *HTTPServer) handleCommuneCreate(c *gin.Context) {
	var req communeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "errors": []string{"Invalid request body"}})
		return
	}

	var regionID int64
	if req.RegionID != nil {
		regionID = *req.RegionID
	}
	var description, status string
	if req.Description != nil {
		description = *req.Description
	}
	if req.Status != nil {
		status = *req.Status
	}

	commune, err := s.communes.Create(c.Request.Context(), regionID, description, status)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			record(c, models.ActionRegisterCommunesFailed, "Intento de registro fallido: "+joinedMessages(err))
		}
		renderError(c, err)
		return
	}

	record(c, models.ActionRegisterCommunesSuccessful, "Registro exitoso: "+commune.Description)
	c.JSON(http.StatusOK, gin.H{"status": true, "message": "Successfully register"})
}

func (s *HTTPServer) handleCommuneUpdate(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req communeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "errors": []string{"Invalid request body"}})
		return
	}

	if err := s.communes.Update(c.Request.Context(), id, req.RegionID, req.Description, req.Status); err != nil {
		if errors.Is(err, common.ErrorValidation) {
			record(c, models.ActionUpdatedCommunesFailed, "Intento de actualizacion fallido: "+joinedMessages(err))
		}
		renderError(c, err)
		return
	}

	detail := "Municipio actualizado"
	if req.Description != nil {
		detail += ": " + *req.Description
	}
	record(c, models.ActionUpdatedCommunesSuccessful, detail)
	c.JSON(http.StatusOK, gin.H{"status": true, "message": "Successfully updated"})
}

func (s *HTTPServer) handleCommuneDelete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	commune, err := s.communes.Delete(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}

	record(c, models.ActionDeletedCommunesSuccessful, "Municipio eliminada: "+commune.Description)
	c.JSON(http.StatusOK, gin.H{"status": true, "message": "Successfully eliminated"})
}

type customerRequest struct {
	DNI       string  `json:"dni"`
	RegionID  int64   `json:"id_reg"`
	CommuneID int64   `json:"id_com"`
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	LastName  string  `json:"last_name"`
	Address   *string `json:"address"`
	DateReg   string  `json:"date_reg"`
	Status    string  `json:"status"`
}

func (r *customerRequest) input() *services.CustomerInput {
	return &services.CustomerInput{
		DNI:       r.DNI,
		RegionID:  r.RegionID,
		CommuneID: r.CommuneID,
		Email:     r.Email,
		Name:      r.Name,
		LastName:  r.LastName,
		Address:   r.Address,
		DateReg:   r.DateReg,
		Status:    r.Status,
	}
}

func (s *HTTPServer) handleCustomerList(c *gin.Context) {
	page := pageParam(c)
	customers, total, err := s.customers.List(c.Request.Context(), page)
	if err != nil {
		renderError(c, err)
		return
	}
	if customers == nil {
		customers = []*models.Customer{}
	}
	listResponse(c, customers, page, total)
}

func (s *HTTPServer) handleCustomerCreate(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "errors": []string{"Invalid request body"}})
		return
	}

	customer, err := s.customers.Create(c.Request.Context(), req.input())
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			record(c, models.ActionRegisterCustomersFailed, "Intento de registro fallido: "+joinedMessages(err))
		}
		renderError(c, err)
		return
	}

	record(c, models.ActionRegisterCustomersSuccessful, "Registro exitoso: "+customer.Name+" "+customer.LastName)
	c.JSON(http.StatusOK, gin.H{"status": true, "message": "Successfully registered"})
}

func (s *HTTPServer) handleCustomerUpdate(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "errors": []string{"Invalid request body"}})
		return
	}

	customer, err := s.customers.Update(c.Request.Context(), id, req.input())
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			record(c, models.ActionUpdatedCustomersFailed, "Intento de actualizacion fallido: "+joinedMessages(err))
		}
		renderError(c, err)
		return
	}

	record(c, models.ActionUpdatedCustomersSuccessful, "Actualización exitosa: "+customer.Name+" "+customer.LastName)
	c.JSON(http.StatusOK, gin.H{"status": true, "message": "Successfully updated"})
}

func (s *HTTPServer) handleCustomerDelete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	customer, err := s.customers.Delete(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}

	record(c, models.ActionDeletedCustomersSuccessful, "Registro eliminado: "+customer.Name+" "+customer.LastName)
	c.JSON(http.StatusOK, gin.H{"status": true, "message": "Successfully deleted"})
}
