package handler

import (
	"errors"
	"net/http"

	"docgen/internal/render"
	"docgen/internal/service"
	"docgen/pkg/response"

	"github.com/gin-gonic/gin"
)

type TemplateHandler struct {
	templateService service.TemplateService
}

func NewTemplateHandler(templateService service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

func (h *TemplateHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/templates", h.ListTemplates)

	users := router.Group("/api/users")
	{
		users.GET("/:id/template-preference", h.GetPreference)
		users.PUT("/:id/template-preference", h.UpdatePreference)
	}
}

// ListTemplates returns the ordered template registry
// @Summary      List templates
// @Description  Returns the ordered list of available document templates
// @Tags         templates
// @Produce      json
// @Success      200  {object}  response.Response{data=[]service.TemplateInfo}
// @Router       /api/templates [get]
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.templateService.ListTemplates()))
}

// GetPreference returns a user's saved template preference
// @Summary      Get template preference
// @Tags         templates
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response{data=service.PreferenceResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/users/{id}/template-preference [get]
func (h *TemplateHandler) GetPreference(c *gin.Context) {
	pref, err := h.templateService.GetPreference(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, pref))
}

// UpdatePreference saves a user's template preference
// @Summary      Update template preference
// @Tags         templates
// @Accept       json
// @Produce      json
// @Param        id       path      string                            true  "User ID"
// @Param        payload  body      service.UpdatePreferenceRequest  true  "Preference payload"
// @Success      200      {object}  response.Response{data=service.PreferenceResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/users/{id}/template-preference [put]
func (h *TemplateHandler) UpdatePreference(c *gin.Context) {
	var req service.UpdatePreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	pref, err := h.templateService.UpdatePreference(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, pref))
}

// statusFor maps engine failures onto HTTP statuses: external renderer
// crashes surface as 502, everything else as a client error.
func statusFor(err error) int {
	var backendErr *render.BackendError
	if errors.As(err, &backendErr) {
		return http.StatusBadGateway
	}
	return http.StatusBadRequest
}
