package api

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	customErrors "github.com/Miraines/MoonyAndStarry/account-service/internal/domain/account/errors"
)

type Request struct {
	Operation string          `json:"operation" binding:"required"`
	Variables json.RawMessage `json:"variables"`
}

type Response struct {
	Data   map[string]any          `json:"data"`
	Errors []customErrors.Envelope `json:"errors,omitempty"`
}

type Handler struct {
	registry *Registry
}

func NewHandler(registry *Registry) *Handler {
	return &Handler{registry: registry}
}

func (h *Handler) Query(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, "", invalidRequest(err))
		return
	}

	result, err := h.registry.Execute(c.Request.Context(), req.Operation, req.Variables)
	if err != nil {
		h.fail(c, req.Operation, err)
		return
	}

	observe(req.Operation, http.StatusOK)
	c.JSON(http.StatusOK, Response{Data: map[string]any{req.Operation: result}})
}

func (h *Handler) fail(c *gin.Context, operation string, err error) {
	env := customErrors.ToEnvelope(err)
	if env.Code >= http.StatusInternalServerError {
		// попадёт в лог через RequestLogger
		_ = c.Error(err)
	}

	data := map[string]any{}
	label := unknownOperation
	if _, ok := h.registry.Lookup(operation); ok {
		data[operation] = nil
		label = operation
	}
	observe(label, env.Code)

	c.JSON(env.Code, Response{Data: data, Errors: []customErrors.Envelope{env}})
}
