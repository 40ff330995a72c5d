package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/trackcore-go/internal/service"
	"github.com/jengzang/trackcore-go/pkg/response"
)

// TaskHandler handles HTTP requests for task records
type TaskHandler struct {
	tasks *service.TaskService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// Get handles GET /api/v1/tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	task, err := h.tasks.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, "Failed to get task", err)
		return
	}
	response.Success(c, task)
}
