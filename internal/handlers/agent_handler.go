package handlers

import (
	"github.com/AyushSid28/Coach-Loop/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AgentHandler struct{}

func NewAgentHandler() *AgentHandler {
	return &AgentHandler{}
}

func (h *AgentHandler) ListAgents(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "agents": services.AllAgents()})
}

func (h *AgentHandler) GetAgentByType(c *fiber.Ctx) error {
	agent, ok := services.AgentByType(c.Params("type"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Agent Not Found"})
	}
	return c.JSON(fiber.Map{"success": true, "agent": agent})
}
