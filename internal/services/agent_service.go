package services

import "github.com/AyushSid28/Coach-Loop/internal/models"

// agents is the fixed coach persona catalog.
var agents = []models.Agent{
	{ID: 1, Name: "Executive Coach", Type: "executive_coach", Description: "Helps executives develop leadership skills."},
	{ID: 2, Name: "Career Coach", Type: "career_coach", Description: "Guides you through career transitions and growth."},
	{ID: 3, Name: "Academic Success Coach", Type: "academic_success_coach", Description: "Supports students in achieving academic excellence."},
	{ID: 4, Name: "Financial Planning Assistant", Type: "financial_planner", Description: "Assists with budgeting, saving, and financial management."},
	{ID: 5, Name: "Health & Wellness Coach", Type: "health_wellness_coach", Description: "Focuses on physical and mental well-being."},
	{ID: 6, Name: "Parenting Coach", Type: "parenting_coach", Description: "Provides guidance for effective parenting strategies."},
	{ID: 7, Name: "Personal Development Coach", Type: "personal_dev_coach", Description: "Helps in self-improvement and goal setting."},
	{ID: 8, Name: "Presentation Skills Coach", Type: "presentation_coach", Description: "Improves public speaking and presentation skills."},
	{ID: 9, Name: "Relationship Coach", Type: "relationship_coach", Description: "Guides users in personal and professional relationships."},
	{ID: 10, Name: "Stress Management Coach", Type: "stress_management_coach", Description: "Teaches strategies to handle stress effectively."},
}

func AllAgents() []models.Agent {
	result := make([]models.Agent, len(agents))
	copy(result, agents)
	return result
}

func AgentByType(agentType string) (models.Agent, bool) {
	for _, agent := range agents {
		if agent.Type == agentType {
			return agent, true
		}
	}
	return models.Agent{}, false
}
