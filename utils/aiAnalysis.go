package utils

import (
	"log"
	"time"

	"fixdesk/config"
	"fixdesk/models"

	"github.com/go-resty/resty/v2"
)

const analysisPrompt = "Analyze this image and identify any damage, issues, or objects. " +
	"Provide labels, detected objects, and a brief description. " +
	"Format: Labels: [label1, label2], Objects: [obj1, obj2], Description: text"

// AnalyzeTicketImage asks the analysis endpoint to describe a ticket's first
// image attachment. Best effort: any failure returns nil and the ticket is
// created without an analysis.
func AnalyzeTicketImage(imageURL string) *models.AIAnalysis {
	client := resty.New().SetTimeout(15 * time.Second)

	payload := map[string]interface{}{
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]interface{}{
					{"type": "image_url", "image_url": map[string]string{"url": imageURL}},
					{"type": "text", "text": analysisPrompt},
				},
			},
		},
	}

	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(config.AppConfig.AiAnalysisURL)
	if err != nil {
		log.Printf("AI Analysis error: %v", err)
		return nil
	}
	if resp.IsError() {
		log.Printf("AI Analysis error: status %d", resp.StatusCode())
		return nil
	}

	return &models.AIAnalysis{
		Description: resp.String(),
		Labels:      []string{},
		Objects:     []string{},
		Confidence:  0.8,
	}
}
