package service

type App struct {
	Webhook *WebhookService
	Project *ProjectService
}

func NewApp(webhook *WebhookService, project *ProjectService) *App {
	return &App{
		Webhook: webhook,
		Project: project,
	}
}
