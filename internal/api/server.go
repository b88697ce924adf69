package api

import (
	"html/template"

	"serwer-cytatow/internal/config"
	"serwer-cytatow/internal/service"

	"go.uber.org/zap"
)

type Server struct {
	config    *config.Config
	accounts  *service.Accounts
	quotes    *service.Quotes
	log       *zap.Logger
	templates map[string]*template.Template
}

func NewServer(cfg *config.Config, accounts *service.Accounts, quotes *service.Quotes, logger *zap.Logger) (*Server, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	quotes.OnPublish = recordPublished

	return &Server{
		config:    cfg,
		accounts:  accounts,
		quotes:    quotes,
		log:       logger,
		templates: templates,
	}, nil
}
