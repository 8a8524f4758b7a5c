package firestore

import (
	"context"
	"fmt"

	gcfirestore "cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/insect-control-api/internal/config"
	"google.golang.org/api/option"
)

// App agrupa os clientes do Firebase usados pela API
type App struct {
	Firestore *gcfirestore.Client
	Auth      *auth.Client
}

func NewApp(ctx context.Context, cfg config.Firebase) (*App, error) {
	opts := make([]option.ClientOption, 0, 1)
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	var fbConfig *firebase.Config
	if cfg.ProjectID != "" {
		fbConfig = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(ctx, fbConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase: erro ao inicializar app: %w", err)
	}

	store, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: erro ao obter cliente do Firestore: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("firebase: erro ao obter cliente de autenticação: %w", err)
	}

	logrus.WithField("project_id", cfg.ProjectID).Info("Firebase inicializado com sucesso")

	return &App{
		Firestore: store,
		Auth:      authClient,
	}, nil
}

func (a *App) Close() error {
	if a == nil || a.Firestore == nil {
		return nil
	}
	return a.Firestore.Close()
}
