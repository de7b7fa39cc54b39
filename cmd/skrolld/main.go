// Command skrolld runs the skroll authentication server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/gormstore"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	skroll "github.com/SOULBRODA023/skroll-backend-two"
	"github.com/SOULBRODA023/skroll-backend-two/metrics"
	skrolloauth "github.com/SOULBRODA023/skroll-backend-two/oauth2"
	gormstores "github.com/SOULBRODA023/skroll-backend-two/stores/gorm"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := skroll.LoadConfig()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *skroll.Config) error {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return err
	}
	if err := gormstores.AutoMigrate(db); err != nil {
		return err
	}

	users := gormstores.NewUserStore(db)

	sessions := skroll.NewSessionManager(users, cfg.SessionSecret, cfg.SessionLifetime)
	sessions.Sessions.Cookie.Secure = cfg.CookieSecure
	sessionStore, err := gormstore.New(db)
	if err != nil {
		return err
	}
	sessions.Sessions.Store = sessionStore

	hasher := &skroll.BcryptHasher{}
	auth := &skroll.Auth{
		Local:    &skroll.LocalAuthenticator{Users: users, Hasher: hasher},
		Resolver: &skroll.IdentityResolver{Users: users},
		Signups:  &skroll.SignupService{Users: users, Hasher: hasher},
		Sessions: sessions,
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	handler := &skroll.AuthHandler{
		Auth:    auth,
		Metrics: collector,
	}

	google := skrolloauth.NewGoogleOAuth2(
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		cfg.GoogleCallbackURL,
		func(ident skrolloauth.Identity, w http.ResponseWriter, r *http.Request) {
			handler.HandleGoogleIdentity(skroll.ExternalIdentity{
				GoogleID: ident.Subject,
				Email:    ident.Email,
				FullName: ident.Name,
			}, w, r)
		},
	)
	handler.OAuthStart = http.HandlerFunc(google.HandleStart)
	handler.OAuthCallback = http.HandlerFunc(google.HandleCallback)

	router := mux.NewRouter()
	handler.RegisterRoutes(router)
	router.Handle("/metrics", metrics.Handler(registry)).Methods(http.MethodGet)

	server := &http.Server{
		Addr:    net.JoinHostPort("", cfg.Port),
		Handler: sessions.LoadAndSave(router),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
